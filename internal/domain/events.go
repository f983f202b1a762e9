package domain

import "strings"

// ActionType - что актор сделал в свой ход
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionWait
	ActionMove
	ActionAttack
	ActionSwap
)

// Маппинг для конвертации JSON/конфига -> Domain
var actionStringToType = map[string]ActionType{
	"WAIT":   ActionWait,
	"MOVE":   ActionMove,
	"ATTACK": ActionAttack,
	"SWAP":   ActionSwap,
}

// Маппинг для логов Domain -> String
var actionTypeToString = map[ActionType]string{
	ActionWait:   "WAIT",
	ActionMove:   "MOVE",
	ActionAttack: "ATTACK",
	ActionSwap:   "SWAP",
}

// ParseAction конвертирует строку в ActionType (без учета регистра)
func ParseAction(s string) ActionType {
	if val, ok := actionStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionTypeToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// MarshalText нужен, чтобы в JSON действие было строкой
func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// TurnEvent - итог одного хода, уходит наблюдателям (логи, websocket)
type TurnEvent struct {
	Round   int        `json:"round"`
	Turn    int        `json:"turn"`
	Actor   ActorID    `json:"actor"`
	Action  ActionType `json:"action"`
	From    Coord      `json:"from"`
	To      Coord      `json:"to"`
	Target  ActorID    `json:"target,omitempty"`
	Damage  int        `json:"damage,omitempty"`
	Killed  bool       `json:"killed,omitempty"`
	NextKey float64    `json:"nextKey"`
	Visible int        `json:"visible,omitempty"`
}
