package domain

// ActorID - непрозрачный идентификатор актора в планировщике
type ActorID string

func (id ActorID) String() string {
	return string(id)
}

// Типы акторов
const (
	ActorKindPlayer = "PLAYER"
	ActorKindNPC    = "NPC"
)

// Energy - политика ключа готовности, которой владеет существо.
// Планировщик только хранит ключ, а тратит и восстанавливает его игровой цикл.
type Energy struct {
	Speed     int     `json:"speed"`
	Readiness float64 `json:"readiness"`
}

// Spend увеличивает ключ на стоимость действия с поправкой на скорость.
// При Speed == DefaultSpeed стоимость применяется как есть. Скорость ограничена MaxSpeed,
// поэтому любое действие дороже восстановления за ход.
func (e *Energy) Spend(cost float64) {
	if e.Speed <= 0 {
		e.Readiness += cost
		return
	}
	speed := min(e.Speed, MaxSpeed)
	e.Readiness += cost * DefaultSpeed / float64(speed)
}

// Recover сдвигает ключ назад на фиксированную величину (восстановление перед ходом)
func (e *Energy) Recover() {
	e.Readiness -= RecoveryPerTurn
}

// CanAct - парализованный (Speed <= 0) только ждёт
func (e *Energy) CanAct() bool {
	return e.Speed > 0
}

// Actor - существо на уровне: игрок или NPC
type Actor struct {
	ID    ActorID `json:"id"`
	Kind  string  `json:"kind"`
	Name  string  `json:"name"`
	Pos   Coord   `json:"pos"`
	Sight int     `json:"sight"`

	HP     int  `json:"hp"`
	MaxHP  int  `json:"maxHp"`
	Damage int  `json:"damage"`
	IsDead bool `json:"isDead"`

	Energy Energy `json:"energy"`
}

// IsPlayer проверяет тип актора
func (a *Actor) IsPlayer() bool {
	return a.Kind == ActorKindPlayer
}

// TakeDamage уменьшает HP и помечает смерть. Возвращает true, если актор умер.
func (a *Actor) TakeDamage(amount int) bool {
	if a.IsDead || amount <= 0 {
		return false
	}
	a.HP -= amount
	if a.HP <= 0 {
		a.HP = 0
		a.IsDead = true
	}
	return a.IsDead
}
