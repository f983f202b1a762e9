package engine

import (
	"math/rand"

	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/jsuvanto/pyrl/internal/systems"
)

// Action - решение контроллера на один ход
type Action struct {
	Type domain.ActionType
	Dir  domain.Direction
}

// Wait - пропуск хода
func Wait() Action { return Action{Type: domain.ActionWait} }

// Move - шаг в направлении
func Move(d domain.Direction) Action { return Action{Type: domain.ActionMove, Dir: d} }

// Attack - удар по соседней клетке
func Attack(d domain.Direction) Action { return Action{Type: domain.ActionAttack, Dir: d} }

// Swap - поменяться местами с соседом
func Swap(d domain.Direction) Action { return Action{Type: domain.ActionSwap, Dir: d} }

// TurnView - то, что контроллер знает в момент хода
type TurnView struct {
	Actor   *domain.Actor
	Level   *domain.Level
	Visible *systems.VisibleSet // только для игроков, у NPC - nil

	Player       *domain.Actor // nil, если игрока на уровне нет
	CanSeePlayer bool
}

// Controller - внешняя политика выбора действия (игрок или AI).
// Ядро решает только КОГДА актор ходит, а не ЧТО он делает.
type Controller interface {
	Decide(view TurnView) Action
}

// ControllerFunc позволяет использовать функцию как Controller
type ControllerFunc func(view TurnView) Action

func (f ControllerFunc) Decide(view TurnView) Action { return f(view) }

// IdleController всегда ждет
type IdleController struct{}

func (IdleController) Decide(TurnView) Action { return Wait() }

// ScriptedController проигрывает заранее заданные действия, потом ждет
type ScriptedController struct {
	Actions []Action
	next    int
}

func (s *ScriptedController) Decide(TurnView) Action {
	if s.next >= len(s.Actions) {
		return Wait()
	}
	a := s.Actions[s.next]
	s.next++
	return a
}

// WanderController бродит случайно, а заметив игрока - идет на него и атакует
type WanderController struct {
	Rng *rand.Rand
}

func (w *WanderController) Decide(view TurnView) Action {
	me := view.Actor

	if view.Player != nil && view.CanSeePlayer {
		if me.Pos.IsAdjacent(view.Player.Pos) {
			return Attack(me.Pos.DirectionTo(view.Player.Pos))
		}
		dir := me.Pos.DirectionTo(view.Player.Pos)
		if view.Level.IsPassable(me.Pos.Add(dir)) {
			return Move(dir)
		}
	}

	// Случайный шаг среди свободных клеток
	var options []domain.Direction
	for _, d := range domain.AllDirections {
		if view.Level.IsPassable(me.Pos.Add(d)) {
			options = append(options, d)
		}
	}
	if len(options) == 0 || w.Rng == nil {
		return Wait()
	}
	return Move(options[w.Rng.Intn(len(options))])
}
