package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/jsuvanto/pyrl/internal/systems"
	"github.com/jsuvanto/pyrl/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Observer получает итог каждого хода
type Observer func(ev domain.TurnEvent)

// Instance - один уровень с его акторами и очередью ходов.
// Это игровой цикл поверх ядра: спрашивает планировщик, кто ходит,
// спрашивает контроллер, что делать, и платит стоимость действия.
// Все методы сериализуются через mu, сам Scheduler блокировок не имеет.
type Instance struct {
	mu sync.Mutex

	Level     *domain.Level
	Scheduler *Scheduler
	Strategy  systems.Strategy

	actors      map[domain.ActorID]*domain.Actor
	controllers map[domain.ActorID]Controller
	vision      map[domain.ActorID]*systems.VisibleSet
	observers   []Observer

	turn int
	log  *logrus.Entry
}

func NewInstance(level *domain.Level, strategy systems.Strategy) *Instance {
	if strategy == nil {
		strategy = systems.ShadowCast{}
	}
	return &Instance{
		Level:       level,
		Scheduler:   NewScheduler(),
		Strategy:    strategy,
		actors:      make(map[domain.ActorID]*domain.Actor),
		controllers: make(map[domain.ActorID]Controller),
		vision:      make(map[domain.ActorID]*systems.VisibleSet),
		log:         logger.Log.WithField("component", "instance"),
	}
}

// Subscribe добавляет наблюдателя за ходами
func (i *Instance) Subscribe(obs Observer) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.observers = append(i.observers, obs)
}

// Spawn ставит актора на уровень и в очередь с ключом Energy.Readiness.
func (i *Instance) Spawn(a *domain.Actor, ctrl Controller) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.actors[a.ID]; ok {
		return fmt.Errorf("spawn %s: %w", a.ID, domain.ErrDuplicateActor)
	}
	if a.Sight < 0 {
		return fmt.Errorf("spawn %s: %w", a.ID, domain.ErrNegativeRadius)
	}
	if err := i.Level.Place(a); err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	if err := i.Scheduler.Add(a.ID, a.Energy.Readiness); err != nil {
		i.Level.Lift(a)
		return fmt.Errorf("spawn: %w", err)
	}
	if ctrl == nil {
		ctrl = IdleController{}
	}

	i.actors[a.ID] = a
	i.controllers[a.ID] = ctrl

	i.log.WithFields(logrus.Fields{
		"actor_id": a.ID,
		"pos":      a.Pos,
		"key":      a.Energy.Readiness,
	}).Info("Actor spawned")
	return nil
}

// Kill убирает актора с уровня и из очереди (смерть или уход с уровня).
func (i *Instance) Kill(id domain.ActorID) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.kill(id)
}

func (i *Instance) kill(id domain.ActorID) error {
	a, ok := i.actors[id]
	if !ok {
		return fmt.Errorf("kill %s: %w", id, domain.ErrUnknownActor)
	}
	a.IsDead = true
	i.Level.Lift(a)
	delete(i.actors, id)
	delete(i.controllers, id)
	delete(i.vision, id)

	// Актор, который сейчас ходит, уже снят с очереди через Pop
	if i.Scheduler.Contains(id) {
		if err := i.Scheduler.Remove(id); err != nil {
			return fmt.Errorf("kill: %w", err)
		}
	}

	i.log.WithField("actor_id", id).Info("Actor removed")
	return nil
}

// Delay отодвигает ход актора (оглушение и т.п.), не дожидаясь его хода
func (i *Instance) Delay(id domain.ActorID, cost float64) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	a, ok := i.actors[id]
	if !ok {
		return fmt.Errorf("delay %s: %w", id, domain.ErrUnknownActor)
	}
	a.Energy.Readiness += cost
	return i.Scheduler.Reschedule(id, a.Energy.Readiness)
}

// Step проводит один ход: Pop -> восстановление -> решение -> стоимость -> обратно в очередь.
func (i *Instance) Step() (domain.TurnEvent, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	item, err := i.Scheduler.Pop()
	if err != nil {
		return domain.TurnEvent{}, fmt.Errorf("step: %w", err)
	}
	actor, ok := i.actors[item.Actor]
	if !ok {
		// Рассинхрон очереди и реестра - ошибка программиста
		i.log.WithField("actor_id", item.Actor).Error("Scheduled actor is not registered")
		return domain.TurnEvent{}, fmt.Errorf("step %s: %w", item.Actor, domain.ErrUnknownActor)
	}
	i.turn++

	actor.Energy.Readiness = item.Key
	actor.Energy.Recover()

	view, err := i.buildView(actor)
	if err != nil {
		// Ход не состоялся: возвращаем актора в очередь с прежним ключом
		actor.Energy.Readiness = item.Key
		if addErr := i.Scheduler.Add(actor.ID, item.Key); addErr != nil {
			return domain.TurnEvent{}, errors.Join(err, addErr)
		}
		return domain.TurnEvent{}, err
	}

	action := Wait()
	if actor.Energy.CanAct() {
		action = i.controllers[actor.ID].Decide(view)
	}

	ev := i.apply(actor, action)
	ev.Round = i.Scheduler.Round()
	ev.Turn = i.turn
	if view.Visible != nil {
		ev.Visible = view.Visible.Len()
	}

	if err := i.Scheduler.Add(actor.ID, actor.Energy.Readiness); err != nil {
		return ev, fmt.Errorf("step: %w", err)
	}
	ev.NextKey = actor.Energy.Readiness

	i.log.WithFields(logrus.Fields{
		"round":    ev.Round,
		"actor_id": ev.Actor,
		"action":   ev.Action,
		"to":       ev.To,
		"next_key": ev.NextKey,
	}).Debug("Turn processed")

	for _, obs := range i.observers {
		obs(ev)
	}
	return ev, nil
}

// RunRounds крутит цикл, пока не завершится раунд n (или очередь не опустеет).
func (i *Instance) RunRounds(n int) error {
	for {
		i.mu.Lock()
		done := i.Scheduler.Len() == 0 ||
			(i.Scheduler.Round() >= n && i.Scheduler.RoundComplete())
		i.mu.Unlock()
		if done {
			return nil
		}

		if _, err := i.Step(); err != nil {
			if errors.Is(err, domain.ErrEmptySchedule) {
				return nil
			}
			return err
		}
	}
}

func (i *Instance) buildView(actor *domain.Actor) (TurnView, error) {
	view := TurnView{Actor: actor, Level: i.Level}

	if actor.IsPlayer() {
		visible, err := systems.ComputeVisible(i.Strategy, actor.Pos, actor.Sight, i.Level.IsTransparent, i.Level.Bounds)
		if err != nil {
			i.log.WithError(err).WithField("actor_id", actor.ID).Error("FOV precondition violated")
			return view, fmt.Errorf("vision %s: %w", actor.ID, err)
		}
		i.vision[actor.ID] = visible
		view.Visible = visible
		return view, nil
	}

	if player := i.findPlayer(); player != nil {
		view.Player = player
		view.CanSeePlayer = systems.CanSee(i.Level.IsTransparent, i.Level.Bounds, actor.Pos, player.Pos, actor.Sight)
	}
	return view, nil
}

// findPlayer возвращает ближайшего живого игрока (детерминированно по ID при равенстве)
func (i *Instance) findPlayer() *domain.Actor {
	var best *domain.Actor
	for _, a := range i.actors {
		if !a.IsPlayer() || a.IsDead {
			continue
		}
		if best == nil || a.ID < best.ID {
			best = a
		}
	}
	return best
}

func (i *Instance) apply(actor *domain.Actor, action Action) domain.TurnEvent {
	ev := domain.TurnEvent{
		Actor:  actor.ID,
		Action: action.Type,
		From:   actor.Pos,
		To:     actor.Pos,
	}
	target := actor.Pos.Add(action.Dir)

	switch action.Type {
	case domain.ActionMove:
		if action.Dir.IsZero() || !i.Level.IsPassable(target) {
			break
		}
		cost := domain.MoveCost(action.Dir, i.Level.Tile(target).MoveMultiplier())
		if err := i.Level.Move(actor, target); err != nil {
			i.log.WithError(err).Warn("Move rejected")
			break
		}
		actor.Energy.Spend(cost)
		ev.To = target
		return ev

	case domain.ActionSwap:
		other := i.Level.ActorAt(target)
		if other == nil || action.Dir.IsZero() {
			break
		}
		// Оба платят по клетке, в которую шагает инициатор
		cost := domain.MoveCost(action.Dir, i.Level.Tile(target).MoveMultiplier())
		i.Level.Lift(actor)
		i.Level.Lift(other)
		actor.Pos, other.Pos = other.Pos, actor.Pos
		// Клетки только что освобождены, Place не может упасть
		_ = i.Level.Place(actor)
		_ = i.Level.Place(other)

		actor.Energy.Spend(cost)
		other.Energy.Spend(cost)
		if err := i.Scheduler.Reschedule(other.ID, other.Energy.Readiness); err != nil {
			i.log.WithError(err).Warn("Swap target is not scheduled")
		}
		ev.To = target
		ev.Target = other.ID
		return ev

	case domain.ActionAttack:
		actor.Energy.Spend(domain.AttackCost)
		other := i.Level.ActorAt(target)
		if other == nil || other == actor {
			return ev
		}
		ev.Target = other.ID
		ev.Damage = max(actor.Damage, 1)
		if other.TakeDamage(ev.Damage) {
			ev.Killed = true
			if err := i.kill(other.ID); err != nil {
				i.log.WithError(err).Error("Kill failed")
			}
		}
		return ev
	}

	// Ожидание или невозможное действие
	ev.Action = domain.ActionWait
	actor.Energy.Spend(domain.WaitCost)
	return ev
}

// --- Снимки для отладки (безопасны для вызова из других горутин) ---

// QueueSnapshot возвращает очередь в порядке извлечения
func (i *Instance) QueueSnapshot() []TurnItem {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.Scheduler.Snapshot()
}

// Actors возвращает копии живых акторов, отсортированные по ID
func (i *Instance) Actors() []domain.Actor {
	i.mu.Lock()
	defer i.mu.Unlock()

	result := make([]domain.Actor, 0, len(i.actors))
	for _, a := range i.actors {
		result = append(result, *a)
	}
	sort.Slice(result, func(a, b int) bool { return result[a].ID < result[b].ID })
	return result
}

// Actor возвращает копию актора
func (i *Instance) Actor(id domain.ActorID) (domain.Actor, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	a, ok := i.actors[id]
	if !ok {
		return domain.Actor{}, false
	}
	return *a, true
}

// Vision возвращает последнее рассчитанное поле зрения актора
func (i *Instance) Vision(id domain.ActorID) ([]domain.Coord, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	v, ok := i.vision[id]
	if !ok {
		return nil, false
	}
	return v.Slice(), true
}

// LookFrom считает поле зрения актора прямо сейчас, не сохраняя его
func (i *Instance) LookFrom(id domain.ActorID) ([]domain.Coord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	a, ok := i.actors[id]
	if !ok {
		return nil, fmt.Errorf("look from %s: %w", id, domain.ErrUnknownActor)
	}
	v, err := systems.ComputeVisible(i.Strategy, a.Pos, a.Sight, i.Level.IsTransparent, i.Level.Bounds)
	if err != nil {
		return nil, fmt.Errorf("look from %s: %w", id, err)
	}
	return v.Slice(), nil
}

// Round - текущий раунд
func (i *Instance) Round() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.Scheduler.Round()
}
