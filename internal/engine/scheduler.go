package engine

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/jsuvanto/pyrl/pkg/logger"
)

// Scheduler - очередь ходов по ключу готовности.
// Принадлежит одному игровому циклу, внутренних блокировок нет.
type Scheduler struct {
	queue   TurnQueue
	itemMap map[domain.ActorID]*TurnItem
	nextSeq uint64

	// Учет раундов: кто еще должен сходить в текущем раунде
	owed     map[domain.ActorID]struct{}
	round    int
	newRound bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		queue:   make(TurnQueue, 0),
		itemMap: make(map[domain.ActorID]*TurnItem),
		owed:    make(map[domain.ActorID]struct{}),
	}
}

// Add регистрирует актора с начальным ключом.
func (s *Scheduler) Add(actor domain.ActorID, key float64) error {
	if _, ok := s.itemMap[actor]; ok {
		return fmt.Errorf("add %s: %w", actor, domain.ErrDuplicateActor)
	}

	s.nextSeq++
	item := &TurnItem{
		Actor: actor,
		Key:   key,
		Seq:   s.nextSeq,
	}
	heap.Push(&s.queue, item)
	s.itemMap[actor] = item

	logger.Log.WithField("actor_id", actor).WithField("key", key).Debug("Actor added to scheduler")
	return nil
}

// Remove удаляет актора из любой позиции в очереди (например, при смерти).
// Повторное удаление - ошибка вызывающего.
func (s *Scheduler) Remove(actor domain.ActorID) error {
	item, ok := s.itemMap[actor]
	if !ok {
		return fmt.Errorf("remove %s: %w", actor, domain.ErrUnknownActor)
	}
	heap.Remove(&s.queue, item.Index)
	delete(s.itemMap, actor)
	delete(s.owed, actor)

	logger.Log.WithField("actor_id", actor).Debug("Actor removed from scheduler")
	return nil
}

// Peek возвращает того, кто ходит следующим, не меняя очередь.
func (s *Scheduler) Peek() (domain.ActorID, error) {
	if s.queue.Len() == 0 {
		return "", fmt.Errorf("peek: %w", domain.ErrEmptySchedule)
	}
	return s.queue[0].Actor, nil
}

// Pop извлекает запись с наименьшим ключом (ничьи - по порядку вставки).
func (s *Scheduler) Pop() (TurnItem, error) {
	if s.queue.Len() == 0 {
		return TurnItem{}, fmt.Errorf("pop: %w", domain.ErrEmptySchedule)
	}

	s.newRound = false
	if len(s.owed) == 0 {
		s.round++
		s.newRound = true
		for id := range s.itemMap {
			s.owed[id] = struct{}{}
		}
	}

	item := heap.Pop(&s.queue).(*TurnItem)
	delete(s.itemMap, item.Actor)
	delete(s.owed, item.Actor)
	return *item, nil
}

// Reschedule переставляет актора на новый ключ. Порядковый номер выдается заново,
// поэтому среди равных ключей актор встает в конец.
func (s *Scheduler) Reschedule(actor domain.ActorID, key float64) error {
	item, ok := s.itemMap[actor]
	if !ok {
		return fmt.Errorf("reschedule %s: %w", actor, domain.ErrUnknownActor)
	}
	s.nextSeq++
	item.Key = key
	item.Seq = s.nextSeq
	heap.Fix(&s.queue, item.Index)
	return nil
}

// Len - количество живых записей
func (s *Scheduler) Len() int {
	return s.queue.Len()
}

// Contains проверяет, есть ли у актора запись
func (s *Scheduler) Contains(actor domain.ActorID) bool {
	_, ok := s.itemMap[actor]
	return ok
}

// KeyOf возвращает текущий ключ актора
func (s *Scheduler) KeyOf(actor domain.ActorID) (float64, bool) {
	item, ok := s.itemMap[actor]
	if !ok {
		return 0, false
	}
	return item.Key, true
}

// Round - номер текущего раунда (0 до первого Pop)
func (s *Scheduler) Round() int {
	return s.round
}

// IsNewRound сообщает, открыл ли последний Pop новый раунд
func (s *Scheduler) IsNewRound() bool {
	return s.newRound
}

// RoundComplete - все, кто был жив в начале раунда, уже сходили
func (s *Scheduler) RoundComplete() bool {
	return len(s.owed) == 0
}

// Snapshot возвращает копию очереди в порядке извлечения (для отладки)
func (s *Scheduler) Snapshot() []TurnItem {
	// Инициализируем как пустой слайс, а не nil. Тогда в JSON это будет "[]", а не "null"
	result := make([]TurnItem, 0, len(s.queue))
	for _, item := range s.queue {
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Key != result[j].Key {
			return result[i].Key < result[j].Key
		}
		return result[i].Seq < result[j].Seq
	})
	return result
}
