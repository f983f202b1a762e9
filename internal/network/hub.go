package network

import (
	"sync"

	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/jsuvanto/pyrl/pkg/logger"
)

// Broadcaster занимается только рассылкой событий ходов подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID подписчика -> Личный канал
	subscribers map[string]chan domain.TurnEvent
	bufferSize  int
}

func NewBroadcaster(bufferSize int) *Broadcaster {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &Broadcaster{
		subscribers: make(map[string]chan domain.TurnEvent),
		bufferSize:  bufferSize,
	}
}

// Register создает личный канал для подписчика (websocket-клиента)
func (b *Broadcaster) Register(id string) chan domain.TurnEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan domain.TurnEvent, b.bufferSize)
	b.subscribers[id] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// Broadcast отправляет всем. Медленный подписчик теряет событие, цикл не ждет.
// Сигнатура совпадает с engine.Observer.
func (b *Broadcaster) Broadcast(ev domain.TurnEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			logger.Log.WithField("subscriber", id).Debug("Hub: channel full, event dropped")
		}
	}
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close отключает всех подписчиков (при остановке)
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
