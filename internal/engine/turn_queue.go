package engine

import (
	"github.com/jsuvanto/pyrl/internal/domain"
)

// TurnItem обертка для элемента очереди приоритетов
type TurnItem struct {
	Actor domain.ActorID `json:"actor"` // Кто ходит
	Key   float64        `json:"key"`   // Ключ готовности. Чем меньше, тем раньше ход.
	Seq   uint64         `json:"seq"`   // Порядковый номер вставки, только для разрешения ничьих
	Index int            `json:"-"`     // Индекс в куче (нужен для Fix/Remove)
}

// TurnQueue реализует heap.Interface и хранит TurnItems
type TurnQueue []*TurnItem

func (pq TurnQueue) Len() int { return len(pq) }

func (pq TurnQueue) Less(i, j int) bool {
	// MinHeap по ключу, при равенстве раньше вставленный ходит первым
	if pq[i].Key != pq[j].Key {
		return pq[i].Key < pq[j].Key
	}
	return pq[i].Seq < pq[j].Seq
}

func (pq TurnQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *TurnQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*TurnItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *TurnQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}
