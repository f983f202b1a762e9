package engine

import (
	"container/heap"
	"testing"
)

func TestTurnQueue(t *testing.T) {
	pq := make(TurnQueue, 0)
	heap.Init(&pq)

	item1 := &TurnItem{Actor: "e1", Key: 10, Seq: 1}
	item2 := &TurnItem{Actor: "e2", Key: 5, Seq: 2}
	item3 := &TurnItem{Actor: "e3", Key: 20, Seq: 3}

	heap.Push(&pq, item1)
	heap.Push(&pq, item2)
	heap.Push(&pq, item3)

	if pq.Len() != 3 {
		t.Errorf("Expected length 3, got %d", pq.Len())
	}

	// First pop should be e2 (Key 5)
	first := heap.Pop(&pq).(*TurnItem)
	if first.Actor != "e2" {
		t.Errorf("Expected e2, got %s", first.Actor)
	}
	if first.Index != -1 {
		t.Errorf("Popped item should have Index -1, got %d", first.Index)
	}

	// Move e1 later (10 -> 30). New top should be e3.
	item1.Key = 30
	heap.Fix(&pq, item1.Index)

	second := heap.Pop(&pq).(*TurnItem)
	if second.Actor != "e3" {
		t.Errorf("Expected e3 (Key 20), got %s", second.Actor)
	}

	third := heap.Pop(&pq).(*TurnItem)
	if third.Actor != "e1" {
		t.Errorf("Expected e1 (Key 30), got %s", third.Actor)
	}
}

func TestTurnQueue_TieBreakBySeq(t *testing.T) {
	pq := make(TurnQueue, 0)
	heap.Push(&pq, &TurnItem{Actor: "late", Key: 7, Seq: 9})
	heap.Push(&pq, &TurnItem{Actor: "early", Key: 7, Seq: 2})

	if got := heap.Pop(&pq).(*TurnItem).Actor; got != "early" {
		t.Errorf("Expected earlier sequence to win the tie, got %s", got)
	}
}

func TestTurnQueue_IndexTracksSwaps(t *testing.T) {
	pq := make(TurnQueue, 0)
	for i, key := range []float64{9, 3, 7, 1, 5, 2} {
		heap.Push(&pq, &TurnItem{Actor: "a", Key: key, Seq: uint64(i)})
	}
	for i, item := range pq {
		if item.Index != i {
			t.Fatalf("item at %d has Index %d", i, item.Index)
		}
	}
}
