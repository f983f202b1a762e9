package network

import (
	"testing"

	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_FanOut(t *testing.T) {
	b := NewBroadcaster(4)
	a := b.Register("a")
	c := b.Register("c")
	assert.Equal(t, 2, b.SubscriberCount())

	b.Broadcast(domain.TurnEvent{Turn: 1, Actor: "hero"})

	require.Len(t, a, 1)
	require.Len(t, c, 1)
	assert.Equal(t, domain.ActorID("hero"), (<-a).Actor)
	assert.Equal(t, 1, (<-c).Turn)
}

func TestBroadcaster_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroadcaster(2)
	ch := b.Register("slow")

	for i := 1; i <= 5; i++ {
		b.Broadcast(domain.TurnEvent{Turn: i})
	}

	assert.Len(t, ch, 2, "overflow is dropped")
	assert.Equal(t, 1, (<-ch).Turn)
	assert.Equal(t, 2, (<-ch).Turn)
}

func TestBroadcaster_RegisterTwiceClosesOld(t *testing.T) {
	b := NewBroadcaster(0)
	old := b.Register("x")
	fresh := b.Register("x")

	_, ok := <-old
	assert.False(t, ok, "old channel is closed")
	assert.Equal(t, 1, b.SubscriberCount())

	b.Unregister("x")
	_, ok = <-fresh
	assert.False(t, ok)
	assert.Equal(t, 0, b.SubscriberCount())

	// Повторный Unregister безопасен
	b.Unregister("x")
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster(1)
	ch := b.Register("a")
	b.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.SubscriberCount())
}
