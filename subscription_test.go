package wireline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionRegistryDispatch(t *testing.T) {
	registry := NewSubscriptionRegistry(NewNopLogger())
	executor := newDefaultExecutor()
	defer executor.Close()

	var mu sync.Mutex
	var received []string
	sub := registry.Create("orders.new", "", nil, func(msg *Message) {
		mu.Lock()
		received = append(received, string(msg.Body))
		mu.Unlock()
	})

	registry.Dispatch(sub.ID(), &Message{Subject: "orders.new", Body: []byte("one")}, executor)
	registry.Dispatch(sub.ID(), &Message{Subject: "orders.new", Body: []byte("two")}, executor)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 2
	}, time.Second, time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"one", "two"}, received)
	mu.Unlock()
}

func TestSubscriptionAutoClosesAtMaxMessages(t *testing.T) {
	registry := NewSubscriptionRegistry(NewNopLogger())
	executor := newDefaultExecutor()
	defer executor.Close()

	max := 2
	var count int
	var mu sync.Mutex
	sub := registry.Create("orders.new", "", &max, func(msg *Message) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	for i := 0; i < 5; i++ {
		registry.Dispatch(sub.ID(), &Message{Subject: "orders.new"}, executor)
	}

	require.Eventually(t, func() bool { return sub.Closed() }, time.Second, time.Millisecond)

	mu.Lock()
	assert.Equal(t, 2, count)
	mu.Unlock()
	assert.Equal(t, 0, registry.Count())
}

func TestSubscriptionRegistryDropsUnknownID(t *testing.T) {
	registry := NewSubscriptionRegistry(NewNopLogger())
	executor := newDefaultExecutor()
	defer executor.Close()

	// Must not panic even though no subscription with this id exists.
	registry.Dispatch("does-not-exist", &Message{Subject: "x"}, executor)
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	registry := NewSubscriptionRegistry(NewNopLogger())
	sub := registry.Create("a", "", nil, func(*Message) {})
	sub.Close()
	sub.Close()
	assert.Equal(t, 0, registry.Count())
}
