package dispatch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorPreservesPerKeyOrder(t *testing.T) {
	executor := New()
	defer executor.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(10)
	for i := 0; i < 10; i++ {
		i := i
		executor.Submit("same-key", func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestExecutorRunsDistinctKeysConcurrently(t *testing.T) {
	executor := New()
	defer executor.Close()

	release := make(chan struct{})
	started := make(chan struct{}, 2)

	executor.Submit("key-a", func() {
		started <- struct{}{}
		<-release
	})
	executor.Submit("key-b", func() {
		started <- struct{}{}
		<-release
	})

	require.Eventually(t, func() bool { return len(started) == 2 }, time.Second, time.Millisecond)
	close(release)
}

func TestExecutorCloseWaitsForDrain(t *testing.T) {
	executor := New()
	done := make(chan struct{})
	executor.Submit("key", func() { close(done) })
	executor.Close()

	select {
	case <-done:
	default:
		t.Fatal("expected submitted work to have run before Close returned")
	}
}
