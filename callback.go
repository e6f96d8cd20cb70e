package wireline

import "github.com/wireline-msg/wireline-go/internal/dispatch"

// CallbackExecutor is the only capability allowed to invoke user-supplied
// handlers and listeners (spec.md §5). key scopes ordering: two Submit
// calls with the same key run strictly in submission order; calls with
// different keys may run concurrently. The default implementation stripes
// one goroutine per key.
type CallbackExecutor interface {
	Submit(key string, fn func())
	Close()
}

// defaultExecutor adapts internal/dispatch.Executor to CallbackExecutor.
type defaultExecutor struct {
	inner *dispatch.Executor
}

func newDefaultExecutor() CallbackExecutor {
	return &defaultExecutor{inner: dispatch.New()}
}

func (executor *defaultExecutor) Submit(key string, fn func()) { executor.inner.Submit(key, fn) }
func (executor *defaultExecutor) Close()                       { executor.inner.Close() }
