package wireline

import (
	"strconv"
	"sync"
)

// Subscription tracks one subject subscription. It survives reconnects
// (spec.md §3): once closed, no more deliveries; receivedCount never
// exceeds maxMessages when set, and the subscription auto-closes once
// the handlers for the delivery that makes the two equal have run.
type Subscription struct {
	id          string
	subject     string
	queueGroup  string
	maxMessages *int

	lock          sync.Mutex
	receivedCount int
	closed        bool
	handlers      []MessageHandler

	registry *SubscriptionRegistry
}

// ID returns the subscription's process-unique string id.
func (sub *Subscription) ID() string { return sub.id }

// Subject returns the subscribed subject.
func (sub *Subscription) Subject() string { return sub.subject }

// QueueGroup returns the subscription's queue group, or "" if none.
func (sub *Subscription) QueueGroup() string { return sub.queueGroup }

// MaxMessages returns the configured cap, or nil if unbounded.
func (sub *Subscription) MaxMessages() *int { return sub.maxMessages }

// ReceivedCount returns the number of messages delivered so far.
func (sub *Subscription) ReceivedCount() int {
	sub.lock.Lock()
	defer sub.lock.Unlock()
	return sub.receivedCount
}

// Closed reports whether the subscription has been closed, either
// explicitly or by reaching maxMessages.
func (sub *Subscription) Closed() bool {
	sub.lock.Lock()
	defer sub.lock.Unlock()
	return sub.closed
}

// Close removes the subscription from its registry. Idempotent.
func (sub *Subscription) Close() {
	sub.lock.Lock()
	if sub.closed {
		sub.lock.Unlock()
		return
	}
	sub.closed = true
	sub.lock.Unlock()

	if sub.registry != nil {
		sub.registry.remove(sub.id)
	}
}

// deliver increments receivedCount and reports whether the message should
// be dispatched and, separately, whether this delivery reached
// maxMessages and should trigger an auto-close after dispatch.
func (sub *Subscription) deliver() (dispatch bool, autoClose bool) {
	sub.lock.Lock()
	defer sub.lock.Unlock()

	if sub.closed {
		return false, false
	}
	if sub.maxMessages != nil && sub.receivedCount >= *sub.maxMessages {
		return false, false
	}

	sub.receivedCount++
	dispatch = true
	if sub.maxMessages != nil && sub.receivedCount == *sub.maxMessages {
		autoClose = true
	}
	return dispatch, autoClose
}

func (sub *Subscription) handlersSnapshot() []MessageHandler {
	sub.lock.Lock()
	defer sub.lock.Unlock()
	return append([]MessageHandler(nil), sub.handlers...)
}

// SubscriptionRegistry maps subscription ids to Subscriptions and
// dispatches inbound messages to them. Grounded on the teacher's
// DefaultSubscriptionManager (map + lock, sorted-by-id resubscribe
// replay) merged with MessageRouter's dispatch-by-route-id shape.
type SubscriptionRegistry struct {
	lock      sync.Mutex
	bySubject map[string][]*Subscription
	byID      map[string]*Subscription
	nextID    uint64
	logger    Logger

	unsubscribeHook func(sid string)
}

// SetUnsubscribeHook registers a callback invoked with a subscription's
// wire id whenever it is removed from the registry, so the engine can
// send an UNSUB frame (spec.md §3). Must be called before any
// subscription is removed; typically wired once at construction.
func (registry *SubscriptionRegistry) SetUnsubscribeHook(hook func(sid string)) {
	registry.lock.Lock()
	registry.unsubscribeHook = hook
	registry.lock.Unlock()
}

// NewSubscriptionRegistry creates an empty registry.
func NewSubscriptionRegistry(logger Logger) *SubscriptionRegistry {
	return &SubscriptionRegistry{
		bySubject: make(map[string][]*Subscription),
		byID:      make(map[string]*Subscription),
		logger:    logger,
	}
}

// Create registers a new subscription with a fresh, process-unique id.
func (registry *SubscriptionRegistry) Create(subject, queueGroup string, maxMessages *int, handlers ...MessageHandler) *Subscription {
	registry.lock.Lock()
	defer registry.lock.Unlock()

	registry.nextID++
	sub := &Subscription{
		id:          strconv.FormatUint(registry.nextID, 10),
		subject:     subject,
		queueGroup:  queueGroup,
		maxMessages: maxMessages,
		handlers:    append([]MessageHandler(nil), handlers...),
		registry:    registry,
	}
	registry.byID[sub.id] = sub
	registry.bySubject[subject] = append(registry.bySubject[subject], sub)
	return sub
}

// ByID looks up a subscription by id.
func (registry *SubscriptionRegistry) ByID(id string) (*Subscription, bool) {
	registry.lock.Lock()
	defer registry.lock.Unlock()
	sub, ok := registry.byID[id]
	return sub, ok
}

func (registry *SubscriptionRegistry) remove(id string) {
	registry.lock.Lock()
	sub, ok := registry.byID[id]
	if ok {
		delete(registry.byID, id)
		siblings := registry.bySubject[sub.subject]
		for i, candidate := range siblings {
			if candidate.id == id {
				registry.bySubject[sub.subject] = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	hook := registry.unsubscribeHook
	registry.lock.Unlock()

	if ok && hook != nil {
		hook(id)
	}
}

// Snapshot returns every live subscription, in no particular order —
// used to resubscribe after reconnect (spec.md §4.3).
func (registry *SubscriptionRegistry) Snapshot() []*Subscription {
	registry.lock.Lock()
	defer registry.lock.Unlock()
	subs := make([]*Subscription, 0, len(registry.byID))
	for _, sub := range registry.byID {
		subs = append(subs, sub)
	}
	return subs
}

// Dispatch delivers an inbound message to the subscription named by id,
// via the given callback executor, never on the caller's goroutine. A
// message for an unknown id is logged and dropped — a legitimate race
// with a just-closed subscription (spec.md §4.3, Open Question in §9).
func (registry *SubscriptionRegistry) Dispatch(
	id string,
	msg *Message,
	executor CallbackExecutor,
) {
	sub, ok := registry.ByID(id)
	if !ok {
		if registry.logger != nil {
			registry.logger.Debugf("dropping message for unknown subscription id %s on subject %s", id, msg.Subject)
		}
		return
	}

	shouldDispatch, autoClose := sub.deliver()
	if !shouldDispatch {
		return
	}
	msg.QueueGroup = sub.queueGroup

	handlers := sub.handlersSnapshot()
	executor.Submit(sub.id, func() {
		for _, handler := range handlers {
			invokeHandlerSafely(registry.logger, handler, msg)
		}
		if autoClose {
			sub.Close()
		}
	})
}

func invokeHandlerSafely(logger Logger, handler MessageHandler, msg *Message) {
	defer func() {
		if r := recover(); r != nil && logger != nil {
			logger.Errorf("panic in message handler: %v", r)
		}
	}()
	handler(msg)
}

// Count reports the number of live subscriptions.
func (registry *SubscriptionRegistry) Count() int {
	registry.lock.Lock()
	defer registry.lock.Unlock()
	return len(registry.byID)
}
