package wireline

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// inboxPrefix marks subjects as ephemeral reply inboxes, never matched by
// a broker SUB a caller issued directly (spec.md §3, Request/Reply).
const inboxPrefix = "_INBOX."

// Request is a handle to an in-flight request/reply exchange. Closing it
// early cancels any pending timeout and stops further reply delivery.
type Request struct {
	subject string // the inbox subject the reply arrives on
	sub     *Subscription
	timer   *time.Timer

	lock    sync.Mutex
	replies []*Message
	done    chan struct{}
	closed  bool
}

// Subject returns the generated inbox subject used as the ReplyTo.
func (req *Request) Subject() string { return req.subject }

// Done returns a channel closed once the request completes, either by
// receiving maxReplies or by timing out.
func (req *Request) Done() <-chan struct{} { return req.done }

// Replies returns every reply received so far, in arrival order.
func (req *Request) Replies() []*Message {
	req.lock.Lock()
	defer req.lock.Unlock()
	return append([]*Message(nil), req.replies...)
}

// Close cancels the request's timer and unsubscribes its inbox. Idempotent.
func (req *Request) Close() {
	req.lock.Lock()
	if req.closed {
		req.lock.Unlock()
		return
	}
	req.closed = true
	req.lock.Unlock()

	if req.timer != nil {
		req.timer.Stop()
	}
	req.sub.Close()
	req.finish()
}

func (req *Request) finish() {
	req.lock.Lock()
	defer req.lock.Unlock()
	select {
	case <-req.done:
	default:
		close(req.done)
	}
}

func (req *Request) addReply(msg *Message) {
	req.lock.Lock()
	req.replies = append(req.replies, msg)
	req.lock.Unlock()
}

// RequestBroker implements request/reply on top of the subscription
// registry: it allocates a unique inbox subject, subscribes to it with a
// reply cap, publishes the request body with ReplyTo set to the inbox,
// and arms a timeout. Grounded on the teacher's MessageRouter ack
// bookkeeping, generalized from command-id keyed acks to subject-keyed
// ephemeral inboxes.
type RequestBroker struct {
	registry *SubscriptionRegistry
	publish  func(subject string, body []byte, replyTo string) error
	timers   timerScheduler
}

// NewRequestBroker creates a broker bound to the given registry and
// publish function (typically ConnectionEngine.Publish).
func NewRequestBroker(registry *SubscriptionRegistry, publish func(subject string, body []byte, replyTo string) error) *RequestBroker {
	return &RequestBroker{registry: registry, publish: publish, timers: realTimerScheduler{}}
}

// Send publishes body to subject with a fresh reply inbox, and returns a
// Request that collects up to maxReplies replies or times out after
// timeout, whichever comes first. maxReplies <= 0 means unbounded until
// timeout (spec.md §3, Non-goals still bound it to one reply by default
// via the Client facade).
func (broker *RequestBroker) Send(subject string, body []byte, maxReplies int, timeout time.Duration) (*Request, error) {
	if body == nil {
		return nil, NewError(ErrArgument, "request body must not be nil")
	}

	inbox, err := newInboxSubject()
	if err != nil {
		return nil, err
	}

	req := &Request{
		subject: inbox,
		done:    make(chan struct{}),
	}

	var limit *int
	if maxReplies > 0 {
		limit = &maxReplies
	}
	req.sub = broker.registry.Create(inbox, "", limit, func(msg *Message) {
		req.addReply(msg)
		if limit != nil && len(req.Replies()) >= *limit {
			req.finish()
		}
	})

	if timeout > 0 {
		req.timer = broker.timers.AfterFunc(timeout, func() {
			req.Close()
		})
	}

	if err := broker.publish(subject, body, inbox); err != nil {
		req.Close()
		return nil, err
	}

	return req, nil
}

func newInboxSubject() (string, error) {
	buf := make([]byte, 16) // 128 bits
	if _, err := rand.Read(buf); err != nil {
		return "", NewError(ErrUnknown, "generating inbox id: "+err.Error())
	}
	return inboxPrefix + hex.EncodeToString(buf), nil
}
