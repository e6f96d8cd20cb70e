package wireline

import (
	"time"

	"github.com/google/uuid"
)

// Client is the public entry point: construct one with New, then
// Publish, Subscribe, and Request against it. Grounded on the teacher's
// Client/HAClient split, collapsed into a single facade over
// ConnectionEngine since reconnect is always-on by default in this
// module (spec.md §4.5).
type Client struct {
	id     string
	opts   *ClientOptions
	engine *ConnectionEngine
	broker *RequestBroker
}

// New constructs a Client from the given options and starts its
// background connection loop immediately; the returned Client may be
// used right away — Publish/Subscribe/Request transparently queue until
// SERVER_READY (spec.md §4.2).
func New(opts ...ClientOption) (*Client, error) {
	built := defaultClientOptions()
	for _, opt := range opts {
		opt(built)
	}
	if len(built.Hosts) == 0 {
		return nil, NewError(ErrInvalidHosts, "at least one host is required")
	}

	engine, err := NewConnectionEngine(built)
	if err != nil {
		return nil, err
	}

	client := &Client{
		id:     uuid.NewString(),
		opts:   built,
		engine: engine,
	}
	client.broker = NewRequestBroker(engine.Subscriptions(), engine.Publish)

	engine.Start()
	return client, nil
}

// ID returns a process-unique diagnostic identifier for this client.
// Never sent on the wire (spec.md §3 Non-goals: no client identity in
// the protocol).
func (client *Client) ID() string { return client.id }

// State returns the current connection state.
func (client *Client) State() ConnectionState { return client.engine.State() }

// IsConnected reports whether the client is SERVER_READY.
func (client *Client) IsConnected() bool { return client.engine.IsConnected() }

// IsClosed reports whether Close has been called.
func (client *Client) IsClosed() bool { return client.engine.IsClosed() }

// AddListener registers a connection-state listener.
func (client *Client) AddListener(listener Listener) { client.engine.AddListener(listener) }

// Publish sends body to subject. Queued and replayed on reconnect when
// not currently SERVER_READY.
func (client *Client) Publish(subject string, body []byte) error {
	if subject == "" {
		return NewError(ErrArgument, "subject must not be empty")
	}
	return client.engine.Publish(subject, body, "")
}

// PublishEvery publishes body to subject on every tick of interval,
// until the returned Registration is cancelled or the client is closed.
// Grounded on spec.md §3's periodic-publish operation; ticks are simply
// skipped (not queued) while disconnected, per the Open Question
// decision recorded in DESIGN.md.
func (client *Client) PublishEvery(subject string, body []byte, interval time.Duration) *Registration {
	ticker := time.NewTicker(interval)
	stop := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if client.engine.IsConnected() {
					_ = client.engine.Publish(subject, body, "")
				}
			case <-stop:
				return
			}
		}
	}()

	return &Registration{stop: stop}
}

// Subscribe registers handler to receive messages on subject, optionally
// scoped to queueGroup and capped at maxMessages deliveries (maxMessages
// <= 0 means unbounded). The subscription auto-closes once it has
// received maxMessages deliveries (spec.md §3).
func (client *Client) Subscribe(subject, queueGroup string, maxMessages int, handler MessageHandler) (*Subscription, error) {
	if subject == "" {
		return nil, NewError(ErrArgument, "subject must not be empty")
	}
	if handler == nil {
		return nil, NewError(ErrArgument, "handler must not be nil")
	}
	if client.engine.IsClosed() {
		return nil, NewError(ErrClosed, "client is closed")
	}

	var limit *int
	if maxMessages > 0 {
		limit = &maxMessages
	}
	sub := client.engine.Subscriptions().Create(subject, queueGroup, limit, handler)
	if err := client.engine.Subscribe(sub); err != nil {
		sub.Close()
		return nil, err
	}
	return sub, nil
}

// Request publishes body to subject with a generated reply inbox and
// waits up to timeout for a single reply.
func (client *Client) Request(subject string, body []byte, timeout time.Duration) (*Message, error) {
	if body == nil {
		return nil, NewError(ErrArgument, "request body must not be nil")
	}

	req, err := client.broker.Send(subject, body, 1, timeout)
	if err != nil {
		return nil, err
	}
	defer req.Close()

	<-req.Done()

	replies := req.Replies()
	if len(replies) == 0 {
		return nil, NewError(ErrTimedOut, "no reply received for subject "+subject)
	}
	return replies[0], nil
}

// RequestMany is like Request but collects up to maxReplies replies
// within timeout, for scatter-gather style requests.
func (client *Client) RequestMany(subject string, body []byte, maxReplies int, timeout time.Duration) (*Request, error) {
	return client.broker.Send(subject, body, maxReplies, timeout)
}

// Close shuts the client down: stops the background connection loop,
// closes the transport, and drains the callback executor. Idempotent.
func (client *Client) Close() error {
	return client.engine.Close()
}

// Registration is a handle to a periodic publish started by
// PublishEvery.
type Registration struct {
	stop chan struct{}
}

// Cancel stops the periodic publish. Idempotent.
func (registration *Registration) Cancel() {
	select {
	case <-registration.stop:
	default:
		close(registration.stop)
	}
}
