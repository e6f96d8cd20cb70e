package wireline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wireline-msg/wireline-go/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// gorilla/websocket and the fake broker's net.Pipe plumbing leave
		// background goroutines that outlive a single test's explicit
		// Close call by a few scheduler ticks; VerifyTestMain already
		// retries internally, these just narrow false positives further.
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func newPipeClient(t *testing.T, broker *testutil.FakeBroker) *Client {
	t.Helper()
	opts := defaultClientOptions()
	opts.Hosts = []string{"fake:1"}
	opts.ReconnectWaitTime = 10 * time.Millisecond
	opts.transportFactory = func(address string) Transport {
		return newPipeTransport(broker.Dial())
	}

	engine, err := NewConnectionEngine(opts)
	require.NoError(t, err)
	engine.Start()

	client := &Client{id: "test", opts: opts, engine: engine}
	client.broker = NewRequestBroker(engine.Subscriptions(), engine.Publish)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestClientPublishSubscribeRoundTrip(t *testing.T) {
	broker := testutil.NewFakeBroker()
	client := newPipeClient(t, broker)

	received := make(chan []byte, 1)
	_, err := client.Subscribe("orders.new", "", 0, func(msg *Message) {
		received <- msg.Body
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return client.IsConnected() }, time.Second, time.Millisecond)

	require.NoError(t, client.Publish("orders.new", []byte("hello")))

	select {
	case body := <-received:
		assert.Equal(t, "hello", string(body))
	case <-time.After(time.Second):
		t.Fatal("did not receive published message")
	}
}

func TestClientQueuesPublishBeforeConnected(t *testing.T) {
	broker := testutil.NewFakeBroker()
	client := newPipeClient(t, broker)

	received := make(chan []byte, 1)
	_, err := client.Subscribe("orders.new", "", 0, func(msg *Message) {
		received <- msg.Body
	})
	require.NoError(t, err)

	// Published immediately; engine may still be CONNECTING. Either way
	// it must be delivered once SERVER_READY is reached.
	require.NoError(t, client.Publish("orders.new", []byte("queued")))

	select {
	case body := <-received:
		assert.Equal(t, "queued", string(body))
	case <-time.After(time.Second):
		t.Fatal("queued publish was never delivered")
	}
}

func TestClientRequestReply(t *testing.T) {
	broker := testutil.NewFakeBroker()
	client := newPipeClient(t, broker)

	_, err := client.Subscribe("orders.create", "", 0, func(msg *Message) {
		_ = msg.Reply([]byte("ack:" + string(msg.Body)))
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return client.IsConnected() }, time.Second, time.Millisecond)

	reply, err := client.Request("orders.create", []byte("order-1"), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ack:order-1", string(reply.Body))
}

func TestClientRequestTimesOutWithNoSubscriber(t *testing.T) {
	broker := testutil.NewFakeBroker()
	client := newPipeClient(t, broker)

	require.Eventually(t, func() bool { return client.IsConnected() }, time.Second, time.Millisecond)

	_, err := client.Request("nobody.listens", []byte("x"), 50*time.Millisecond)
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrTimedOut))
}

func TestClientCloseIsIdempotent(t *testing.T) {
	broker := testutil.NewFakeBroker()
	client := newPipeClient(t, broker)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	assert.True(t, client.IsClosed())
}

func TestClientPublishAfterCloseFails(t *testing.T) {
	broker := testutil.NewFakeBroker()
	client := newPipeClient(t, broker)
	require.NoError(t, client.Close())

	err := client.Publish("orders.new", []byte("x"))
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrClosed))
}
