package wireline

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestBrokerSendGeneratesInbox(t *testing.T) {
	registry := NewSubscriptionRegistry(NewNopLogger())

	var mu sync.Mutex
	var capturedReplyTo string
	publish := func(subject string, body []byte, replyTo string) error {
		mu.Lock()
		capturedReplyTo = replyTo
		mu.Unlock()
		return nil
	}

	broker := NewRequestBroker(registry, publish)
	req, err := broker.Send("orders.create", []byte("payload"), 1, time.Second)
	require.NoError(t, err)
	defer req.Close()

	assert.True(t, strings.HasPrefix(req.Subject(), inboxPrefix))
	mu.Lock()
	assert.Equal(t, req.Subject(), capturedReplyTo)
	mu.Unlock()
}

func TestRequestCompletesOnReply(t *testing.T) {
	registry := NewSubscriptionRegistry(NewNopLogger())
	executor := newDefaultExecutor()
	defer executor.Close()

	publish := func(subject string, body []byte, replyTo string) error { return nil }
	broker := NewRequestBroker(registry, publish)

	req, err := broker.Send("orders.create", []byte("payload"), 1, time.Second)
	require.NoError(t, err)
	defer req.Close()

	sub, ok := registry.ByID(req.sub.ID())
	require.True(t, ok)
	registry.Dispatch(sub.ID(), &Message{Subject: req.Subject(), Body: []byte("ack")}, executor)

	select {
	case <-req.Done():
	case <-time.After(time.Second):
		t.Fatal("request did not complete")
	}

	replies := req.Replies()
	require.Len(t, replies, 1)
	assert.Equal(t, "ack", string(replies[0].Body))
}

func TestRequestTimesOut(t *testing.T) {
	registry := NewSubscriptionRegistry(NewNopLogger())
	publish := func(subject string, body []byte, replyTo string) error { return nil }
	broker := NewRequestBroker(registry, publish)

	req, err := broker.Send("orders.create", []byte("payload"), 1, 10*time.Millisecond)
	require.NoError(t, err)

	select {
	case <-req.Done():
	case <-time.After(time.Second):
		t.Fatal("request did not time out")
	}
	assert.Empty(t, req.Replies())
	assert.Equal(t, 0, registry.Count())
}
