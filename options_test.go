package wireline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNoHosts(t *testing.T) {
	_, err := New()
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrInvalidHosts))
}

func TestDefaultClientOptions(t *testing.T) {
	opts := defaultClientOptions()
	assert.True(t, opts.AutomaticReconnect)
	assert.Equal(t, 2*time.Second, opts.ReconnectWaitTime)
	assert.Equal(t, 0, opts.QueueCapacity)
	assert.NotNil(t, opts.Logger)
	assert.NotNil(t, opts.Metrics)
}

func TestWithOptionsOverrideDefaults(t *testing.T) {
	opts := defaultClientOptions()
	WithHosts("a:1", "b:1")(opts)
	WithAutomaticReconnect(false)(opts)
	WithPedantic(true)(opts)
	WithMaxFrameSize(4096)(opts)
	WithQueueCapacity(10)(opts)

	assert.Equal(t, []string{"a:1", "b:1"}, opts.Hosts)
	assert.False(t, opts.AutomaticReconnect)
	assert.True(t, opts.Pedantic)
	assert.Equal(t, 4096, opts.MaxFrameSize)
	assert.Equal(t, 10, opts.QueueCapacity)
}
