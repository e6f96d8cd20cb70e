package wireline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerListRejectsEmpty(t *testing.T) {
	_, err := NewServerList()
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrInvalidHosts))
}

func TestServerListRoundRobin(t *testing.T) {
	a := NewEndpoint("a:1", "", "")
	b := NewEndpoint("b:1", "", "")
	list, err := NewServerList(a, b)
	require.NoError(t, err)

	assert.Same(t, a, list.NextServer())
	assert.Same(t, b, list.NextServer())
	assert.Same(t, a, list.NextServer())
	assert.Same(t, a, list.CurrentServer())
}

func TestEndpointCounters(t *testing.T) {
	endpoint := NewEndpoint("a:1", "", "")
	endpoint.RecordSuccess()
	endpoint.RecordSuccess()
	endpoint.RecordFailure()

	assert.Equal(t, uint64(2), endpoint.SuccessCount())
	assert.Equal(t, uint64(1), endpoint.FailureCount())
}

func TestServerListNextServerPanicsOnEmpty(t *testing.T) {
	list := &ServerList{}
	assert.Panics(t, func() { list.NextServer() })
}
