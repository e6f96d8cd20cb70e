package wireline

import (
	"io"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Transport abstracts the byte pipe an Endpoint is reached over. The
// engine wraps Reader() in a bufio.Reader and drives it through
// internal/protocol.Reader on a single dedicated goroutine. The engine
// calls Write after releasing its own lock (publishes, SUB/UNSUB, PONG,
// replies), so Write may be called from several goroutines at once and
// implementations must serialize it themselves. Grounded on the teacher's net.Conn
// field on Client, generalized into an interface so a second, non-TCP
// implementation (transport_ws.go) can be selected by scheme (spec.md
// §4.1, SPEC_FULL.md §9 design notes).
type Transport interface {
	// Dial establishes the connection. Must be called before Reader,
	// Write, or Close.
	Dial(address string, timeout time.Duration) error
	// Reader returns the stream to decode frames from.
	Reader() io.Reader
	// Write sends a single already-framed line/body atomically.
	Write(frame []byte) error
	// Close closes the underlying connection. Idempotent.
	Close() error
}

// tcpTransport is the default Transport: a plain net.Conn, no TLS (TLS is
// an explicit Non-goal per spec.md §2). Grounded on amps/client.go's
// net.Dial-based connection setup.
type tcpTransport struct {
	lock sync.Mutex
	conn net.Conn
}

func newTCPTransport() *tcpTransport {
	return &tcpTransport{}
}

func (t *tcpTransport) Dial(address string, timeout time.Duration) error {
	host := address
	if u, err := url.Parse(address); err == nil && u.Host != "" {
		host = u.Host
	}
	conn, err := net.DialTimeout("tcp", host, timeout)
	if err != nil {
		return NewError(ErrDisconnected, "dial "+address+": "+err.Error())
	}
	t.lock.Lock()
	t.conn = conn
	t.lock.Unlock()
	return nil
}

func (t *tcpTransport) Reader() io.Reader {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.conn
}

func (t *tcpTransport) Write(frame []byte) error {
	t.lock.Lock()
	conn := t.conn
	t.lock.Unlock()
	if conn == nil {
		return NewError(ErrDisconnected, "transport not connected")
	}
	_, err := conn.Write(frame)
	return err
}

func (t *tcpTransport) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// schemeForAddress reports the URI scheme of address, defaulting to "tcp"
// when address has none (spec.md §4.1 accepts bare host:port).
func schemeForAddress(address string) string {
	if !strings.Contains(address, "://") {
		return "tcp"
	}
	u, err := url.Parse(address)
	if err != nil || u.Scheme == "" {
		return "tcp"
	}
	return u.Scheme
}

// pipeTransport wraps an already-established net.Conn (typically one
// side of a net.Pipe) as a Transport, skipping Dial's address parsing.
// Used by the module's own tests to drive internal/testutil.FakeBroker
// without touching a real socket.
type pipeTransport struct {
	lock sync.Mutex
	conn net.Conn
}

func newPipeTransport(conn net.Conn) *pipeTransport {
	return &pipeTransport{conn: conn}
}

func (t *pipeTransport) Dial(address string, timeout time.Duration) error { return nil }

func (t *pipeTransport) Reader() io.Reader {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.conn
}

func (t *pipeTransport) Write(frame []byte) error {
	t.lock.Lock()
	conn := t.conn
	t.lock.Unlock()
	if conn == nil {
		return NewError(ErrDisconnected, "transport not connected")
	}
	_, err := conn.Write(frame)
	return err
}

func (t *pipeTransport) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// newTransportForAddress picks a Transport implementation by URI scheme:
// ws:// and wss:// select the gorilla/websocket-backed transport, every
// other scheme (including bare host:port) selects plain TCP.
func newTransportForAddress(address string) Transport {
	switch schemeForAddress(address) {
	case "ws", "wss":
		return newWSTransport()
	default:
		return newTCPTransport()
	}
}
