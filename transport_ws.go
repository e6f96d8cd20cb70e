package wireline

import (
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsTransport carries the line protocol over a gorilla/websocket
// connection instead of a raw TCP socket, selected for ws:// and wss://
// endpoint URIs (spec.md §4.1, SPEC_FULL.md §9). The teacher's go.mod
// requires gorilla/websocket but its own code never imports it (only a
// hand-rolled implementation lives in tools/fakeamps); this wires that
// otherwise-dead dependency into an actual Transport.
type wsTransport struct {
	lock sync.Mutex
	conn *websocket.Conn
	pr   *io.PipeReader
	pw   *io.PipeWriter
}

func newWSTransport() *wsTransport {
	return &wsTransport{}
}

func (t *wsTransport) Dial(address string, timeout time.Duration) error {
	dialAddress := address
	if u, err := url.Parse(address); err == nil && u.User != nil {
		u.User = nil
		dialAddress = u.String()
	}
	dialer := &websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.Dial(dialAddress, nil)
	if err != nil {
		return NewError(ErrDisconnected, "dial "+address+": "+err.Error())
	}

	pr, pw := io.Pipe()
	t.lock.Lock()
	t.conn = conn
	t.pr = pr
	t.pw = pw
	t.lock.Unlock()

	go t.pump()
	return nil
}

// pump copies each inbound websocket message into the pipe so Reader()
// can be consumed as a plain byte stream by internal/protocol.Reader,
// which expects CRLF-delimited frames rather than message boundaries.
func (t *wsTransport) pump() {
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			t.pw.CloseWithError(err)
			return
		}
		if _, err := t.pw.Write(data); err != nil {
			return
		}
	}
}

func (t *wsTransport) Reader() io.Reader {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.pr
}

// Write holds t.lock across WriteMessage: a gorilla/websocket connection
// allows only one concurrent writer.
func (t *wsTransport) Write(frame []byte) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.conn == nil {
		return NewError(ErrDisconnected, "transport not connected")
	}
	return t.conn.WriteMessage(websocket.TextMessage, frame)
}

func (t *wsTransport) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.conn == nil {
		return nil
	}
	_ = t.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := t.conn.Close()
	t.conn = nil
	if t.pw != nil {
		t.pw.Close()
	}
	return err
}
