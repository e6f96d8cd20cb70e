// Package testutil provides an in-process fake broker speaking the
// module's line protocol over net.Pipe, replacing the teacher's external
// tools/fakeamps process (spec.md §8: "an in-process fake is acceptable
// in place of a live broker").
package testutil

import (
	"bufio"
	"net"
	"sync"

	"github.com/wireline-msg/wireline-go/internal/protocol"
)

// FakeBroker accepts a single client connection over net.Pipe, answers
// CONNECT with INFO, and re-publishes any PUB it receives as a MSG to
// every subscriber whose SUB matches the subject exactly (no wildcard
// support — out of scope per spec.md §3).
type FakeBroker struct {
	InfoVersion string

	lock sync.Mutex
	subs map[string][]string // subject -> sids
	conn net.Conn
}

// NewFakeBroker creates a broker with no connection yet.
func NewFakeBroker() *FakeBroker {
	return &FakeBroker{subs: make(map[string][]string)}
}

// Dial returns a net.Conn the client side can use as its Transport's
// underlying connection, spawning a goroutine that serves it.
func (broker *FakeBroker) Dial() net.Conn {
	clientSide, serverSide := net.Pipe()
	broker.lock.Lock()
	broker.conn = serverSide
	broker.lock.Unlock()

	go broker.serve(serverSide)
	return clientSide
}

func (broker *FakeBroker) serve(conn net.Conn) {
	reader := protocol.NewReader(bufio.NewReader(conn), 0)

	infoFrame, err := protocol.EncodeInfo(protocol.InfoBody{Version: broker.InfoVersion})
	if err != nil {
		return
	}

	// Wait for CONNECT before replying with INFO, mirroring the real
	// handshake order described in spec.md §4.1.
	frame, err := reader.ReadFrame()
	if err != nil || frame.Verb != protocol.VerbConnect {
		return
	}
	broker.write(infoFrame)

	for {
		frame, err := reader.ReadFrame()
		if err != nil {
			return
		}
		switch frame.Verb {
		case protocol.VerbSub:
			broker.addSub(frame.Subject, frame.SID)
		case protocol.VerbUnsub:
			broker.removeSID(frame.SID)
		case protocol.VerbPub:
			broker.fanOut(frame.Subject, frame.QueueOrReply, frame.Body)
		case protocol.VerbPing:
			broker.write(protocol.EncodePong())
		}
	}
}

func (broker *FakeBroker) addSub(subject, sid string) {
	broker.lock.Lock()
	broker.subs[subject] = append(broker.subs[subject], sid)
	broker.lock.Unlock()
}

func (broker *FakeBroker) removeSID(sid string) {
	broker.lock.Lock()
	defer broker.lock.Unlock()
	for subject, sids := range broker.subs {
		for i, candidate := range sids {
			if candidate == sid {
				broker.subs[subject] = append(sids[:i], sids[i+1:]...)
			}
		}
	}
}

func (broker *FakeBroker) fanOut(subject, replyTo string, body []byte) {
	broker.lock.Lock()
	sids := append([]string(nil), broker.subs[subject]...)
	broker.lock.Unlock()

	for _, sid := range sids {
		broker.write(protocol.EncodeMsg(subject, sid, replyTo, body))
	}
}

func (broker *FakeBroker) write(frame []byte) {
	broker.lock.Lock()
	defer broker.lock.Unlock()
	if broker.conn == nil {
		return
	}
	_, _ = broker.conn.Write(frame)
}

// Close closes the broker's side of the connection.
func (broker *FakeBroker) Close() error {
	broker.lock.Lock()
	defer broker.lock.Unlock()
	if broker.conn == nil {
		return nil
	}
	err := broker.conn.Close()
	broker.conn = nil
	return err
}
