package wireline

import "sync"

// PendingPublish is an immutable buffered publish, queued while the
// engine is not SERVER_READY (spec.md §3/§4.2).
type PendingPublish struct {
	Subject string
	Body    []byte
	ReplyTo string
}

// OutboundQueue is a bounded-or-unbounded FIFO of PendingPublish, drained
// into the transport once the connection reaches SERVER_READY. Grounded
// on the teacher's MemoryPublishStore (lock + slice, drained as a unit)
// and the reconnecting-websocket's sendQueue channel shape; this module
// uses a plain mutex-guarded slice since drainInto must run under the
// engine's own lock (spec.md §4.2), which a channel cannot participate in
// atomically.
type OutboundQueue struct {
	lock     sync.Mutex
	entries  []PendingPublish
	capacity int // <= 0 means unbounded
}

// NewOutboundQueue creates a queue. capacity <= 0 means unbounded, the
// default adopted by spec.md §4.2 ("unbounded is acceptable for v1").
func NewOutboundQueue(capacity int) *OutboundQueue {
	return &OutboundQueue{capacity: capacity}
}

// Enqueue appends a publish. O(1).
func (queue *OutboundQueue) Enqueue(publish PendingPublish) error {
	queue.lock.Lock()
	defer queue.lock.Unlock()
	if queue.capacity > 0 && len(queue.entries) >= queue.capacity {
		return NewError(ErrDisconnected, "outbound queue is full")
	}
	queue.entries = append(queue.entries, publish)
	return nil
}

// DrainInto empties the queue, then calls write for each taken entry in
// insertion order, stopping at the first error; entries after a failed
// write are dropped, not requeued. Callers hold the engine lock across this call so the
// drain is atomic from the caller's perspective, per spec.md §4.2.
func (queue *OutboundQueue) DrainInto(write func(PendingPublish) error) error {
	queue.lock.Lock()
	entries := queue.entries
	queue.entries = nil
	queue.lock.Unlock()

	for _, entry := range entries {
		if err := write(entry); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of queued entries.
func (queue *OutboundQueue) Len() int {
	queue.lock.Lock()
	defer queue.lock.Unlock()
	return len(queue.entries)
}
