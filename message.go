package wireline

import "time"

// MessageHandler receives a delivered Message on the callback executor,
// never on the network I/O goroutine (spec.md §5).
type MessageHandler func(*Message)

// Message is handed to subscription handlers. IsRequest is true iff
// ReplyTo is non-empty, in which case Reply/ReplyDelayed become valid
// (spec.md §3).
type Message struct {
	Subject    string
	Body       []byte
	QueueGroup string
	ReplyTo    string
	IsRequest  bool

	publisher func(subject string, body []byte, replyTo string) error
	timers    timerScheduler
}

// Reply publishes body to the message's ReplyTo subject. It is only
// valid when IsRequest is true.
func (message *Message) Reply(body []byte) error {
	if !message.IsRequest {
		return NewError(ErrArgument, "message is not a request")
	}
	return message.publisher(message.ReplyTo, body, "")
}

// ReplyDelayed schedules a Reply after the given delay, firing on a timer
// goroutine (never the engine lock or the network I/O goroutine).
func (message *Message) ReplyDelayed(body []byte, delay time.Duration) error {
	if !message.IsRequest {
		return NewError(ErrArgument, "message is not a request")
	}
	if message.timers == nil {
		return message.Reply(body)
	}
	message.timers.AfterFunc(delay, func() {
		_ = message.publisher(message.ReplyTo, body, "")
	})
	return nil
}

// timerScheduler abstracts time.AfterFunc so tests can use a fake clock.
type timerScheduler interface {
	AfterFunc(delay time.Duration, fn func()) *time.Timer
}

type realTimerScheduler struct{}

func (realTimerScheduler) AfterFunc(delay time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(delay, fn)
}
