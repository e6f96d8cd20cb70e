package wireline

import "fmt"

// ErrorKind classifies the closed set of error conditions the client can
// surface, mirroring the teacher's iota error-kind block.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrClosed
	ErrArgument
	ErrDisconnected
	ErrAlreadyConnected
	ErrInvalidHosts
	ErrProtocol
	ErrBrokerRejected
	ErrTimedOut
	ErrSubIDInUse
	ErrHandler
)

func (kind ErrorKind) String() string {
	switch kind {
	case ErrClosed:
		return "ClosedError"
	case ErrArgument:
		return "ArgumentError"
	case ErrDisconnected:
		return "DisconnectedError"
	case ErrAlreadyConnected:
		return "AlreadyConnectedError"
	case ErrInvalidHosts:
		return "InvalidHostsError"
	case ErrProtocol:
		return "ProtocolError"
	case ErrBrokerRejected:
		return "BrokerRejectedError"
	case ErrTimedOut:
		return "TimedOutError"
	case ErrSubIDInUse:
		return "SubIDInUseError"
	case ErrHandler:
		return "HandlerError"
	default:
		return "UnknownError"
	}
}

// WireError is the concrete error type returned by every public operation
// that fails for a reason covered by ErrorKind. Callers can recover the
// kind with errors.As.
type WireError struct {
	Kind   ErrorKind
	Detail string
}

func (err *WireError) Error() string {
	if err.Detail == "" {
		return err.Kind.String()
	}
	return fmt.Sprintf("%s: %s", err.Kind, err.Detail)
}

// NewError constructs a *WireError for the given kind, formatting an
// optional detail the way the teacher's NewError(code, message...) does.
func NewError(kind ErrorKind, detail ...interface{}) error {
	err := &WireError{Kind: kind}
	if len(detail) > 0 {
		if asErr, ok := detail[0].(error); ok {
			err.Detail = asErr.Error()
		} else {
			err.Detail = fmt.Sprint(detail[0])
		}
	}
	return err
}

// IsKind reports whether err is a *WireError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	wireErr, ok := err.(*WireError)
	return ok && wireErr.Kind == kind
}
