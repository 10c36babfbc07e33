package smtp

import "github.com/OliverSchlueter/smsgate/internal/messages"

type State int

const (
	StateGreeting State = iota
	StateHandshake
	StateTransaction
	StateCollect
	StatePost
)

func (s State) String() string {
	switch s {
	case StateGreeting:
		return "greeting"
	case StateHandshake:
		return "handshake"
	case StateTransaction:
		return "transaction"
	case StateCollect:
		return "collect"
	case StatePost:
		return "post"
	default:
		return "unknown"
	}
}

type Session struct {
	Hostname   string
	RemoteAddr string
	State      State
	From       string
	To         []string

	// Message is the entry being collected during DATA. It is nil whenever
	// nothing uncommitted exists.
	Message *messages.Message
}
