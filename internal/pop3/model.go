package pop3

type State int

const (
	StateAuthorization State = iota
	StateTransaction
)

func (s State) String() string {
	switch s {
	case StateAuthorization:
		return "authorization"
	case StateTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}

type Session struct {
	RemoteAddr string
	State      State
	Username   string
	// UserSet distinguishes an empty USER argument from no USER at all.
	UserSet bool
}
