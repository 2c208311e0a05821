package session

import "fmt"

// State is the controller's position in the session lifecycle.
type State int

const (
	Initializing State = iota
	AwaitingLocation
	MapReady
	AwaitingInput
	FormOpen
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case AwaitingLocation:
		return "awaiting_location"
	case MapReady:
		return "map_ready"
	case AwaitingInput:
		return "awaiting_input"
	case FormOpen:
		return "form_open"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state name in JSON responses.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// isAllowedTransition reports whether from -> to is a legal step. Reset back
// to Initializing is legal from every state.
func isAllowedTransition(from, to State) bool {
	if to == Initializing {
		return true
	}
	switch from {
	case Initializing:
		return to == AwaitingLocation
	case AwaitingLocation:
		return to == MapReady
	case MapReady:
		return to == AwaitingInput || to == FormOpen
	case AwaitingInput:
		return to == FormOpen
	case FormOpen:
		return to == AwaitingInput
	default:
		return false
	}
}
