package panel

import "fmt"

// State is the discrete state of a panel.
type State int

const (
	Collapsed State = iota // resting at the collapsed extent
	Expanded               // resting at the expanded extent
	Sliding                // being dragged or settling
)

func (s State) String() string {
	switch s {
	case Collapsed:
		return "COLLAPSED"
	case Expanded:
		return "EXPANDED"
	case Sliding:
		return "SLIDING"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether s is a rest state.
func (s State) Terminal() bool {
	return s == Collapsed || s == Expanded
}

// ParseState parses the names produced by String.
func ParseState(v string) (State, error) {
	switch v {
	case "COLLAPSED":
		return Collapsed, nil
	case "EXPANDED":
		return Expanded, nil
	case "SLIDING":
		return Sliding, nil
	default:
		return Collapsed, fmt.Errorf("unknown panel state: %s", v)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if s < Collapsed || s > Sliding {
		return nil, fmt.Errorf("unknown panel state: %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(data []byte) error {
	v, err := ParseState(string(data))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
