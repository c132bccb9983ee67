package core

type State int

const (
	StateOngoing State = iota
	StatePending       // Analysis queued or running
	StateFailed        // Analysis could not be completed
	StateDone          // Analysis finished
	StateBlackWins
	StateWhiteWins
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFailed:
		return "failed"
	case StateDone:
		return "done"
	case StateBlackWins:
		return "black_wins"
	case StateWhiteWins:
		return "white_wins"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// WinState maps the winning color to its terminal state
func WinState(winner Color) State {
	if winner == ColorBlack {
		return StateBlackWins
	}
	return StateWhiteWins
}
