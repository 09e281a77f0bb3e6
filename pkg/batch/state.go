package batch

import "fmt"

// State is a step of the orchestrator lifecycle
type State int

const (
	Idle State = iota
	Validating
	Preparing
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Preparing:
		return "preparing"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
