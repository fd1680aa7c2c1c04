package integrator

import "fmt"

// The stage of a render.
type State uint32

const (
	Idle State = iota
	Tiling
	Dispatching
	Waiting
	Writing
	Done
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tiling:
		return "tiling"
	case Dispatching:
		return "dispatching"
	case Waiting:
		return "waiting"
	case Writing:
		return "writing"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("State(%d)", uint32(s))
}
