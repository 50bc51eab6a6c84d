package explore

// DiveState tracks a deep-dive through its state machine:
//
//	Pending → SubSegmenting → Exploring → {Converged | MaxDepthReached | TimedOut}
//
// The three terminal states are the only ways a dive ends; MaxDepthReached
// is a documented outcome, not an error.
type DiveState int

const (
	DivePending DiveState = iota
	DiveSubSegmenting
	DiveExploring
	DiveConverged
	DiveMaxDepthReached
	DiveTimedOut
)

// String returns the state name for logs and monitors.
func (s DiveState) String() string {
	switch s {
	case DivePending:
		return "pending"
	case DiveSubSegmenting:
		return "sub_segmenting"
	case DiveExploring:
		return "exploring"
	case DiveConverged:
		return "converged"
	case DiveMaxDepthReached:
		return "max_depth_reached"
	case DiveTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends the dive.
func (s DiveState) Terminal() bool {
	return s == DiveConverged || s == DiveMaxDepthReached || s == DiveTimedOut
}
