package rule

// State is the per-file analysis state.
type State int

const (
	Scanning State = iota
	Resolving
	Checking
	Done
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case Resolving:
		return "resolving"
	case Checking:
		return "checking"
	case Done:
		return "done"
	}
	return "unknown"
}
