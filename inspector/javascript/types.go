package javascript

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Location identifies a source range. Line and Column are 1-based,
// Start and End are byte offsets.
type Location struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Start  int `json:"-" yaml:"-"`
	End    int `json:"-" yaml:"-"`
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

func locationOf(node *sitter.Node) Location {
	point := node.StartPoint()
	return Location{
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
		Start:  int(node.StartByte()),
		End:    int(node.EndByte()),
	}
}

// ModuleReference is the literal path passed to a dynamic load.
type ModuleReference struct {
	Path     string
	Location Location
}

// AccessCandidate is a member read off a traced module handle.
type AccessCandidate struct {
	Alias    string
	Member   string
	Location Location
	// Invoked reports the member is called.
	Invoked bool
	// ResultShapeUnverified reports a member access on the value returned by
	// the call; only the existence of Member is checked.
	ResultShapeUnverified bool
}

// TraceKind classifies what happened to the module handle inside the continuation.
type TraceKind int

const (
	// Unbound means there was no continuation or it declared no parameter.
	Unbound TraceKind = iota
	// Traced means every use of the alias was a member read.
	Traced
	// Escaped means the alias was reassigned, destructured, written through or
	// passed on; candidates are dropped.
	Escaped
)

func (k TraceKind) String() string {
	switch k {
	case Traced:
		return "traced"
	case Escaped:
		return "escaped"
	}
	return "unbound"
}

// Trace describes the handle alias of one dynamic load.
type Trace struct {
	Kind   TraceKind
	Alias  string
	Reason string
}

// Match pairs a module reference with the accesses traced to it.
type Match struct {
	Reference  ModuleReference
	Candidates []AccessCandidate
	Handle     Trace
	// Static is set for import declarations.
	Static bool
}
