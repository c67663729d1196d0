package rule

import (
	"fmt"

	"github.com/viant/wasmlint/inspector/javascript"
)

// Name identifies the rule in reports.
const Name = "no-unexisting-export"

// Kind classifies a diagnostic.
type Kind string

const (
	// ModuleNotFound is reported when the referenced module file does not exist.
	ModuleNotFound Kind = "ModuleNotFound"
	// ExportNotFound is reported when an accessed member is not exported.
	ExportNotFound Kind = "ExportNotFound"
)

// MessageModuleNotFound is kept verbatim for compatibility with existing reports.
const MessageModuleNotFound = "WASM file does not exists"

// ExportNotFoundMessage returns the message for a member missing from the export table.
func ExportNotFoundMessage(name string) string {
	return `"` + name + `" is not exported`
}

// Diagnostic is a single lint violation.
type Diagnostic struct {
	Rule    string `json:"rule" yaml:"rule"`
	Kind    Kind   `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Module  string `json:"module" yaml:"module"`
	Member  string `json:"member,omitempty" yaml:"member,omitempty"`
	offset  int
}

func newDiagnostic(kind Kind, message, file, module string, location javascript.Location) *Diagnostic {
	return &Diagnostic{
		Rule:    Name,
		Kind:    kind,
		Message: message,
		File:    file,
		Line:    location.Line,
		Column:  location.Column,
		Module:  module,
		offset:  location.Start,
	}
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s (%s)", d.File, d.Line, d.Column, d.Message, d.Rule)
}
