// Package report renders lint results.
package report

import (
	"fmt"
	"io"

	"github.com/viant/wasmlint/linter"
)

// Format names a report format.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formatter writes a lint report.
type Formatter interface {
	Format(w io.Writer, report *linter.Report) error
}

// New returns the formatter for format.
func New(format string) (Formatter, error) {
	switch Format(format) {
	case FormatText, "":
		return &Text{}, nil
	case FormatJSON:
		return &JSON{Indent: "  "}, nil
	case FormatYAML:
		return &YAML{}, nil
	}
	return nil, fmt.Errorf("unsupported report format: %q", format)
}
