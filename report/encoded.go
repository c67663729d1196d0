package report

import (
	"encoding/json"
	"io"

	"github.com/viant/wasmlint/linter"
	"github.com/viant/wasmlint/rule"
	"gopkg.in/yaml.v3"
)

// JSON writes the report as a JSON document.
type JSON struct {
	Indent string
}

func (f *JSON) Format(w io.Writer, report *linter.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", f.Indent)
	return encoder.Encode(normalize(report))
}

// YAML writes the report as a YAML document.
type YAML struct{}

func (f *YAML) Format(w io.Writer, report *linter.Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(normalize(report)); err != nil {
		return err
	}
	return encoder.Close()
}

// normalize replaces nil slices so encoded reports always carry lists.
func normalize(report *linter.Report) *linter.Report {
	result := &linter.Report{Files: []*linter.FileReport{}}
	if report == nil {
		return result
	}
	for _, file := range report.Files {
		copied := *file
		if copied.Diagnostics == nil {
			copied.Diagnostics = []*rule.Diagnostic{}
		}
		result.Files = append(result.Files, &copied)
	}
	return result
}
