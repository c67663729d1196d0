package linter

import "github.com/viant/wasmlint/rule"

// FileReport holds the outcome of linting one file.
type FileReport struct {
	Path        string             `json:"path" yaml:"path"`
	Diagnostics []*rule.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Error       string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report holds the outcome of one lint run.
type Report struct {
	Files []*FileReport `json:"files" yaml:"files"`
}

// Diagnostics returns all diagnostics in file order.
func (r *Report) Diagnostics() []*rule.Diagnostic {
	var result []*rule.Diagnostic
	for _, file := range r.Files {
		result = append(result, file.Diagnostics...)
	}
	return result
}

// Count returns the number of diagnostics.
func (r *Report) Count() int {
	count := 0
	for _, file := range r.Files {
		count += len(file.Diagnostics)
	}
	return count
}

// Failed reports whether any file could not be linted.
func (r *Report) Failed() bool {
	for _, file := range r.Files {
		if file.Error != "" {
			return true
		}
	}
	return false
}
