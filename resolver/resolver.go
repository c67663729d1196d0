// Package resolver maps module references found in source onto filesystem paths.
package resolver

import (
	"context"
	"path/filepath"
)

// Base selects what relative references are resolved against.
type Base string

const (
	// BaseFile resolves against the directory of the file containing the reference.
	BaseFile Base = "file"
	// BaseRoot resolves against the project root detected above the containing file.
	BaseRoot Base = "root"
)

// Resolve returns the candidate absolute path for ref as referenced from
// containingFile. Absolute references are only cleaned. No I/O is performed.
func Resolve(ref, containingFile string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(filepath.Dir(containingFile), filepath.FromSlash(ref))
}

// Resolver resolves references using the configured Base.
type Resolver struct {
	base     Base
	detector *Detector
}

// New creates a Resolver. A nil detector is only valid for BaseFile.
func New(base Base, detector *Detector) *Resolver {
	if base == "" {
		base = BaseFile
	}
	if base == BaseRoot && detector == nil {
		detector = NewDetector(nil)
	}
	return &Resolver{base: base, detector: detector}
}

// Base returns the resolution base.
func (r *Resolver) Base() Base {
	return r.base
}

// Resolve resolves ref relative to containingFile or to its project root.
// When no project root is found the containing directory is used.
func (r *Resolver) Resolve(ctx context.Context, ref, containingFile string) string {
	if r == nil || r.base != BaseRoot || filepath.IsAbs(ref) {
		return Resolve(ref, containingFile)
	}
	root, ok := r.detector.FindRoot(ctx, filepath.Dir(containingFile))
	if !ok {
		return Resolve(ref, containingFile)
	}
	return filepath.Join(root, filepath.FromSlash(ref))
}
