package resolver

import (
	"context"
	"path/filepath"

	"github.com/viant/afs"
)

// DefaultMarkers identify the root of a JavaScript project.
var DefaultMarkers = []string{"package.json", ".git"}

// Detector identifies project root folders by walking up the directory tree
// until a directory holding one of the marker entries is found.
type Detector struct {
	fs      afs.Service
	markers []string
	roots   map[string]string
}

// NewDetector creates a detector for markers, defaulting to DefaultMarkers.
func NewDetector(fs afs.Service, markers ...string) *Detector {
	if fs == nil {
		fs = afs.New()
	}
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	return &Detector{
		fs:      fs,
		markers: markers,
		roots:   make(map[string]string),
	}
}

// FindRoot searches up from startDir for a project marker.
func (d *Detector) FindRoot(ctx context.Context, startDir string) (string, bool) {
	startDir = filepath.Clean(startDir)
	if root, ok := d.roots[startDir]; ok {
		return root, root != ""
	}
	dir := startDir
	var visited []string
	root := ""
	for {
		if cached, ok := d.roots[dir]; ok {
			root = cached
			break
		}
		visited = append(visited, dir)
		if d.hasMarker(ctx, dir) {
			root = dir
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	for _, v := range visited {
		d.roots[v] = root
	}
	return root, root != ""
}

func (d *Detector) hasMarker(ctx context.Context, dir string) bool {
	for _, marker := range d.markers {
		if ok, _ := d.fs.Exists(ctx, filepath.Join(dir, marker)); ok {
			return true
		}
	}
	return false
}
