// Package javascript parses JavaScript sources with tree-sitter and matches
// dynamic loads of binary modules together with the members read off them.
package javascript

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/viant/afs"
)

// Source is a parsed JavaScript file.
type Source struct {
	Path string
	Code []byte
	tree *sitter.Tree
}

// Root returns the root node of the syntax tree.
func (s *Source) Root() *sitter.Node {
	return s.tree.RootNode()
}

// HasErrors reports whether the parser had to recover from syntax errors.
func (s *Source) HasErrors() bool {
	return s.Root().HasError()
}

// Close releases the syntax tree.
func (s *Source) Close() {
	if s.tree != nil {
		s.tree.Close()
	}
}

// Inspector parses JavaScript sources.
type Inspector struct {
	fs afs.Service
}

// NewInspector creates an Inspector reading files through fs.
func NewInspector(fs afs.Service) *Inspector {
	if fs == nil {
		fs = afs.New()
	}
	return &Inspector{fs: fs}
}

// InspectSource parses src, recording path as its location.
func (i *Inspector) InspectSource(ctx context.Context, path string, src []byte) (*Source, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &Source{Path: path, Code: src, tree: tree}, nil
}

// InspectFile reads and parses the file at URL.
func (i *Inspector) InspectFile(ctx context.Context, URL string) (*Source, error) {
	src, err := i.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", URL, err)
	}
	return i.InspectSource(ctx, URL, src)
}
