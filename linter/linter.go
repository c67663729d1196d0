// Package linter runs the export rule over JavaScript files and directories.
package linter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/wasmlint/config"
	"github.com/viant/wasmlint/inspector/javascript"
	"github.com/viant/wasmlint/resolver"
	"github.com/viant/wasmlint/rule"
	"go.uber.org/zap"
)

// Linter parses files and feeds their matches to the rule engine, one file
// at a time.
type Linter struct {
	config    *config.Config
	fs        afs.Service
	logger    *zap.Logger
	inspector *javascript.Inspector
	matcher   *javascript.Matcher
	engine    *rule.Engine
}

// Option configures a Linter.
type Option func(*Linter)

// WithFS sets the storage service.
func WithFS(fs afs.Service) Option {
	return func(l *Linter) {
		l.fs = fs
	}
}

// WithLogger sets the logger shared by the linter, matcher and engine.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Linter) {
		l.logger = logger
	}
}

// New creates a Linter for cfg; a nil cfg uses config.Default().
func New(cfg *config.Config, opts ...Option) *Linter {
	if cfg == nil {
		cfg = config.Default()
	}
	l := &Linter{config: cfg}
	for _, opt := range opts {
		opt(l)
	}
	if l.fs == nil {
		l.fs = afs.New()
	}
	matcherOptions := []javascript.Option{
		javascript.WithLoadCallee(cfg.LoadCallee),
		javascript.WithSettleMethod(cfg.SettleMethod),
		javascript.WithExtension(cfg.ModuleExtension),
		javascript.WithStaticImports(cfg.StaticImports),
	}
	var detector *resolver.Detector
	if resolver.Base(cfg.ResolveBase) == resolver.BaseRoot {
		detector = resolver.NewDetector(l.fs, cfg.RootMarkers...)
	}
	engineOptions := []rule.Option{
		rule.WithFS(l.fs),
		rule.WithResolver(resolver.New(resolver.Base(cfg.ResolveBase), detector)),
		rule.WithValidation(cfg.Validate),
	}
	if l.logger != nil {
		matcherOptions = append(matcherOptions, javascript.WithLogger(l.logger))
		engineOptions = append(engineOptions, rule.WithLogger(l.logger))
	} else {
		l.logger = zap.NewNop()
	}
	l.inspector = javascript.NewInspector(l.fs)
	l.matcher = javascript.NewMatcher(matcherOptions...)
	l.engine = rule.New(engineOptions...)
	l.logger = l.logger.With(zap.String("component", "linter"))
	return l
}

// Engine returns the rule engine, whose cache spans the linter's lifetime.
func (l *Linter) Engine() *rule.Engine {
	return l.engine
}

// LintSource lints src as if it were the file at path.
func (l *Linter) LintSource(ctx context.Context, path string, src []byte) (*FileReport, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	source, err := l.inspector.InspectSource(ctx, path, src)
	if err != nil {
		return nil, err
	}
	return l.lint(ctx, source), nil
}

// LintFile lints the file at path.
func (l *Linter) LintFile(ctx context.Context, path string) (*FileReport, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	source, err := l.inspector.InspectFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return l.lint(ctx, source), nil
}

func (l *Linter) lint(ctx context.Context, source *javascript.Source) *FileReport {
	defer source.Close()
	if source.HasErrors() {
		l.logger.Debug("source has syntax errors, continuing with recovered tree", zap.String("file", source.Path))
	}
	diagnostics := l.engine.Check(ctx, source.Path, l.matcher.Match(source))
	l.logger.Debug("linted", zap.String("file", source.Path), zap.Int("diagnostics", len(diagnostics)))
	return &FileReport{Path: source.Path, Diagnostics: diagnostics}
}

// LintPaths lints files and directories. A file that cannot be read or
// parsed is recorded on its FileReport and does not stop the run.
func (l *Linter) LintPaths(ctx context.Context, paths ...string) (*Report, error) {
	files, err := l.Files(ctx, paths...)
	if err != nil {
		return nil, err
	}
	report := &Report{}
	for _, file := range files {
		fileReport, err := l.LintFile(ctx, file)
		if err != nil {
			l.logger.Warn("failed to lint file", zap.String("file", file), zap.Error(err))
			fileReport = &FileReport{Path: file, Error: err.Error()}
		}
		report.Files = append(report.Files, fileReport)
	}
	return report, nil
}

// Files expands paths into the sorted, de-duplicated list of source files to lint.
// Explicit file arguments are kept regardless of their extension.
func (l *Linter) Files(ctx context.Context, paths ...string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		object, err := l.fs.Object(ctx, abs)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !object.IsDir() {
			add(abs)
			continue
		}
		found, err := l.walk(ctx, abs)
		if err != nil {
			return nil, err
		}
		for _, file := range found {
			add(file)
		}
	}
	return files, nil
}

func (l *Linter) walk(ctx context.Context, root string) ([]string, error) {
	var files []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return !l.skipDir(info.Name()), nil
		}
		if l.isSource(info.Name()) {
			files = append(files, url.Path(url.Join(url.Join(baseURL, parent), info.Name())))
		}
		return true, nil
	}
	if err := l.fs.Walk(ctx, root, visitor); err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func (l *Linter) skipDir(name string) bool {
	for _, skip := range l.config.SkipDirs {
		if name == skip {
			return true
		}
	}
	return false
}

func (l *Linter) isSource(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range l.config.Extensions {
		if ext == strings.ToLower(candidate) {
			return true
		}
	}
	return false
}
