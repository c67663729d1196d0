// Package rule checks that dynamically loaded WebAssembly modules exist and
// export every member read off them.
package rule

import (
	"context"
	"iter"
	"sort"

	"github.com/viant/afs"
	"github.com/viant/wasmlint/inspector/javascript"
	"github.com/viant/wasmlint/resolver"
	"go.uber.org/zap"
)

// Engine checks matches of one file at a time. The decode cache lives as long
// as the Engine, typically one lint run; an Engine is not safe for concurrent use.
type Engine struct {
	fs       afs.Service
	resolver *resolver.Resolver
	validate bool
	logger   *zap.Logger
	cache    *Cache
}

// Option configures an Engine.
type Option func(*Engine)

// WithFS sets the storage service used to stat and read modules.
func WithFS(fs afs.Service) Option {
	return func(e *Engine) {
		e.fs = fs
	}
}

// WithResolver sets the path resolver.
func WithResolver(r *resolver.Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithValidation additionally compiles each module before trusting its exports.
func WithValidation(enabled bool) Option {
	return func(e *Engine) {
		e.validate = enabled
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.fs == nil {
		e.fs = afs.New()
	}
	if e.resolver == nil {
		e.resolver = resolver.New(resolver.BaseFile, nil)
	}
	if e.logger == nil {
		e.logger = Logger()
	}
	e.logger = e.logger.With(zap.String("component", "rule"))
	e.cache = NewCache(e.fs, e.validate)
	return e
}

// Cache returns the engine's decode cache.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// Check consumes the matches of file and returns its diagnostics ordered by
// source position. Failures are contained per reference.
func (e *Engine) Check(ctx context.Context, file string, matches iter.Seq[*javascript.Match]) []*Diagnostic {
	run := &fileRun{engine: e, file: file, logger: e.logger.With(zap.String("file", file))}
	for match := range matches {
		run.check(ctx, match)
	}
	run.transition(Done)
	sort.SliceStable(run.diagnostics, func(i, j int) bool {
		return run.diagnostics[i].offset < run.diagnostics[j].offset
	})
	return run.diagnostics
}

type fileRun struct {
	engine      *Engine
	file        string
	state       State
	logger      *zap.Logger
	diagnostics []*Diagnostic
}

func (r *fileRun) transition(state State) {
	if r.logger.Core().Enabled(zap.DebugLevel) {
		r.logger.Debug("transition", zap.Stringer("from", r.state), zap.Stringer("to", state))
	}
	r.state = state
}

func (r *fileRun) emit(d *Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *fileRun) check(ctx context.Context, match *javascript.Match) {
	defer r.transition(Scanning)
	ref := match.Reference

	r.transition(Resolving)
	path := r.engine.resolver.Resolve(ctx, ref.Path, r.file)
	exists, err := r.engine.cache.Exists(ctx, path)
	if err != nil {
		r.logger.Debug("cannot confirm module", zap.String("module", path), zap.Error(err))
		return
	}
	if !exists {
		r.emit(newDiagnostic(ModuleNotFound, MessageModuleNotFound, r.file, ref.Path, ref.Location))
		return
	}

	r.transition(Checking)
	exports, err := r.engine.cache.Exports(ctx, path)
	if err != nil {
		r.logger.Debug("cannot confirm module exports", zap.String("module", path), zap.Error(err))
		return
	}
	for _, candidate := range match.Candidates {
		if exports.Has(candidate.Member) {
			continue
		}
		d := newDiagnostic(ExportNotFound, ExportNotFoundMessage(candidate.Member), r.file, ref.Path, candidate.Location)
		d.Member = candidate.Member
		r.emit(d)
	}
}
