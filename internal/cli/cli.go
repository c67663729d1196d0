// Package cli implements the wasmlint command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/wasmlint/config"
	"github.com/viant/wasmlint/inspector/javascript"
	"github.com/viant/wasmlint/linter"
	"github.com/viant/wasmlint/report"
	"github.com/viant/wasmlint/rule"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitProblems = 1
	ExitFailure  = 2
)

// ExitError carries the process exit code of a finished command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

type options struct {
	configFile string
	verbose    bool
}

// NewRootCommand builds the wasmlint command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	v := config.New()
	root := &cobra.Command{
		Use:   "wasmlint [paths...]",
		Short: "Check JavaScript loads of WebAssembly modules against their exports",
		Long: `wasmlint finds import('./module.wasm').then(m => m.member) in JavaScript sources,
reports modules that do not exist and members the module does not export.

Paths may be files or directories; the current directory is used when none is given.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, v, opts, args)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (yaml, json or toml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().String("format", "text", "report format: text, json or yaml")
	root.Flags().String("resolve-base", "file", "resolve module references against the containing file or the project root: file or root")
	root.Flags().Bool("validate", false, "compile modules with wazero before trusting their exports")
	_ = v.BindPFlag("format", root.Flags().Lookup("format"))
	_ = v.BindPFlag("resolve_base", root.Flags().Lookup("resolve-base"))
	_ = v.BindPFlag("validate", root.Flags().Lookup("validate"))

	root.AddCommand(newExportsCommand())
	return root
}

func runLint(cmd *cobra.Command, v *viper.Viper, opts *options, args []string) error {
	cfg, err := loadConfig(v, opts.configFile)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	logger, err := newLogger(cfg.LogLevel, opts.verbose)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	defer func() { _ = logger.Sync() }()
	javascript.SetLogger(logger)
	rule.SetLogger(logger)

	formatter, err := report.New(cfg.Format)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	if len(args) == 0 {
		args = []string{"."}
	}
	result, err := linter.New(cfg, linter.WithLogger(logger)).LintPaths(cmd.Context(), args...)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	if err := formatter.Format(cmd.OutOrStdout(), result); err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("failed to write report: %w", err)}
	}
	switch {
	case result.Failed():
		return &ExitError{Code: ExitFailure}
	case result.Count() > 0:
		return &ExitError{Code: ExitProblems}
	}
	return nil
}

func loadConfig(v *viper.Viper, path string) (*config.Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return config.Decode(v)
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	if verbose {
		level = "debug"
	}
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = atomic
	cfg.DisableStacktrace = atomic.Level() > zapcore.DebugLevel
	return cfg.Build()
}

// Execute runs the root command and exits with its status.
func Execute() {
	err := NewRootCommand().ExecuteContext(context.Background())
	if err == nil {
		os.Exit(ExitOK)
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(os.Stderr, "wasmlint:", exitErr.Err)
		}
		os.Exit(exitErr.Code)
	}
	fmt.Fprintln(os.Stderr, "wasmlint:", err)
	os.Exit(ExitFailure)
}
