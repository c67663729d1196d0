// Package config loads wasmlint settings from files, environment and defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. WASMLINT_RESOLVE_BASE=root.
const EnvPrefix = "WASMLINT"

// Config holds lint settings.
type Config struct {
	Extensions      []string `mapstructure:"extensions" yaml:"extensions"`
	ModuleExtension string   `mapstructure:"module_extension" yaml:"module_extension"`
	LoadCallee      string   `mapstructure:"load_callee" yaml:"load_callee"`
	SettleMethod    string   `mapstructure:"settle_method" yaml:"settle_method"`
	ResolveBase     string   `mapstructure:"resolve_base" yaml:"resolve_base"`
	RootMarkers     []string `mapstructure:"root_markers" yaml:"root_markers"`
	SkipDirs        []string `mapstructure:"skip_dirs" yaml:"skip_dirs"`
	Validate        bool     `mapstructure:"validate" yaml:"validate"`
	StaticImports   bool     `mapstructure:"static_imports" yaml:"static_imports"`
	LogLevel        string   `mapstructure:"log_level" yaml:"log_level"`
	Format          string   `mapstructure:"format" yaml:"format"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("extensions", []string{".js", ".mjs", ".cjs", ".jsx"})
	v.SetDefault("module_extension", ".wasm")
	v.SetDefault("load_callee", "import")
	v.SetDefault("settle_method", "then")
	v.SetDefault("resolve_base", "file")
	v.SetDefault("root_markers", []string{"package.json", ".git"})
	v.SetDefault("skip_dirs", []string{"node_modules", ".git", "dist", "build"})
	v.SetDefault("validate", false)
	v.SetDefault("static_imports", true)
	v.SetDefault("log_level", "warn")
	v.SetDefault("format", "text")
}

// New returns a viper instance with defaults and environment overrides bound.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the default configuration, including environment
// overrides when they are valid.
func Default() *Config {
	if cfg, err := Decode(New()); err == nil {
		return cfg
	}
	v := viper.New()
	SetDefaults(v)
	cfg, err := Decode(v)
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// Load reads the optional config file at path on top of defaults and environment.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return Decode(v)
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Check validates enumerated settings.
func (c *Config) Check() error {
	switch c.ResolveBase {
	case "file", "root":
	default:
		return fmt.Errorf("invalid resolve_base %q: expected file or root", c.ResolveBase)
	}
	switch c.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid format %q: expected text, json or yaml", c.Format)
	}
	if !strings.HasPrefix(c.ModuleExtension, ".") {
		return fmt.Errorf("invalid module_extension %q: must start with '.'", c.ModuleExtension)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions cannot be empty")
	}
	return nil
}
