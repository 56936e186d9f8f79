// Package config loads jsgraph settings from defaults, jsgraph.toml, the
// environment and command-line flags.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes environment overrides (JSGRAPH_PORT=9090)
const EnvPrefix = "JSGRAPH_"

// FileName is the optional config file read from the working directory
const FileName = "jsgraph.toml"

// Visualize modes
const (
	VisualizeAsk = "ask"
	VisualizeYes = "yes"
	VisualizeNo  = "no"
)

// Config holds all configuration for the application
type Config struct {
	Root       string `koanf:"root"`
	Output     string `koanf:"output"`
	Workers    int    `koanf:"workers"`
	WebMode    bool   `koanf:"web"`
	Port       int    `koanf:"port"`
	Open       bool   `koanf:"open"`
	Watch      bool   `koanf:"watch"`
	Visualize  string `koanf:"visualize"`
	Progress   bool   `koanf:"progress"`
	JSONLogs   bool   `koanf:"json_logs"`
	Verbosity  string `koanf:"verbosity"`
	VerboseCnt int    `koanf:"verbose"`
}

// Defaults returns the built-in values
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"root":      "",
		"output":    "code_knowledge_graph.json",
		"workers":   runtime.NumCPU(),
		"web":       false,
		"port":      8080,
		"open":      true,
		"watch":     false,
		"visualize": VisualizeAsk,
		"progress":  true,
		"json_logs": false,
		"verbosity": "",
		"verbose":   0,
	}
}

// Load reads configuration. Priority: flags > env > config file > defaults.
func Load(f *pflag.FlagSet) (*Config, error) {
	return load(FileName, f)
}

func load(configFile string, f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// the file is optional
	_ = k.Load(file.Provider(configFile), toml.Parser())

	// keys are flat, so JSGRAPH_JSON_LOGS maps to json_logs
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		// flag names use dashes, keys use underscores
		provider := posflag.ProviderWithFlag(f, ".", k, func(fl *pflag.Flag) (string, interface{}) {
			return strings.ReplaceAll(fl.Name, "-", "_"), posflag.FlagVal(f, fl)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that the type system cannot
func (c *Config) Validate() error {
	switch c.Visualize {
	case VisualizeAsk, VisualizeYes, VisualizeNo:
	default:
		return fmt.Errorf("invalid visualize mode %q (want ask, yes or no)", c.Visualize)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}

// RegisterFlags defines the command-line flags that Load understands
func RegisterFlags(f *pflag.FlagSet) {
	f.StringP("root", "r", "", "Path to the codebase directory (prompted when empty)")
	f.StringP("output", "o", "code_knowledge_graph.json", "Output file for the knowledge graph")
	f.Int("workers", runtime.NumCPU(), "Number of files extracted in parallel")
	f.Bool("web", false, "Serve the graph viewer after the scan")
	f.Int("port", 8080, "Web server port")
	f.Bool("open", true, "Open a browser when serving")
	f.Bool("watch", false, "Re-run the scan when source files or manifests change")
	f.String("visualize", VisualizeAsk, "Visualize after saving: ask, yes or no")
	f.Bool("progress", true, "Show a progress bar")
	f.Bool("json-logs", false, "Emit logs as JSON")
	f.String("verbosity", "", "Log level: trace, debug, info, warn, error")
	f.CountP("verbose", "v", "Increase verbosity (-v debug, -vv trace)")
}

type mapProvider map[string]interface{}

func (p mapProvider) Read() (map[string]interface{}, error) {
	return p, nil
}

func (p mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
