package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultFrequentThreshold is the usage-count cutoff above which a target is
// considered frequent.
const DefaultFrequentThreshold = 5

// Config holds all configuration for the application
type Config struct {
	Build             string `koanf:"build"`
	Output            string `koanf:"output"`
	Format            string `koanf:"format"`
	Configuration     string `koanf:"configuration"`
	FrequentThreshold int    `koanf:"threshold"`
	SkipTypes         string `koanf:"skip-types"`
	SkipNames         string `koanf:"skip-names"`
	PerProject        bool   `koanf:"per-project"`
	RankDir           string `koanf:"rankdir"`
	Watch             bool   `koanf:"watch"`
	WebMode           bool   `koanf:"web"`
	Port              int    `koanf:"port"`
	VerboseCnt        int    `koanf:"verbose"`
}

// Load loads configuration from defaults, config file, environment variables,
// and flags. Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"build":         "./build/",
		"output":        "cmake-graph.dot",
		"format":        "dot",
		"configuration": "",
		"threshold":     DefaultFrequentThreshold,
		"skip-types":    "",
		"skip-names":    "",
		"per-project":   true,
		"rankdir":       "",
		"watch":         false,
		"web":           false,
		"port":          8080,
		"verbose":       0,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - cmake-graph.toml
	// Ignore errors here as the file might not exist
	_ = k.Load(file.Provider("cmake-graph.toml"), toml.Parser())

	// 3. Environment Variables
	// Prefix: CMAKE_GRAPH_ (e.g., CMAKE_GRAPH_SKIP_TYPES=UTILITY)
	if err := k.Load(env.Provider("CMAKE_GRAPH_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "CMAKE_GRAPH_")), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
