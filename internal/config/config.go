// Package config loads kgraph settings from YAML over built-in defaults.
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"coursekg/kgraph/internal/errs"
)

// DefaultFile is read from the working directory when no path is given
const DefaultFile = "kgraph.yaml"

type Config struct {
	Build   BuildConfig   `yaml:"build"`
	Ego     EgoConfig     `yaml:"ego"`
	Analyze AnalyzeConfig `yaml:"analyze"`
	Log     LogConfig     `yaml:"log"`
}

type BuildConfig struct {
	IncludeWillEnroll bool   `yaml:"include_will_enroll"`
	OutputPrefix      string `yaml:"output_prefix"`
}

type EgoConfig struct {
	OutputPrefix string `yaml:"output_prefix"`
	StudentIDs   []int  `yaml:"student_ids"`
	Hops         int    `yaml:"hops"`
	NodeSize     int    `yaml:"node_size"`
}

type AnalyzeConfig struct {
	HubThreshold int `yaml:"hub_threshold"`
	TopN         int `yaml:"top_n"`
}

type LogConfig struct {
	Mode string `yaml:"mode"`
}

func Default() *Config {
	return &Config{
		Build: BuildConfig{
			IncludeWillEnroll: false,
			OutputPrefix:      "./data/built-graph",
		},
		Ego: EgoConfig{
			OutputPrefix: "./data/visualized-graph",
			StudentIDs:   []int{0},
			Hops:         2,
			NodeSize:     200,
		},
		Analyze: AnalyzeConfig{
			HubThreshold: 10,
			TopN:         10,
		},
		Log: LogConfig{Mode: "console"},
	}
}

// Load reads path over Default(), then applies KGRAPH_* environment
// overrides and validates. An empty path means DefaultFile, which may be absent.
func Load(path string) (*Config, error) {
	const op = "load config"
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && !explicit:
	case err != nil:
		return nil, errs.Wrap(errs.IOFailure, op, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errs.Wrap(errs.UnsupportedFormat, op, err)
		}
	}

	applyEnvironment(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvironment(cfg *Config) {
	if v := os.Getenv("KGRAPH_LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}
	if v := os.Getenv("KGRAPH_INCLUDE_WILL_ENROLL"); v != "" {
		cfg.Build.IncludeWillEnroll = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("KGRAPH_HOPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ego.Hops = n
		}
	}
}

// Validate rejects values no command can run with
func (c *Config) Validate() error {
	const op = "validate config"
	if c.Build.OutputPrefix == "" {
		return errs.E(errs.InvalidArgument, op, "build.output_prefix is empty")
	}
	if c.Ego.OutputPrefix == "" {
		return errs.E(errs.InvalidArgument, op, "ego.output_prefix is empty")
	}
	if c.Ego.Hops < 0 {
		return errs.E(errs.InvalidArgument, op, "ego.hops must be >= 0, got %d", c.Ego.Hops)
	}
	if c.Ego.NodeSize <= 0 {
		return errs.E(errs.InvalidArgument, op, "ego.node_size must be > 0, got %d", c.Ego.NodeSize)
	}
	if c.Analyze.HubThreshold < 0 || c.Analyze.TopN < 0 {
		return errs.E(errs.InvalidArgument, op, "analyze thresholds must be >= 0")
	}
	return nil
}
