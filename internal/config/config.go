// Package config loads the tool configuration from an HCL file. Values may
// reference process environment variables through the env namespace, e.g.
// `include = ["${env.HOME}/themes"]`.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/pa-ulander/color-buddy/internal/schedule"
)

// Scheduler tunes the refresh scheduler's delays, in milliseconds.
type Scheduler struct {
	DebounceMS       int `hcl:"debounce_ms,optional"`
	HeavyDelayMS     int `hcl:"heavy_delay_ms,optional"`
	HeavyThresholdMS int `hcl:"heavy_threshold_ms,optional"`
}

// Scanner configures which files are scanned and which properties are
// recorded under class selectors.
type Scanner struct {
	Include         []string `hcl:"include,optional"`
	ClassProperties []string `hcl:"class_properties,optional"`
}

// Config is the decoded configuration file.
type Config struct {
	SchedulerBlock *Scheduler `hcl:"scheduler,block"`
	ScannerBlock   *Scanner   `hcl:"scanner,block"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	base := schedule.DefaultConfig()
	return &Config{
		SchedulerBlock: &Scheduler{
			DebounceMS:       int(base.Debounce / time.Millisecond),
			HeavyDelayMS:     int(base.HeavyDelay / time.Millisecond),
			HeavyThresholdMS: int(base.HeavyThreshold / time.Millisecond),
		},
		ScannerBlock: &Scanner{
			Include: []string{"**/*.css"},
		},
	}
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(path, src)
}

// Parse decodes HCL configuration source. Missing blocks fall back to the
// defaults.
func Parse(filename string, src []byte) (*Config, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing config: %s", diags.Error())
	}

	cfg := &Config{}
	diags = gohcl.DecodeBody(file.Body, evalContext(), cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decoding config: %s", diags.Error())
	}

	defaults := Default()
	if cfg.SchedulerBlock == nil {
		cfg.SchedulerBlock = defaults.SchedulerBlock
	} else {
		fillZero(&cfg.SchedulerBlock.DebounceMS, defaults.SchedulerBlock.DebounceMS)
		fillZero(&cfg.SchedulerBlock.HeavyDelayMS, defaults.SchedulerBlock.HeavyDelayMS)
		fillZero(&cfg.SchedulerBlock.HeavyThresholdMS, defaults.SchedulerBlock.HeavyThresholdMS)
	}
	if cfg.ScannerBlock == nil {
		cfg.ScannerBlock = defaults.ScannerBlock
	} else if len(cfg.ScannerBlock.Include) == 0 {
		cfg.ScannerBlock.Include = defaults.ScannerBlock.Include
	}
	return cfg, nil
}

func fillZero(target *int, fallback int) {
	if *target == 0 {
		*target = fallback
	}
}

// SchedulerConfig converts the decoded block to the scheduler's own tuning
// type. The smoothing factor is not configurable.
func (c *Config) SchedulerConfig() schedule.Config {
	base := schedule.DefaultConfig()
	b := c.SchedulerBlock
	if b == nil {
		return base
	}
	base.Debounce = time.Duration(b.DebounceMS) * time.Millisecond
	base.HeavyDelay = time.Duration(b.HeavyDelayMS) * time.Millisecond
	base.HeavyThreshold = time.Duration(b.HeavyThresholdMS) * time.Millisecond
	return base
}

// evalContext exposes the process environment as the env namespace.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && hclsyntax.ValidIdentifier(k) {
			vars[k] = cty.StringVal(v)
		}
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

// Format normalizes HCL configuration source to canonical style. It works
// even on partial or invalid input, so it is safe to run while editing.
func Format(src []byte) []byte {
	return hclwrite.Format(src)
}
