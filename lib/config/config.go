// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bocchi810/LSPosed/lib/fdhandoff"
	"github.com/bocchi810/LSPosed/lib/procident"
	"github.com/bocchi810/LSPosed/lib/readhook"
	"github.com/bocchi810/LSPosed/lib/redact"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// PathEnv names the environment variable holding the config file path.
const PathEnv = "LSPOSED_DEX2OAT_CONFIG"

// Config is the complete configuration.
type Config struct {
	Handoff HandoffConfig `yaml:"handoff" json:"handoff"`
	Filter  FilterConfig  `yaml:"filter" json:"filter"`
	Hook    HookConfig    `yaml:"hook" json:"hook"`
	Wrapper WrapperConfig `yaml:"wrapper" json:"wrapper"`
}

// HandoffConfig configures the descriptor handoff with the peer.
type HandoffConfig struct {
	// Token is the 32-character abstract socket name.
	Token string `yaml:"token" json:"token"`

	// DebugMarker in argv[0] selects the debug capability bit.
	DebugMarker string `yaml:"debug_marker" json:"debug_marker"`
}

// FilterConfig configures the odex read filter.
type FilterConfig struct {
	// TargetSuffix selects the files whose reads are filtered.
	TargetSuffix string `yaml:"target_suffix" json:"target_suffix"`

	// Marker is the flag prefix whose value is removed from filtered reads.
	Marker string `yaml:"marker" json:"marker"`

	// TrustedName is a command line that is never filtered.
	TrustedName string `yaml:"trusted_name" json:"trusted_name"`

	// TrustedPrefix and TrustedPrefixLength define a trusted family:
	// command lines starting with the first TrustedPrefixLength bytes
	// of TrustedPrefix are never filtered.
	TrustedPrefix       string `yaml:"trusted_prefix" json:"trusted_prefix"`
	TrustedPrefixLength int    `yaml:"trusted_prefix_length" json:"trusted_prefix_length"`
}

// HookConfig names the symbol the filter library redirects. Module is
// the library that defines Symbol; the import slots of every other
// loaded module are patched, and Module itself is left alone.
type HookConfig struct {
	Module string `yaml:"module" json:"module"`
	Symbol string `yaml:"symbol" json:"symbol"`
}

// WrapperConfig configures delegation to the real dex2oat.
type WrapperConfig struct {
	// Library is the shared library holding the real entry point.
	Library string `yaml:"library" json:"library"`

	// Symbol is the entry point, called as bool(int argc, char **argv).
	Symbol string `yaml:"symbol" json:"symbol"`

	// DenyArgs are substrings; any argument containing one is dropped.
	DenyArgs []string `yaml:"deny_args" json:"deny_args"`

	// LibraryPathEnv is set to the word-size default when unset.
	LibraryPathEnv string `yaml:"library_path_env" json:"library_path_env"`
	LibraryPath64  string `yaml:"library_path_64" json:"library_path_64"`
	LibraryPath32  string `yaml:"library_path_32" json:"library_path_32"`
}

// Default returns the built-in configuration.
func Default() *Config {
	trusted := procident.DefaultAllowList()
	return &Config{
		Handoff: HandoffConfig{
			Token:       fdhandoff.DefaultToken,
			DebugMarker: fdhandoff.DebugMarker,
		},
		Filter: FilterConfig{
			TargetSuffix:        readhook.DefaultSuffix,
			Marker:              redact.Marker,
			TrustedName:         trusted.Exact,
			TrustedPrefix:       trusted.Prefix,
			TrustedPrefixLength: trusted.PrefixLength,
		},
		Hook: HookConfig{
			Module: "libc.so",
			Symbol: "read",
		},
		Wrapper: WrapperConfig{
			Library:        "libart.so",
			Symbol:         "dex2oat",
			DenyArgs:       []string{redact.Marker + "0"},
			LibraryPathEnv: "LD_LIBRARY_PATH",
			LibraryPath64:  "/apex/com.android.art/lib64:/apex/com.android.os.statsd/lib64",
			LibraryPath32:  "/apex/com.android.art/lib:/apex/com.android.os.statsd/lib",
		},
	}
}

// DefaultLibraryPath returns the library path for the running word size.
func (c *Config) DefaultLibraryPath() string {
	if strconv.IntSize == 64 {
		return c.Wrapper.LibraryPath64
	}
	return c.Wrapper.LibraryPath32
}

// Load returns the configuration named by PathEnv, or Default when the
// variable is unset or empty.
func Load() (*Config, error) {
	path := os.Getenv(PathEnv)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads path over the defaults, expands variables, and
// validates the result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON(data), cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) expandVariables() {
	c.Wrapper.Library = expandVars(c.Wrapper.Library)
	c.Wrapper.LibraryPath64 = expandVars(c.Wrapper.LibraryPath64)
	c.Wrapper.LibraryPath32 = expandVars(c.Wrapper.LibraryPath32)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} from the environment.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Handoff.Token) != 32 {
		errs = append(errs, fmt.Errorf("handoff.token must be 32 characters, got %d", len(c.Handoff.Token)))
	} else if _, err := hex.DecodeString(c.Handoff.Token); err != nil {
		errs = append(errs, fmt.Errorf("handoff.token must be hexadecimal: %w", err))
	}
	if c.Filter.TargetSuffix == "" {
		errs = append(errs, errors.New("filter.target_suffix is required"))
	}
	if c.Filter.Marker == "" {
		errs = append(errs, errors.New("filter.marker is required"))
	}
	if c.Filter.TrustedPrefixLength < 0 {
		errs = append(errs, fmt.Errorf("filter.trusted_prefix_length must not be negative, got %d", c.Filter.TrustedPrefixLength))
	}
	if c.Hook.Module == "" || c.Hook.Symbol == "" {
		errs = append(errs, errors.New("hook.module and hook.symbol are required"))
	}
	if c.Wrapper.Library == "" || c.Wrapper.Symbol == "" {
		errs = append(errs, errors.New("wrapper.library and wrapper.symbol are required"))
	}
	for index, deny := range c.Wrapper.DenyArgs {
		if deny == "" {
			errs = append(errs, fmt.Errorf("wrapper.deny_args[%d] is empty and would drop every argument", index))
		}
	}
	if c.Wrapper.LibraryPathEnv == "" {
		errs = append(errs, errors.New("wrapper.library_path_env is required"))
	}

	return errors.Join(errs...)
}
