package cmd

import (
	"os"

	pkgErrors "github.com/pkg/errors"
	"github.com/pelletier/go-toml"

	"github.com/gofirrtl/resetinfer/pkg/resets"
)

// tomlConfig is the on-disk shape of an optional resetinfer.toml config
// file, mirroring the pack's TOML config-file pattern (ComedicChimera-chai's
// module-file loader): CLI defaults live in one small struct, unmarshaled
// directly from the file's top-level table.
type tomlConfig struct {
	AnnotationClasses *tomlAnnotationClasses `toml:"annotation-classes,omitempty"`
	OutputPath        string                 `toml:"output,omitempty"`
}

type tomlAnnotationClasses struct {
	FullAsyncReset       string `toml:"full-async-reset,omitempty"`
	IgnoreFullAsyncReset string `toml:"ignore-full-async-reset,omitempty"`
}

// Config holds the resolved CLI defaults, after applying any config file on
// top of the pass's built-in annotation-class constants.
type Config struct {
	FullAsyncResetClass       string
	IgnoreFullAsyncResetClass string
	OutputPath                string
}

// DefaultConfig returns the configuration a bare invocation runs with, with
// no config file present.
func DefaultConfig() Config {
	return Config{
		FullAsyncResetClass:       resets.FullAsyncResetClass,
		IgnoreFullAsyncResetClass: resets.IgnoreFullAsyncResetClass,
		OutputPath:                "a.reset.json",
	}
}

// LoadConfig reads path (if non-empty and present) and overlays it onto
// DefaultConfig. A missing path is not an error: the CLI falls back to
// defaults exactly as if no --config flag had been given.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return cfg, pkgErrors.Wrapf(err, "failed to read config file %#v", path)
	}

	var tc tomlConfig
	if err := toml.Unmarshal(raw, &tc); err != nil {
		return cfg, pkgErrors.Wrapf(err, "failed to parse config file %#v", path)
	}

	if tc.AnnotationClasses != nil {
		if tc.AnnotationClasses.FullAsyncReset != "" {
			cfg.FullAsyncResetClass = tc.AnnotationClasses.FullAsyncReset
		}
		if tc.AnnotationClasses.IgnoreFullAsyncReset != "" {
			cfg.IgnoreFullAsyncResetClass = tc.AnnotationClasses.IgnoreFullAsyncReset
		}
	}

	if tc.OutputPath != "" {
		cfg.OutputPath = tc.OutputPath
	}

	return cfg, nil
}
