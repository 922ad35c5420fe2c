// Package config loads the toolchain's optional c0i.yaml file: whether
// to prepend the builtin preamble, which operator names are reserved
// beyond the compiled-in set, and where to find an FFI manifest. A
// single yaml.v3-backed struct with one yaml tag per field, loaded
// once at startup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the current c0i toolchain version.
var Version = "0.1.0"

const DefaultSourceExt = ".c0i"

// SourceFileExtensions are the file extensions the loader recognizes.
var SourceFileExtensions = []string{".c0i", ".lisp", ".scm"}

// HasSourceExt reports whether path ends with a recognized extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// Config is the optional c0i.yaml toolchain configuration, loaded once
// at startup by cmd/c0ic.
type Config struct {
	// SkipBuiltins mirrors compiler.Options.SkipBuiltins: when true, the
	// loader does not prepend the builtin preamble source before
	// parsing a file.
	SkipBuiltins bool `yaml:"skip_builtins,omitempty"`

	// DumpBytecode mirrors compiler.Options.DumpBytecode as a config
	// default, overridable by the -dump-bytecode flag.
	DumpBytecode bool `yaml:"dump_bytecode,omitempty"`

	// ReservedOperators lists toolchain-local names that, like the
	// compiled-in builtin operators, a program may not bind as a
	// variable, parameter, or function name. They are not added to
	// analyzer.IsBuiltinOperator and still go through ordinary scope
	// lookup when referenced.
	ReservedOperators []string `yaml:"reserved_operators,omitempty"`

	// FFIManifest is a path (relative to the config file) to a
	// generated Go source file registering sync/async FFI bindings.
	// The manifest format itself is glue-layer and out of this core's
	// scope; only the path is threaded through.
	FFIManifest string `yaml:"ffi_manifest,omitempty"`
}

// Load reads and parses path. A missing file is not an error — it
// returns the zero Config, since c0i.yaml itself is optional.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}
