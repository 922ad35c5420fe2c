package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lispcore/c0i/internal/config"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.False(t, cfg.SkipBuiltins)
	require.Empty(t, cfg.ReservedOperators)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c0i.yaml")
	yaml := `
skip_builtins: true
dump_bytecode: true
reserved_operators:
  - my-op
  - another-op
ffi_manifest: ffi/manifest.go
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.True(t, cfg.SkipBuiltins)
	require.True(t, cfg.DumpBytecode)
	require.Equal(t, []string{"my-op", "another-op"}, cfg.ReservedOperators)
	require.Equal(t, "ffi/manifest.go", cfg.FFIManifest)
}

func TestHasSourceExt(t *testing.T) {
	require.True(t, config.HasSourceExt("foo.c0i"))
	require.True(t, config.HasSourceExt("bar.lisp"))
	require.False(t, config.HasSourceExt("baz.txt"))
}
