package stdffi_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lispcore/c0i/internal/ffi"
	"github.com/lispcore/c0i/internal/ffi/stdffi"
)

func TestRegisterDisplayWritesAndEchoesValue(t *testing.T) {
	registry := ffi.NewRegistry()
	var buf bytes.Buffer
	stdffi.Register(registry, &buf)

	fn, ok := registry.Sync["display"]
	require.True(t, ok)
	require.Equal(t, 1, fn.Signature.ParamCount())

	bound := fn.Bound.(func(any) any)
	result := bound("hello")
	require.Equal(t, "hello", result)
	require.Equal(t, "hello\n", buf.String())
}
