package grpcffi_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lispcore/c0i/internal/ffi"
	"github.com/lispcore/c0i/internal/ffi/grpcffi"
)

func TestRegisterGrpcCallSignature(t *testing.T) {
	registry := ffi.NewRegistry()
	grpcffi.Register(registry)

	fn, ok := registry.Async["grpc-call"]
	require.True(t, ok)
	require.Equal(t, 3, fn.Signature.ParamCount())
	require.Len(t, fn.Signature.RetOption, 1)
}

func TestCallFailsAgainstUnreachableTarget(t *testing.T) {
	_, err := grpcffi.Call("127.0.0.1:1", "/no.such/Method", nil)
	require.Error(t, err)
}
