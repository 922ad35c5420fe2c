// Package grpcffi registers a single async foreign function that issues
// a unary gRPC call and returns the protobuf-encoded reply. Connect and
// invoke are collapsed into one async FFI entry rather than two
// cooperating builtins over a long-lived connection object: every call
// dials, invokes, and closes.
//
// The payload and reply are carried as anypb.Any rather than a
// generated message type, since the core has no code-generation step of
// its own; a project wiring its own .proto-generated types would Marshal
// into an Any before calling and Unmarshal the reply's Any afterward.
package grpcffi

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/anypb"

	"github.com/lispcore/c0i/internal/ffi"
)

// callTimeout bounds how long a single unary invocation may block, since
// the compiled program has no way to cancel an in-flight FFICallAsync.
const callTimeout = 10 * time.Second

// Call dials target, invokes method with payload, and returns the
// decoded reply. Exported so tests (and an alternate registrant wiring
// a pooled ClientConn) can call it directly without going through the
// FFI registry.
func Call(target, method string, payload *anypb.Any) (*anypb.Any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	reply := new(anypb.Any)
	if err := conn.Invoke(ctx, method, payload, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// Register installs "grpc-call" (target, method, payload) -> reply into
// registry's async table. Name lookup tries sync before async, so this
// name must never also appear in the sync table.
func Register(registry *ffi.Registry) {
	registry.Async["grpc-call"] = ffi.AsyncFunction{
		Bound: func(target, method string, payload *anypb.Any) (*anypb.Any, error) {
			return Call(target, method, payload)
		},
		Signature: ffi.Signature{
			ParamOptions: []ffi.DataOption{ffi.Copy, ffi.Copy, ffi.Move},
			RetOption:    []ffi.DataOption{ffi.Move},
		},
	}
}
