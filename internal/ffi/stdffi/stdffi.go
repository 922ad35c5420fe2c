// Package stdffi registers the handful of foreign functions every c0i
// program can assume exist without a project-specific FFI manifest:
// console output.
package stdffi

import (
	"fmt"
	"io"

	"github.com/lispcore/c0i/internal/ffi"
)

// Register installs "display" (one argument, returns it unchanged after
// printing) into registry's sync table, writing to w.
func Register(registry *ffi.Registry, w io.Writer) {
	registry.Sync["display"] = ffi.SyncFunction{
		Bound: func(v any) any {
			fmt.Fprintln(w, v)
			return v
		},
		Signature: ffi.Signature{
			ParamOptions: []ffi.DataOption{ffi.Share},
			RetOption:    []ffi.DataOption{ffi.Share},
		},
	}
}
