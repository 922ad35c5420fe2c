package analyzer_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/lispcore/c0i/internal/analyzer"
	"github.com/lispcore/c0i/internal/diagnostics"
	"github.com/lispcore/c0i/internal/ffi"
	"github.com/lispcore/c0i/internal/reader"
)

// loadCorpus reads the txtar fixture of small programs used by this
// package's corpus test, keeping snapshot inputs in one fixture data
// file rather than inline strings scattered across test functions.
func loadCorpus(t *testing.T) *txtar.Archive {
	t.Helper()
	data, err := os.ReadFile("testdata/programs.txtar")
	require.NoError(t, err)
	return txtar.Parse(data)
}

func TestCorpusAnalyzesOrFailsAsExpected(t *testing.T) {
	arc := loadCorpus(t)
	for _, f := range arc.Files {
		f := f
		t.Run(f.Name, func(t *testing.T) {
			program, err := reader.Parse(f.Name, string(f.Data))
			require.NoError(t, err)

			_, err = analyzer.Analyze(ffi.NewRegistry(), program)

			wantCode, wantsErr := expectedErrorCode(f.Name)
			if !wantsErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			diagErr, ok := err.(*diagnostics.Error)
			require.True(t, ok, "error must be a *diagnostics.Error, got %T", err)
			require.Equal(t, wantCode, diagErr.Code)
		})
	}
}

// expectedErrorCode parses the "*.err.<code>.c0i" naming convention used
// by testdata/programs.txtar.
func expectedErrorCode(name string) (diagnostics.Code, bool) {
	parts := strings.Split(strings.TrimSuffix(name, ".c0i"), ".")
	for i, p := range parts {
		if p == "err" && i+1 < len(parts) {
			return diagnostics.Code(parts[i+1]), true
		}
	}
	return "", false
}

func TestMutualRecursionResolvesRegardlessOfOrder(t *testing.T) {
	src := `
(define (is-even n)
  (if (= n 0) #t (is-odd (- n 1))))

(define (is-odd n)
  (if (= n 0) #f (is-even (- n 1))))
`
	program, err := reader.Parse("mutual.c0i", src)
	require.NoError(t, err)

	res, err := analyzer.Analyze(ffi.NewRegistry(), program)
	require.NoError(t, err)
	require.NotNil(t, res)
}

func TestUndefinedNameFails(t *testing.T) {
	program, err := reader.Parse("undef.c0i", "(define (f) y)")
	require.NoError(t, err)

	_, err = analyzer.Analyze(ffi.NewRegistry(), program)
	require.Error(t, err)
	diagErr, ok := err.(*diagnostics.Error)
	require.True(t, ok)
	require.Equal(t, diagnostics.ErrNameResolution, diagErr.Code)
}

func TestAssignToCaptureFails(t *testing.T) {
	src := `(define (outer n) (lambda () (set! n 1)))`
	program, err := reader.Parse("capture.c0i", src)
	require.NoError(t, err)

	_, err = analyzer.Analyze(ffi.NewRegistry(), program)
	require.Error(t, err)
	diagErr, ok := err.(*diagnostics.Error)
	require.True(t, ok)
	require.Equal(t, diagnostics.ErrNameResolution, diagErr.Code)
}

func TestFFINameResolvesOnFirstLookup(t *testing.T) {
	src := `(define (f) (display 1))`
	program, err := reader.Parse("ffi.c0i", src)
	require.NoError(t, err)

	registry := ffi.NewRegistry()
	registry.Sync["display"] = ffi.SyncFunction{
		Signature: ffi.Signature{ParamOptions: []ffi.DataOption{ffi.Share}},
	}

	res, err := analyzer.Analyze(registry, program)
	require.NoError(t, err)
	require.Len(t, res.Sync.Funcs(), 1)
}

// TestFFINameShadowsSameNamedFunction covers the per-scope lookup order:
// a registered FFI name wins over a same-named function declared
// anywhere in the lexical chain, not the other way around.
func TestFFINameShadowsSameNamedFunction(t *testing.T) {
	src := `
(define (log x) x)
(define (f) (log 1))
`
	program, err := reader.Parse("shadow.c0i", src)
	require.NoError(t, err)

	registry := ffi.NewRegistry()
	registry.Sync["log"] = ffi.SyncFunction{
		Signature: ffi.Signature{ParamOptions: []ffi.DataOption{ffi.Share}},
	}

	res, err := analyzer.Analyze(registry, program)
	require.NoError(t, err)
	require.Len(t, res.Sync.Funcs(), 1, "calling log must resolve to the FFI import, consuming its dense index")

	dump := analyzer.Dump(program, res)
	f := dump[1].(map[string]any)
	body := f["body"].([]any)
	stmt := body[0].(map[string]any)
	call := stmt["x"].(map[string]any)
	callee := call["callee"].(map[string]any)
	ref := callee["ref"].([]any)
	require.Equal(t, "FFI", ref[0], "log must resolve as FFI, not as the sibling function of the same name")
}

// TestReservedOperatorNameRejected covers config-supplied reserved
// names: binding one as a function name fails with a structural error.
func TestReservedOperatorNameRejected(t *testing.T) {
	program, err := reader.Parse("reserved.c0i", "(define (my-reserved) 1)")
	require.NoError(t, err)

	_, err = analyzer.Analyze(ffi.NewRegistry(), program, "my-reserved")
	require.Error(t, err)
	diagErr, ok := err.(*diagnostics.Error)
	require.True(t, ok)
	require.Equal(t, diagnostics.ErrStructural, diagErr.Code)
}

func TestIsBuiltinOperator(t *testing.T) {
	require.True(t, analyzer.IsBuiltinOperator("+"))
	require.True(t, analyzer.IsBuiltinOperator("if"))
	require.False(t, analyzer.IsBuiltinOperator("display"))
	require.False(t, analyzer.IsBuiltinOperator("cons"))
}
