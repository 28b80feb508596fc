// Package wasmcheck runs the WASI build of the filter parser and compares
// its answers with the native parser.
//
// The WebAssembly module is the one built from cmd/wasm/wasi:
//
//	GOOS=wasip1 GOARCH=wasm go build -o gofilter.wasm ./cmd/wasm/wasi/
//
// Each request instantiates a fresh module, so a Runner is safe for
// concurrent use.
package wasmcheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"github.com/valyala/fastjson"

	"github.com/sandrolain/gofilter/pkg/astjson"
	"github.com/sandrolain/gofilter/pkg/filter"
)

// Runner executes the WASI parser module.
type Runner struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

// Load compiles the module stored at path.
func Load(ctx context.Context, path string) (*Runner, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(ctx, wasm)
}

// New compiles a WASI parser module.
func New(ctx context.Context, wasm []byte) (*Runner, error) {
	r := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("instantiate WASI: %w", err)
	}
	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("compile module: %w", err)
	}
	return &Runner{runtime: r, compiled: compiled}, nil
}

// Close releases the runtime and the compiled module.
func (r *Runner) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// Run sends request to a fresh instance of the module and returns its
// response. Exit code 1 is the module reporting an invalid filter and is
// not an error.
func (r *Runner) Run(ctx context.Context, request []byte) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithArgs("gofilter").
		WithStdin(bytes.NewReader(request)).
		WithStdout(&stdout).
		WithStderr(&stderr)

	mod, err := r.runtime.InstantiateModule(ctx, r.compiled, cfg)
	if mod != nil {
		defer mod.Close(ctx)
	}
	if err != nil {
		var exitErr *sys.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() > 1 {
			return nil, fmt.Errorf("run module: %w (stderr: %s)", err, stderr.String())
		}
	}
	return bytes.TrimSpace(stdout.Bytes()), nil
}

// Parse asks the module to parse filter.
func (r *Runner) Parse(ctx context.Context, filter string) ([]byte, error) {
	var a fastjson.Arena
	req := a.NewObject()
	req.Set("filter", a.NewString(filter))
	return r.Run(ctx, req.MarshalTo(nil))
}

// Comparison holds the answers of both parsers for a filter.
type Comparison struct {
	Filter string
	Native []byte
	Wasm   []byte
}

// Match reports whether both parsers answered the same.
func (c Comparison) Match() bool {
	return bytes.Equal(c.Native, c.Wasm)
}

// Native returns the answer of the native parser, as the module would
// render it.
func Native(s string) []byte {
	f, err := filter.FromString(s)
	if err != nil || f == nil {
		return astjson.MarshalResult(nil, err)
	}
	return astjson.MarshalResult(f.Condition(), nil)
}

// Compare parses filter with both parsers.
func (r *Runner) Compare(ctx context.Context, filter string) (Comparison, error) {
	wasm, err := r.Parse(ctx, filter)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{Filter: filter, Native: Native(filter), Wasm: wasm}, nil
}
