//go:build wasip1

// Command gofilter-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin, single JSON object on stdout.
//
//	stdin:  { "filter": "<filter>" | [<rules>], "maxDepth": <int, optional> }
//	stdout: { "canonical": "<rendering>", "ast": <tree> }  on success
//	        { "error": { "kind": ..., "message": ... } }    on failure (exit code 1)
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o gofilter.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"filter":"genre = horror"}' | wasmtime gofilter.wasm
package main

import (
	"errors"
	"io"
	"os"

	"github.com/valyala/fastjson"

	"github.com/sandrolain/gofilter/pkg/astjson"
	"github.com/sandrolain/gofilter/pkg/filter"
	"github.com/sandrolain/gofilter/pkg/parser"
	"github.com/sandrolain/gofilter/pkg/types"
)

func writeResponse(out []byte, exitCode int) {
	_, _ = os.Stdout.Write(append(out, '\n'))
	os.Exit(exitCode)
}

func main() {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		writeResponse(astjson.MarshalResult(nil, err), 1)
	}
	req, err := fastjson.ParseBytes(data)
	if err != nil {
		writeResponse(astjson.MarshalResult(nil, errors.New("invalid request JSON: "+err.Error())), 1)
	}

	var opts []filter.Option
	if req.Exists("maxDepth") {
		opts = append(opts, filter.WithParserOptions(parser.WithMaxDepth(req.GetInt("maxDepth"))))
	}

	var root types.FilterCondition
	f, err := filter.FromValue(req.Get("filter"), opts...)
	if err != nil {
		writeResponse(astjson.MarshalResult(nil, err), 1)
	}
	if f != nil {
		root = f.Condition()
	}
	writeResponse(astjson.MarshalResult(root, nil), 0)
}
