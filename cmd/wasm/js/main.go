//go:build js && wasm

// Command gofilter-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `gofilter` object with the following API:
//
//	gofilter.version()          → string
//	gofilter.parse(filter)      → resultJSON
//	gofilter.parseJSON(json)    → resultJSON  (a JSON string or array of rules)
//	gofilter.fids(filter)       → [string]    (throws on error)
//
// resultJSON is {"canonical": ..., "ast": ...} or {"error": {...}}, the same
// answer the WASI build writes on stdout.
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o gofilter.wasm ./cmd/wasm/js/
package main

import (
	"fmt"
	"syscall/js"

	"github.com/sandrolain/gofilter"
	"github.com/sandrolain/gofilter/pkg/astjson"
	"github.com/sandrolain/gofilter/pkg/filter"
	"github.com/sandrolain/gofilter/pkg/types"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	js.Global().Get("Error").New(msg)
	panic(msg)
}

func result(f *filter.Filter, err error) string {
	var root types.FilterCondition
	if err == nil && f != nil {
		root = f.Condition()
	}
	return string(astjson.MarshalResult(root, err))
}

// jsParse implements gofilter.parse(filter) → resultJSON.
func jsParse(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("gofilter.parse requires 1 argument: filter (string)")
	}
	return result(filter.FromString(args[0].String()))
}

// jsParseJSON implements gofilter.parseJSON(json) → resultJSON.
func jsParseJSON(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("gofilter.parseJSON requires 1 argument: filter (JSON string)")
	}
	return result(gofilter.ParseJSON([]byte(args[0].String())))
}

// jsFids implements gofilter.fids(filter) → [string].
func jsFids(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("gofilter.fids requires 1 argument: filter (string)")
	}
	expr, err := gofilter.Parse(args[0].String())
	if err != nil {
		jsThrow(fmt.Sprintf("gofilter.fids: %v", err))
	}
	var fids []interface{}
	for token := range expr.Fids(filter.DefaultMaxConditions) {
		fids = append(fids, token.Value())
	}
	return js.ValueOf(fids)
}

func main() {
	api := map[string]interface{}{
		"parse":     js.FuncOf(jsParse),
		"parseJSON": js.FuncOf(jsParseJSON),
		"fids":      js.FuncOf(jsFids),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return gofilter.Version()
		}),
	}
	js.Global().Set("gofilter", js.ValueOf(api))

	// Block forever: the JS event loop owns execution from here.
	select {}
}
