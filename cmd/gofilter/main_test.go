package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"

	"github.com/sandrolain/gofilter"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"gofilter"}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "", "--version")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, gofilter.Version())
}

func TestParse(t *testing.T) {
	res := runCLI(t, "", "parse", "channel = Ponce AND age > 2")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "AND[{channel} = {Ponce}, {age} > {2}, ]\n", res.stdout)
}

func TestParseBlank(t *testing.T) {
	res := runCLI(t, "", "parse", "  ")
	assert.Equal(t, 0, res.code)
	assert.Empty(t, res.stdout)
}

func TestParseInvalid(t *testing.T) {
	res := runCLI(t, "", "parse", "channel = ")
	assert.Equal(t, exitInvalid, res.code)
	assert.Equal(t, "Was expecting a value but instead got nothing.\n11:11 channel = \n", res.stderr)
}

func TestParseJSON(t *testing.T) {
	res := runCLI(t, "", "parse", "--input", "json", "--output", "json", `["a = 1", ["b = 2", "c = 3"]]`)
	require.Equal(t, 0, res.code, res.stderr)

	v, err := fastjson.Parse(res.stdout)
	require.NoError(t, err)
	assert.Equal(t, "AND[{a} = {1}, OR[{b} = {2}, {c} = {3}, ], ]", string(v.GetStringBytes("canonical")))
	assert.Equal(t, "and", string(v.GetStringBytes("ast", "type")))
}

func TestParseJSONError(t *testing.T) {
	res := runCLI(t, "", "parse", "--output", "json", "_geoPoint(1, 2)")
	assert.Equal(t, exitInvalid, res.code)

	v, err := fastjson.Parse(res.stdout)
	require.NoError(t, err)
	assert.Equal(t, "reserved_geo", string(v.GetStringBytes("error", "kind")))
}

func TestParseGeo(t *testing.T) {
	res := runCLI(t, "", "parse", "--geo", "_geoRadius(95, 0, 10)")
	assert.Equal(t, exitInvalid, res.code)
	assert.Contains(t, res.stderr, "Bad latitude `95`")
}

func TestParseUsage(t *testing.T) {
	res := runCLI(t, "", "parse")
	assert.Equal(t, exitUsage, res.code)

	res = runCLI(t, "", "parse", "--output", "yaml", "a = 1")
	assert.Equal(t, exitUsage, res.code)

	res = runCLI(t, "", "--log-level", "loud", "parse", "a = 1")
	assert.Equal(t, exitUsage, res.code)
}

func TestMaxDepth(t *testing.T) {
	res := runCLI(t, "", "--max-depth", "4", "parse", "((a = 1))")
	assert.Equal(t, exitInvalid, res.code)
	assert.Contains(t, res.stderr, "maximum depth limit")

	t.Setenv("GOFILTER_MAX_DEPTH", "4")
	res = runCLI(t, "", "parse", "((a = 1))")
	assert.Equal(t, exitInvalid, res.code)
}

func TestCheckArgs(t *testing.T) {
	res := runCLI(t, "", "check", "a = 1", "b =", "c EXISTS")
	assert.Equal(t, exitInvalid, res.code)
	assert.Contains(t, res.stdout, "#1 invalid: Was expecting a value but instead got nothing.\n    4:4 b =\n")
	assert.Contains(t, res.stdout, "2 valid, 1 invalid\n")
}

func TestCheckStdin(t *testing.T) {
	res := runCLI(t, "a = 1\n\nb IN [1, 2]\n", "check", "--file", "-")
	assert.Equal(t, 0, res.code, res.stdout)
	assert.Equal(t, "2 valid, 0 invalid\n", res.stdout)
}

func TestCheckCompressedFile(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte("a = 1\nb = 2\nc = 3\n"))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	path := filepath.Join(t.TempDir(), "filters.txt.zst")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	res := runCLI(t, "", "check", "--concurrency", "2", "--file", path)
	assert.Equal(t, 0, res.code, res.stdout)
	assert.Equal(t, "3 valid, 0 invalid\n", res.stdout)
}

func TestCheckMissingFile(t *testing.T) {
	res := runCLI(t, "", "--log-level", "debug", "check", "--file", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "Error: open filters")
	// The stack trace is logged at debug level.
	assert.Contains(t, res.stderr, "main.go")
}

func TestFids(t *testing.T) {
	res := runCLI(t, "", "fids", "a = 1 OR (b = 2 AND NOT c IN [x])")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "a\nb\nc\n", res.stdout)

	res = runCLI(t, "", "fids", "--depth", "1", "a = 1 OR b = 2")
	assert.Equal(t, 0, res.code)
	assert.Empty(t, res.stdout)
}

func TestWasmCompareMissingModule(t *testing.T) {
	res := runCLI(t, "", "wasm-compare", "--wasm", filepath.Join(t.TempDir(), "none.wasm"), "a = 1")
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "load")
}
