package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/sandrolain/gofilter/pkg/astjson"
	"github.com/sandrolain/gofilter/pkg/batch"
	"github.com/sandrolain/gofilter/pkg/cache"
	"github.com/sandrolain/gofilter/pkg/filter"
	"github.com/sandrolain/gofilter/pkg/parser"
	"github.com/sandrolain/gofilter/pkg/types"
	"github.com/sandrolain/gofilter/pkg/wasmcheck"
)

func (a *application) parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse a filter and print its canonical form",
		ArgsUsage: "FILTER",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Input format: text, json (a JSON string or array of rules)",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: text, json",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "geo",
				Usage: "Validate the coordinates of geo filters",
			},
		},
		Action: a.runParse,
	}
}

func (a *application) runParse(c *cli.Context) error {
	if c.NArg() != 1 {
		return withExitCode(errors.New("parse expects exactly one filter"), exitUsage)
	}
	input, output := c.String("input"), c.String("output")
	if output != "text" && output != "json" {
		return withExitCode(fmt.Errorf("invalid output format: %s (must be text or json)", output), exitUsage)
	}

	opts := a.filterOptions(c)
	var (
		f   *filter.Filter
		err error
	)
	switch input {
	case "text":
		f, err = filter.FromString(c.Args().First(), opts...)
	case "json":
		f, err = filter.FromJSON([]byte(c.Args().First()), opts...)
	default:
		return withExitCode(fmt.Errorf("invalid input format: %s (must be text or json)", input), exitUsage)
	}
	if err == nil && f != nil && c.Bool("geo") {
		err = f.ValidateGeo()
	}

	var root types.FilterCondition
	if f != nil {
		root = f.Condition()
	}
	if output == "json" {
		fmt.Fprintln(c.App.Writer, string(astjson.MarshalResult(root, err)))
		if err != nil {
			return errInvalid
		}
		return nil
	}

	if err != nil {
		fmt.Fprintln(c.App.ErrWriter, err)
		return errInvalid
	}
	if root != nil {
		fmt.Fprintln(c.App.Writer, root)
	}
	return nil
}

func (a *application) checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate many filters concurrently",
		ArgsUsage: "[FILTER...]",
		Description: `Validates the filters given as arguments, or one filter per line read from
--file (zstd compressed files are accepted, "-" reads standard input).

Exits with code 1 when at least one filter is invalid.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "File holding one filter per line",
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"c"},
				Usage:   "Number of filters parsed at the same time (0 uses all CPUs)",
			},
			&cli.IntFlag{
				Name:  "cache-size",
				Usage: "Number of parsed filters kept in memory",
				Value: cache.DefaultCapacity,
			},
			&cli.BoolFlag{
				Name:  "geo",
				Usage: "Validate the coordinates of geo filters",
			},
		},
		Action: a.runCheck,
	}
}

func (a *application) runCheck(c *cli.Context) error {
	filters, err := a.readFilters(c)
	if err != nil {
		return err
	}

	cached := cache.New(c.Int("cache-size"),
		cache.WithLogger(a.logger),
		cache.WithParserOptions(a.parserOptions(c)...),
	)
	opts := []batch.Option{
		batch.WithConcurrency(c.Int("concurrency")),
		batch.WithLogger(a.logger),
		batch.WithCache(cached),
	}
	if c.Bool("geo") {
		opts = append(opts, batch.WithGeoCheck())
	}

	report, err := batch.Validate(c.Context, filters, opts...)
	if err != nil {
		return withStackTrace(err, "validate filters")
	}

	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Fprintf(c.App.Writer, "#%d invalid: %s\n", res.Index, indent(res.Err.Error()))
		}
	}
	stats := cached.Stats()
	a.logger.WithField("hits", stats.Hits).WithField("misses", stats.Misses).Debug("cache statistics")
	fmt.Fprintf(c.App.Writer, "%d valid, %d invalid\n", report.Valid(), report.Invalid())

	if report.ErrorOrNil() != nil {
		return errInvalid
	}
	return nil
}

func (a *application) fidsCommand() *cli.Command {
	return &cli.Command{
		Name:      "fids",
		Usage:     "Print the fields a filter refers to",
		ArgsUsage: "FILTER",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "depth",
				Usage: "Number of nesting levels inspected",
				Value: filter.DefaultMaxConditions,
			},
		},
		Action: a.runFids,
	}
}

func (a *application) runFids(c *cli.Context) error {
	if c.NArg() != 1 {
		return withExitCode(errors.New("fids expects exactly one filter"), exitUsage)
	}
	f, err := filter.FromString(c.Args().First(), a.filterOptions(c)...)
	if err != nil {
		fmt.Fprintln(c.App.ErrWriter, err)
		return errInvalid
	}
	if f == nil {
		return nil
	}
	for token := range f.Fids(c.Int("depth")) {
		fmt.Fprintln(c.App.Writer, token.Value())
	}
	return nil
}

func (a *application) wasmCompareCommand() *cli.Command {
	return &cli.Command{
		Name:      "wasm-compare",
		Usage:     "Compare the WebAssembly build of the parser with the native one",
		ArgsUsage: "[FILTER...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "wasm",
				Usage:    "Path of the wasip1 build of cmd/wasm/wasi",
				EnvVars:  []string{"GOFILTER_WASM"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "File holding one filter per line",
			},
		},
		Action: a.runWasmCompare,
	}
}

func (a *application) runWasmCompare(c *cli.Context) error {
	filters, err := a.readFilters(c)
	if err != nil {
		return err
	}

	ctx := c.Context
	runner, err := wasmcheck.Load(ctx, c.String("wasm"))
	if err != nil {
		return withStackTrace(err, "load %s", c.String("wasm"))
	}
	defer runner.Close(context.WithoutCancel(ctx))

	mismatches := 0
	for _, s := range filters {
		cmp, err := runner.Compare(ctx, s)
		if err != nil {
			return withStackTrace(err, "run %q", s)
		}
		if cmp.Match() {
			a.logger.WithField("filter", s).Debug("same answer")
			continue
		}
		mismatches++
		fmt.Fprintf(c.App.Writer, "mismatch: %s\n  native: %s\n  wasm:   %s\n", s, cmp.Native, cmp.Wasm)
	}
	fmt.Fprintf(c.App.Writer, "%d filters, %d mismatches\n", len(filters), mismatches)
	if mismatches > 0 {
		return errInvalid
	}
	return nil
}

func (a *application) readFilters(c *cli.Context) ([]string, error) {
	path := c.String("file")
	if path == "" {
		return c.Args().Slice(), nil
	}

	var r io.Reader = a.stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, withStackTrace(err, "open filters")
		}
		defer file.Close()
		r = file
	}
	filters, err := batch.ReadFilters(r)
	if err != nil {
		return nil, withStackTrace(err, "read filters from %s", path)
	}
	a.logger.WithField("count", len(filters)).Debug("filters loaded")
	return filters, nil
}

func (a *application) parserOptions(c *cli.Context) []parser.CompileOption {
	return []parser.CompileOption{parser.WithMaxDepth(c.Int("max-depth"))}
}

func (a *application) filterOptions(c *cli.Context) []filter.Option {
	return []filter.Option{filter.WithParserOptions(a.parserOptions(c)...)}
}

// indent keeps the lines of a diagnostic under its header.
func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}
