// Command gofilter parses and checks search filter expressions.
//
// Usage:
//
//	gofilter parse 'genre = horror AND year > 2000'
//	gofilter parse --output json '["genre = horror", ["year = 2020", "year = 2021"]]' --input json
//	gofilter check --file filters.txt.zst --concurrency 8
//	gofilter fids --depth 3 'a = 1 OR (b = 2 AND c = 3)'
//	gofilter wasm-compare --wasm gofilter.wasm 'a = 1'
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/sandrolain/gofilter"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := newApp(stdin, stdout, stderr)
	if err := app.Run(args); err != nil {
		app.logger.Debug(errorStack(err))
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(stderr, "Error: %s\n", msg)
		}
		return exitCode(err)
	}
	return 0
}

type application struct {
	*cli.App
	logger *logrus.Logger
	stdin  io.Reader
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *application {
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	a := &application{logger: logger, stdin: stdin}
	a.App = &cli.App{
		Name:      "gofilter",
		Usage:     "Parse and check search filter expressions",
		Version:   gofilter.Version(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: trace, debug, info, warn, error",
				EnvVars: []string{"GOFILTER_LOG_LEVEL"},
				Value:   "info",
			},
			&cli.IntFlag{
				Name:    "max-depth",
				Usage:   "Maximum nesting depth of a filter",
				EnvVars: []string{"GOFILTER_MAX_DEPTH"},
				Value:   200,
			},
		},
		Before: a.before,
		Commands: []*cli.Command{
			a.parseCommand(),
			a.checkCommand(),
			a.fidsCommand(),
			a.wasmCompareCommand(),
		},
		// Errors are reported by run.
		ExitErrHandler: func(*cli.Context, error) {},
	}
	return a
}

func (a *application) before(c *cli.Context) error {
	level, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return withExitCode(err, exitUsage)
	}
	a.logger.SetLevel(level)
	if c.Int("max-depth") <= 0 {
		return withExitCode(fmt.Errorf("invalid max depth %d", c.Int("max-depth")), exitUsage)
	}
	return nil
}
