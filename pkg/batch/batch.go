// Package batch validates many filters concurrently.
//
// Every filter is parsed independently by a bounded group of workers. The
// outcome of each filter is kept in input order and the failures are
// aggregated into a single error.
//
// # Example
//
//	report, err := batch.Validate(ctx, filters, batch.WithConcurrency(8))
//	if err != nil {
//	    return err // context cancelled
//	}
//	if err := report.ErrorOrNil(); err != nil {
//	    fmt.Println(err)
//	}
package batch

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sandrolain/gofilter/pkg/cache"
	"github.com/sandrolain/gofilter/pkg/geo"
	"github.com/sandrolain/gofilter/pkg/parser"
	"github.com/sandrolain/gofilter/pkg/types"
)

// Option configures a validation run.
type Option func(*Options)

// Options holds the configuration of a validation run.
type Options struct {
	Concurrency int
	Logger      logrus.FieldLogger
	Cache       *cache.Cache
	Parser      []parser.CompileOption
	CheckGeo    bool
}

// WithConcurrency sets the number of filters parsed at the same time.
// Values <= 0 use GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(opts *Options) {
		opts.Concurrency = n
	}
}

// WithLogger sets the logger receiving per-filter and summary entries.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithCache parses through c. Parser options are then those of the cache.
func WithCache(c *cache.Cache) Option {
	return func(opts *Options) {
		opts.Cache = c
	}
}

// WithParserOptions forwards options to the parser.
func WithParserOptions(opts ...parser.CompileOption) Option {
	return func(o *Options) {
		o.Parser = append(o.Parser, opts...)
	}
}

// WithGeoCheck also validates the coordinates of geo filters.
func WithGeoCheck() Option {
	return func(opts *Options) {
		opts.CheckGeo = true
	}
}

// Result is the outcome of a single filter.
type Result struct {
	Index      int
	Filter     string
	Expression *types.Expression
	Err        error
}

// Report gathers the results of a validation run, in input order.
type Report struct {
	ID      string
	Results []Result
}

// Valid returns the number of filters that parsed.
func (r *Report) Valid() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Invalid returns the number of filters that failed.
func (r *Report) Invalid() int {
	return len(r.Results) - r.Valid()
}

// ErrorOrNil aggregates the failures, or returns nil when every filter
// is valid. Each failure is an *Error.
func (r *Report) ErrorOrNil() error {
	var result *multierror.Error
	for _, res := range r.Results {
		if res.Err != nil {
			result = multierror.Append(result, &Error{Index: res.Index, Err: res.Err})
		}
	}
	return result.ErrorOrNil()
}

// Error locates a failure within a batch.
type Error struct {
	Index int
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("filter #%d: %s", e.Index, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validate parses every filter. The returned error is only set when ctx is
// done before the run completes; invalid filters are reported in the
// Report.
func Validate(ctx context.Context, filters []string, opts ...Option) (*Report, error) {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}

	report := &Report{
		ID:      uuid.New().String(),
		Results: make([]Result, len(filters)),
	}
	logger := o.Logger.WithField("batch", report.ID)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Concurrency)
	for i, filter := range filters {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each goroutine owns its slot.
			res := &report.Results[i]
			res.Index = i
			res.Filter = filter
			res.Expression, res.Err = o.parse(filter)

			entry := logger.WithField("index", i)
			if res.Err != nil {
				entry.WithError(res.Err).Debug("invalid filter")
			} else {
				entry.Debug("valid filter")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"total":   len(filters),
		"valid":   report.Valid(),
		"invalid": report.Invalid(),
	}).Info("filters validated")
	return report, nil
}

func (o *Options) parse(filter string) (*types.Expression, error) {
	var (
		expr *types.Expression
		err  error
	)
	if o.Cache != nil {
		expr, err = o.Cache.GetOrParse(filter)
	} else {
		expr, err = parser.Parse(filter, o.Parser...)
	}
	if err != nil {
		return nil, err
	}
	if o.CheckGeo && !expr.IsEmpty() {
		if err := geo.Validate(expr.Root()); err != nil {
			return nil, err
		}
	}
	return expr, nil
}
