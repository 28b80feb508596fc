package parser_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/gofilter/pkg/parser"
	"github.com/sandrolain/gofilter/pkg/types"
)

func nestedParens(n int) string {
	return strings.Repeat("(", n) + "x = 1" + strings.Repeat(")", n)
}

func stackedNots(n int) string {
	return strings.Repeat("NOT ", n) + "x = 1"
}

func TestDepthLimitParens(t *testing.T) {
	// Each parenthesis goes through or, and, not and primary.
	assert.Equal(t, "{x} = {1}", parseFilter(t, nestedParens(49)).String())

	input := nestedParens(50)
	perr := parseError(t, input)
	assert.Equal(t, types.ErrDepthLimitReached, perr.Kind)
	assert.Equal(t, "51:106", perr.Position())
	assert.Equal(t,
		"The filter exceeded the maximum depth limit. Try rewriting the filter so that it contains fewer nested conditions.\n51:106 "+input,
		perr.Error())
}

func TestDepthLimitNots(t *testing.T) {
	assert.Equal(t, "NOT ({x} = {1})", parseFilter(t, stackedNots(197)).String())
	assert.Equal(t, "{x} = {1}", parseFilter(t, stackedNots(196)).String())

	for _, n := range []int{198, 199, 1000} {
		perr := parseError(t, stackedNots(n))
		assert.Equal(t, types.ErrDepthLimitReached, perr.Kind, "%d nots", n)
	}

	perr := parseError(t, stackedNots(199))
	assert.Equal(t, "797:802", perr.Position())
}

func TestDepthLimitHugeInput(t *testing.T) {
	perr := parseError(t, nestedParens(100_000))
	assert.Equal(t, types.ErrDepthLimitReached, perr.Kind)
}

func TestWithMaxDepth(t *testing.T) {
	_, err := parser.Parse(nestedParens(1), parser.WithMaxDepth(10))
	require.NoError(t, err)

	_, err = parser.Parse(nestedParens(2), parser.WithMaxDepth(10))
	require.Error(t, err)

	expr, err := parser.Parse(nestedParens(100), parser.WithMaxDepth(1000))
	require.NoError(t, err)
	assert.Equal(t, "{x} = {1}", expr.String())
}

func TestParseConcurrent(t *testing.T) {
	const filter = "genre = fantasy AND (price < 20 OR _geoRadius(45.2, 5.3, 2000))"
	const expected = "AND[{genre} = {fantasy}, OR[{price} < {20}, _geoRadius({45.2}, {5.3}, {2000}), ], ]"

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			expr, err := parser.Parse(filter)
			if err == nil {
				results[i] = expr.String()
			}
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, expected, got)
	}
}
