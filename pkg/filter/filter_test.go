package filter_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/gofilter/pkg/filter"
	"github.com/sandrolain/gofilter/pkg/parser"
	"github.com/sandrolain/gofilter/pkg/types"
)

func TestFromString(t *testing.T) {
	f, err := filter.FromString("channel = Ponce AND NOT dog IN [a, b]")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "AND[{channel} = {Ponce}, NOT ({dog} IN[{a}, {b}, ]), ]", f.String())

	f, err = filter.FromString("   ")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestFromStringError(t *testing.T) {
	_, err := filter.FromString("channel = ")

	var ferr *types.Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, types.ErrExpectedValue, ferr.Kind)
}

func TestFromArray(t *testing.T) {
	tests := []struct {
		name  string
		rules []filter.Rule
		want  string
	}{
		{
			name:  "single rule",
			rules: []filter.Rule{filter.Is("channel = Ponce")},
			want:  "{channel} = {Ponce}",
		},
		{
			name:  "single group",
			rules: []filter.Rule{filter.AnyOf("channel = Ponce", "dog = bernese")},
			want:  "OR[{channel} = {Ponce}, {dog} = {bernese}, ]",
		},
		{
			name: "and of rules",
			rules: []filter.Rule{
				filter.Is("channel = Ponce"),
				filter.AnyOf("dog = bernese", "cat = kitten"),
				filter.AnyOf("age > 2"),
			},
			want: "AND[{channel} = {Ponce}, OR[{dog} = {bernese}, {cat} = {kitten}, ], {age} > {2}, ]",
		},
		{
			name: "blank rules are skipped",
			rules: []filter.Rule{
				filter.Is(" "),
				filter.AnyOf(),
				filter.AnyOf("", "channel = Ponce"),
			},
			want: "{channel} = {Ponce}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := filter.FromArray(tt.rules)
			require.NoError(t, err)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.String())
		})
	}
}

func TestFromArrayEmpty(t *testing.T) {
	f, err := filter.FromArray(nil)
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = filter.FromArray([]filter.Rule{filter.AnyOf(), filter.Is("")})
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestFromArrayError(t *testing.T) {
	_, err := filter.FromArray([]filter.Rule{
		filter.Is("channel = Ponce"),
		filter.AnyOf("dog = bernese", "cat ="),
	})

	var ferr *types.Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "cat =", ferr.Span.Input())
}

func TestArrayMatchesString(t *testing.T) {
	fromArray, err := filter.FromArray([]filter.Rule{
		filter.Is("channel = Ponce"),
		filter.AnyOf("dog = bernese", "cat = kitten"),
	})
	require.NoError(t, err)

	fromString, err := filter.FromString("channel = Ponce AND (dog = bernese OR cat = kitten)")
	require.NoError(t, err)

	assert.True(t, fromArray.Equal(fromString))
	assert.Equal(t, fromString.String(), fromArray.String())
}

func TestMaxConditions(t *testing.T) {
	_, err := filter.FromString("a = 1 AND (b = 2 OR c = 3)", filter.WithMaxConditions(2))

	var ferr *types.Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, types.ErrExternal, ferr.Kind)
	assert.Equal(t, "Too many filter conditions, can't process more than 2 filters.", ferr.Message())
	assert.Equal(t, "b", ferr.Span.Fragment())

	var tooDeep *filter.TooDeepError
	require.True(t, errors.As(err, &tooDeep))
	assert.Equal(t, 2, tooDeep.Max)

	f, err := filter.FromString("a = 1 AND b = 2", filter.WithMaxConditions(2))
	require.NoError(t, err)
	assert.NotNil(t, f)
}

func TestMaxConditionsDefault(t *testing.T) {
	var b strings.Builder
	for range 1000 {
		b.WriteString("a = 1 AND ")
	}
	b.WriteString("a = 1")

	f, err := filter.FromString(b.String())
	require.NoError(t, err)
	assert.Len(t, f.Condition().(*types.And).Filters, 1001)
}

func TestParserOptions(t *testing.T) {
	_, err := filter.FromString("((a = 1))", filter.WithParserOptions(parser.WithMaxDepth(4)))

	var ferr *types.Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, types.ErrDepthLimitReached, ferr.Kind)
}

func TestFilterAccessors(t *testing.T) {
	f, err := filter.FromString("a = 1 OR (b CONTAINS x AND _geoRadius(1, 2, 3))")
	require.NoError(t, err)

	var fids []string
	for token := range f.Fids(3) {
		fids = append(fids, token.Value())
	}
	assert.Equal(t, []string{"a", "b"}, fids)

	keyword, ok := f.UseContainsOperator()
	require.True(t, ok)
	assert.Equal(t, "CONTAINS", keyword.Lexeme())

	assert.NoError(t, f.ValidateGeo())

	f, err = filter.FromString("_geoRadius(1, 200, 3)")
	require.NoError(t, err)
	assert.ErrorContains(t, f.ValidateGeo(), "Bad longitude `200`")
}

func TestFilterEqualNil(t *testing.T) {
	var a, b *filter.Filter
	assert.True(t, a.Equal(b))

	f, err := filter.FromString("a = 1")
	require.NoError(t, err)
	assert.False(t, f.Equal(nil))
}

func TestRuleFilters(t *testing.T) {
	assert.Equal(t, []string{"a = 1"}, filter.Is("a = 1").Filters())
	assert.True(t, slices.Equal([]string{"a", "b"}, filter.AnyOf("a", "b").Filters()))
}
