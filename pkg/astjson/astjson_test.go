package astjson_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"

	"github.com/sandrolain/gofilter/pkg/astjson"
	"github.com/sandrolain/gofilter/pkg/parser"
	"github.com/sandrolain/gofilter/pkg/types"
)

func marshal(t *testing.T, filter string) *fastjson.Value {
	t.Helper()
	root, err := parser.ParseCondition(filter)
	require.NoError(t, err)
	v, err := fastjson.ParseBytes(astjson.Marshal(root))
	require.NoError(t, err)
	return v
}

func TestMarshalCondition(t *testing.T) {
	root, err := parser.ParseCondition("channel = Ponce")
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"condition","fid":{"value":"channel","start":0,"end":7},"op":{"type":"=","value":{"value":"Ponce","start":10,"end":15}}}`,
		string(astjson.Marshal(root)))
}

func TestMarshalNil(t *testing.T) {
	assert.Equal(t, "null", string(astjson.Marshal(nil)))
}

func TestMarshalTree(t *testing.T) {
	v := marshal(t, "a = 1 OR NOT (b IN [x, 'y z'] AND c 1 TO 5)")

	assert.Equal(t, "or", string(v.GetStringBytes("type")))
	filters := v.GetArray("filters")
	require.Len(t, filters, 2)

	not := filters[1]
	assert.Equal(t, "not", string(not.GetStringBytes("type")))
	and := not.Get("filter")
	assert.Equal(t, "and", string(and.GetStringBytes("type")))

	in := and.Get("filters", "0")
	assert.Equal(t, "in", string(in.GetStringBytes("type")))
	assert.Equal(t, "b", string(in.GetStringBytes("fid", "value")))
	assert.Equal(t, "y z", string(in.GetStringBytes("values", "1", "value")))

	between := and.Get("filters", "1", "op")
	assert.Equal(t, "to", string(between.GetStringBytes("type")))
	assert.Equal(t, "1", string(between.GetStringBytes("from", "value")))
	assert.Equal(t, "5", string(between.GetStringBytes("to", "value")))
}

func TestMarshalOperators(t *testing.T) {
	tests := []struct {
		filter string
		op     string
	}{
		{"a > 1", ">"},
		{"a >= 1", ">="},
		{"a != 1", "!="},
		{"a < 1", "<"},
		{"a <= 1", "<="},
		{"a IS NULL", "null"},
		{"a IS EMPTY", "empty"},
		{"a EXISTS", "exists"},
		{"a CONTAINS b", "contains"},
		{"a STARTS WITH b", "startsWith"},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			v := marshal(t, tt.filter)
			assert.Equal(t, tt.op, string(v.GetStringBytes("op", "type")))
		})
	}
}

func TestMarshalNegatedOperator(t *testing.T) {
	v := marshal(t, "a NOT STARTS WITH b")
	assert.Equal(t, "not", string(v.GetStringBytes("type")))
	op := v.Get("filter", "op")
	assert.Equal(t, "startsWith", string(op.GetStringBytes("type")))
	assert.Equal(t, "STARTS", string(op.GetStringBytes("keyword", "value")))
	assert.Equal(t, 6, op.GetInt("keyword", "start"))
}

func TestMarshalGeo(t *testing.T) {
	v := marshal(t, "_geoRadius(12, 13, 14)")
	assert.Equal(t, "geoRadius", string(v.GetStringBytes("type")))
	assert.Equal(t, "13", string(v.GetStringBytes("point", "1", "value")))
	assert.Equal(t, "14", string(v.GetStringBytes("radius", "value")))

	v = marshal(t, "_geoBoundingBox([1, 2], [3, 4])")
	assert.Equal(t, "geoBoundingBox", string(v.GetStringBytes("type")))
	assert.Equal(t, "2", string(v.GetStringBytes("topRight", "1", "value")))
	assert.Equal(t, "3", string(v.GetStringBytes("bottomLeft", "0", "value")))
}

func TestMarshalDecodedToken(t *testing.T) {
	v := marshal(t, `title = "a \"b\""`)
	token := v.Get("op", "value")
	assert.Equal(t, `a "b"`, string(token.GetStringBytes("value")))
	assert.Equal(t, 9, token.GetInt("start"))
	assert.Equal(t, 16, token.GetInt("end"))
}

func TestMarshalError(t *testing.T) {
	_, err := parser.Parse("channel = ")
	var ferr *types.Error
	require.True(t, errors.As(err, &ferr))

	v, perr := fastjson.ParseBytes(astjson.MarshalError(ferr))
	require.NoError(t, perr)
	assert.Equal(t, string(types.ErrExpectedValue), string(v.GetStringBytes("kind")))
	assert.Equal(t, ferr.Message(), string(v.GetStringBytes("message")))
	assert.Equal(t, ferr.Position(), string(v.GetStringBytes("position")))
	assert.Equal(t, 1, v.GetInt("line"))
}

func TestMarshalResult(t *testing.T) {
	root, err := parser.ParseCondition("a = 1")
	require.NoError(t, err)

	v, perr := fastjson.ParseBytes(astjson.MarshalResult(root, nil))
	require.NoError(t, perr)
	assert.Equal(t, "{a} = {1}", string(v.GetStringBytes("canonical")))
	assert.Equal(t, "condition", string(v.GetStringBytes("ast", "type")))
	assert.Nil(t, v.Get("error"))

	assert.JSONEq(t, `{"canonical":"","ast":null}`, string(astjson.MarshalResult(nil, nil)))

	_, err = parser.ParseCondition("a = 1 b")
	v, perr = fastjson.ParseBytes(astjson.MarshalResult(nil, err))
	require.NoError(t, perr)
	assert.Equal(t, string(types.ErrExpectedEOF), string(v.GetStringBytes("error", "kind")))

	assert.JSONEq(t, `{"error":{"message":"boom"}}`, string(astjson.MarshalResult(nil, errors.New("boom"))))
}
