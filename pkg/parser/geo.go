package parser

import "github.com/sandrolain/gofilter/pkg/types"

// parseGeoRadius parses a radius filter. Whitespace is allowed before the
// keyword but not after it.
//
//	geoRadius = WS* "_geoRadius(" float "," float "," float ")"
func parseGeoRadius(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	rest, _, ok := wordExact(multispace0(in), "_geoRadius")
	if !ok {
		return in, nil, mismatch(in, types.ErrGeoRadius)
	}
	rest, args, ok := parseFloatList(rest, '(', ')')
	if !ok {
		return in, nil, failure(in, types.ErrGeoRadius)
	}
	if len(args) != 3 {
		return in, nil, failure(rest, types.ErrGeoRadius)
	}
	return rest, &types.GeoLowerThan{
		Point:  [2]types.Token{args[0], args[1]},
		Radius: args[2],
	}, nil
}

// parseGeoBoundingBox parses a bounding box filter made of two points.
//
//	geoBoundingBox = WS* "_geoBoundingBox(" "[" float "," float "]" "," "[" float "," float "]" ")"
func parseGeoBoundingBox(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	rest, _, ok := wordExact(multispace0(in), "_geoBoundingBox")
	if !ok {
		return in, nil, mismatch(in, types.ErrGeoBoundingBox)
	}
	rest, ok = char(rest, '(')
	if !ok {
		return in, nil, failure(in, types.ErrGeoBoundingBox)
	}

	var points [][]types.Token
	for {
		next, point, ok := parseFloatList(multispace0(rest), '[', ']')
		if !ok {
			if len(points) == 0 {
				return in, nil, failure(in, types.ErrGeoBoundingBox)
			}
			break
		}
		points = append(points, point)
		rest = multispace0(next)

		next, _, ok = tag(rest, ",")
		if !ok {
			break
		}
		if _, _, ok := parseFloatList(multispace0(next), '[', ']'); !ok {
			break
		}
		rest = next
	}

	rest, ok = char(rest, ')')
	if !ok {
		return in, nil, failure(in, types.ErrGeoBoundingBox)
	}
	if len(points) != 2 || len(points[0]) != 2 || len(points[1]) != 2 {
		return in, nil, failure(rest, types.ErrGeoBoundingBox)
	}
	return rest, &types.GeoBoundingBox{
		TopRightPoint:   [2]types.Token{points[0][0], points[0][1]},
		BottomLeftPoint: [2]types.Token{points[1][0], points[1][1]},
	}, nil
}

// parseGeoPoint rejects _geoPoint, which is reserved.
func parseGeoPoint(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	if _, _, ok := tag(multispace0(in), "_geoPoint"); ok {
		return in, nil, failure(in, types.ErrReservedGeo).withName("_geoPoint")
	}
	return in, nil, mismatch(in, types.ErrReservedGeo).withName("_geoPoint")
}

// parseGeoDistance rejects _geoDistance, which is reserved.
func parseGeoDistance(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	if _, _, ok := tag(multispace0(in), "_geoDistance"); ok {
		return in, nil, failure(in, types.ErrReservedGeo).withName("_geoDistance")
	}
	return in, nil, mismatch(in, types.ErrReservedGeo).withName("_geoDistance")
}

// parseGeo rejects the _geo field used as a filter.
func parseGeo(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	if _, _, ok := wordExact(multispace0(in), "_geo"); ok {
		return in, nil, failure(in, types.ErrReservedGeo).withName("_geo")
	}
	return in, nil, mismatch(in, types.ErrReservedGeo).withName("_geo")
}

// parseFloatList parses open float ("," float)* close. Whitespace is allowed
// around each number.
func parseFloatList(in types.Span, open, close rune) (types.Span, []types.Token, bool) {
	rest, ok := char(in, open)
	if !ok {
		return in, nil, false
	}

	var args []types.Token
	for {
		next, number, ok := recognizeFloat(multispace0(rest))
		if !ok {
			if len(args) == 0 {
				return in, nil, false
			}
			break
		}
		args = append(args, types.NewToken(number))
		rest = multispace0(next)

		after, _, ok := tag(rest, ",")
		if !ok {
			break
		}
		if _, _, ok := recognizeFloat(multispace0(after)); !ok {
			break
		}
		rest = after
	}

	rest, ok = char(rest, close)
	if !ok {
		return in, nil, false
	}
	return rest, args, true
}

// recognizeFloat matches the text of a decimal float:
// [+-]? (digits ("." digits?)? | "." digits) ([eE] [+-]? digits)?
func recognizeFloat(in types.Span) (types.Span, types.Span, bool) {
	c := newCursor(in)
	c.accept(isSign)
	if c.acceptAll(isDigit) {
		if c.acceptRune('.') {
			c.acceptAll(isDigit)
		}
	} else if !c.acceptRune('.') || !c.acceptAll(isDigit) {
		return in, types.Span{}, false
	}

	exponent := c
	if exponent.accept(isExponent) {
		exponent.accept(isSign)
		if !exponent.acceptAll(isDigit) {
			return in, types.Span{}, false
		}
		c = exponent
	}
	return c.rest(), c.taken(), true
}

func isSign(r rune) bool {
	return r == '+' || r == '-'
}

func isExponent(r rune) bool {
	return r == 'e' || r == 'E'
}
