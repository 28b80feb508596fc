// Package geo decodes the coordinates of geo filters.
//
// The parser only checks the shape of _geoRadius and _geoBoundingBox: the
// arguments stay textual tokens. This package turns them into numbers and
// validates their ranges, reporting failures on the offending token.
package geo

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sandrolain/gofilter/pkg/types"
)

// Point is a (latitude, longitude) pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Circle is a decoded _geoRadius filter.
type Circle struct {
	Center Point
	// Radius in meters.
	Radius float64
}

// Box is a decoded _geoBoundingBox filter.
type Box struct {
	TopRight   Point
	BottomLeft Point
}

// LatitudeError reports a latitude outside [-90, 90].
type LatitudeError struct {
	Lat float64
}

func (e *LatitudeError) Error() string {
	return fmt.Sprintf("Bad latitude `%s`. Latitude must be contained between -90 and 90 degrees.", formatFloat(e.Lat))
}

// LongitudeError reports a longitude outside [-180, 180].
type LongitudeError struct {
	Lng float64
}

func (e *LongitudeError) Error() string {
	return fmt.Sprintf("Bad longitude `%s`. Longitude must be contained between -180 and 180 degrees. Hint: try using `%s` instead.",
		formatFloat(e.Lng), formatFloat(NormalizeLongitude(e.Lng)))
}

// TopBelowBottomError reports a bounding box whose top latitude is below
// its bottom latitude.
type TopBelowBottomError struct {
	Top    float64
	Bottom float64
}

func (e *TopBelowBottomError) Error() string {
	return fmt.Sprintf("The top latitude `%s` is below the bottom latitude `%s`.", formatFloat(e.Top), formatFloat(e.Bottom))
}

// NormalizeLongitude wraps lng into [-180, 180).
func NormalizeLongitude(lng float64) float64 {
	r := math.Mod(lng+180, 360)
	if r < 0 {
		r += 360
	}
	return r - 180
}

// Radius decodes a _geoRadius filter.
func Radius(g *types.GeoLowerThan) (Circle, error) {
	center, err := decodePoint(g.Point)
	if err != nil {
		return Circle{}, err
	}
	radius, err := g.Radius.ParseFiniteFloat()
	if err != nil {
		return Circle{}, err
	}
	return Circle{Center: center, Radius: radius}, nil
}

// BoundingBox decodes a _geoBoundingBox filter.
//
// Boxes crossing the antimeridian are valid: only the latitudes are
// ordered.
func BoundingBox(g *types.GeoBoundingBox) (Box, error) {
	var raw [4]float64
	tokens := [4]types.Token{g.TopRightPoint[0], g.TopRightPoint[1], g.BottomLeftPoint[0], g.BottomLeftPoint[1]}
	for i, token := range tokens {
		v, err := token.ParseFiniteFloat()
		if err != nil {
			return Box{}, err
		}
		raw[i] = v
	}

	topRight, err := checkPoint(g.TopRightPoint, raw[0], raw[1])
	if err != nil {
		return Box{}, err
	}
	bottomLeft, err := checkPoint(g.BottomLeftPoint, raw[2], raw[3])
	if err != nil {
		return Box{}, err
	}
	if topRight.Lat < bottomLeft.Lat {
		return Box{}, g.BottomLeftPoint[1].AsExternalError(&TopBelowBottomError{Top: topRight.Lat, Bottom: bottomLeft.Lat})
	}
	return Box{TopRight: topRight, BottomLeft: bottomLeft}, nil
}

// Validate decodes every geo filter of f, returning the first failure.
func Validate(f types.FilterCondition) error {
	switch f := f.(type) {
	case *types.GeoLowerThan:
		_, err := Radius(f)
		return err
	case *types.GeoBoundingBox:
		_, err := BoundingBox(f)
		return err
	case *types.Not:
		return Validate(f.Filter)
	case *types.And:
		return validateAll(f.Filters)
	case *types.Or:
		return validateAll(f.Filters)
	}
	return nil
}

func validateAll(filters []types.FilterCondition) error {
	for _, child := range filters {
		if err := Validate(child); err != nil {
			return err
		}
	}
	return nil
}

func decodePoint(point [2]types.Token) (Point, error) {
	lat, err := point[0].ParseFiniteFloat()
	if err != nil {
		return Point{}, err
	}
	lng, err := point[1].ParseFiniteFloat()
	if err != nil {
		return Point{}, err
	}
	return checkPoint(point, lat, lng)
}

func checkPoint(point [2]types.Token, lat, lng float64) (Point, error) {
	if lat < -90 || lat > 90 {
		return Point{}, point[0].AsExternalError(&LatitudeError{Lat: lat})
	}
	if lng < -180 || lng > 180 {
		return Point{}, point[1].AsExternalError(&LongitudeError{Lng: lng})
	}
	return Point{Lat: lat, Lng: lng}, nil
}

// formatFloat prints the shortest decimal form, without exponent.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
