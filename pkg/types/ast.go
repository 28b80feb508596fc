package types

import "strings"

// FilterCondition is a node of the filter AST. The set of variants is
// closed: Not, FieldCondition, In, Or, And, GeoLowerThan and GeoBoundingBox.
//
// Every Token of a tree points into the filter source it was parsed from.
// Trees are never modified after the parser returns them.
type FilterCondition interface {
	isFilterCondition()
	String() string
}

// Not negates Filter. The parser never nests a Not directly in another Not.
type Not struct {
	Filter FilterCondition
}

// FieldCondition applies Op to the field named by Fid.
type FieldCondition struct {
	Fid Token
	Op  Condition
}

// In matches documents whose Fid value is one of Els. Els may be empty.
type In struct {
	Fid Token
	Els []Token
}

// Or holds at least two alternatives.
type Or struct {
	Filters []FilterCondition
}

// And holds at least two conjuncts.
type And struct {
	Filters []FilterCondition
}

// GeoLowerThan matches documents within Radius meters of Point
// (latitude, longitude).
type GeoLowerThan struct {
	Point  [2]Token
	Radius Token
}

// GeoBoundingBox matches documents inside the box delimited by its top
// right and bottom left corners, each a (latitude, longitude) pair.
type GeoBoundingBox struct {
	TopRightPoint   [2]Token
	BottomLeftPoint [2]Token
}

func (*Not) isFilterCondition()            {}
func (*FieldCondition) isFilterCondition() {}
func (*In) isFilterCondition()             {}
func (*Or) isFilterCondition()             {}
func (*And) isFilterCondition()            {}
func (*GeoLowerThan) isFilterCondition()   {}
func (*GeoBoundingBox) isFilterCondition() {}

// String renders NOT (filter).
func (n *Not) String() string {
	return "NOT (" + n.Filter.String() + ")"
}

// String renders {fid} followed by the operator.
func (c *FieldCondition) String() string {
	return c.Fid.String() + " " + c.Op.String()
}

// String renders {fid} IN[{a}, {b}, ].
func (in *In) String() string {
	var b strings.Builder
	b.WriteString(in.Fid.String())
	b.WriteString(" IN[")
	for _, el := range in.Els {
		b.WriteString(el.String())
		b.WriteString(", ")
	}
	b.WriteByte(']')
	return b.String()
}

// String renders OR[a, b, ].
func (o *Or) String() string {
	return writeList("OR", o.Filters)
}

// String renders AND[a, b, ].
func (a *And) String() string {
	return writeList("AND", a.Filters)
}

func (g *GeoLowerThan) String() string {
	return "_geoRadius(" + g.Point[0].String() + ", " + g.Point[1].String() + ", " + g.Radius.String() + ")"
}

func (g *GeoBoundingBox) String() string {
	return "_geoBoundingBox([" + g.TopRightPoint[0].String() + ", " + g.TopRightPoint[1].String() +
		"], [" + g.BottomLeftPoint[0].String() + ", " + g.BottomLeftPoint[1].String() + "])"
}

func writeList(name string, filters []FilterCondition) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('[')
	for _, f := range filters {
		b.WriteString(f.String())
		b.WriteString(", ")
	}
	b.WriteByte(']')
	return b.String()
}
