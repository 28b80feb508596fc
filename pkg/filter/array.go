package filter

import "github.com/sandrolain/gofilter/pkg/types"

// Rule is one element of an array filter.
type Rule struct {
	filters []string
}

// Is returns a rule made of a single filter.
func Is(filter string) Rule {
	return Rule{filters: []string{filter}}
}

// AnyOf returns a rule matching any of filters.
func AnyOf(filters ...string) Rule {
	return Rule{filters: filters}
}

// Filters returns the alternatives of the rule.
func (r Rule) Filters() []string {
	return r.filters
}

// FromArray joins rules with AND. It returns a nil Filter when every rule
// is blank.
func FromArray(rules []Rule, opts ...Option) (*Filter, error) {
	o := newOptions(opts)

	var ands []types.FilterCondition
	for _, rule := range rules {
		var ors []types.FilterCondition
		for _, s := range rule.filters {
			condition, err := parseRule(s, o)
			if err != nil {
				return nil, err
			}
			if condition != nil {
				ors = append(ors, condition)
			}
		}

		switch len(ors) {
		case 0:
		case 1:
			ands = append(ands, ors[0])
		default:
			ands = append(ands, &types.Or{Filters: ors})
		}
	}

	switch len(ands) {
	case 0:
		return nil, nil
	case 1:
		return newFilter(ands[0], o)
	default:
		return newFilter(&types.And{Filters: ands}, o)
	}
}
