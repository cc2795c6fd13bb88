package desk

import (
	"errors"
	"fmt"
	"strings"
)

type Op string

const (
	OpEq    Op = "="
	OpNotEq Op = "!="
	OpIn    Op = "in"
	OpNotIn Op = "not in"
	OpLike  Op = "like"
)

var ErrInvalidFilter = errors.New("desk: invalid filter clause")

func (o Op) Valid() bool {
	switch o {
	case OpEq, OpNotEq, OpIn, OpNotIn, OpLike:
		return true
	}
	return false
}

// Filter is one list/link condition.
type Filter struct {
	Field string `json:"field"`
	Op    Op     `json:"op"`
	Value any    `json:"value"`
}

// FormatFilter renders the list filter clause "field,op,value".
func FormatFilter(field string, op Op, value string) string {
	return field + "," + string(op) + "," + value
}

// ParseFilter reads a "field,op,value" clause. The value may itself contain commas;
// for in / not in it is split into a list.
func ParseFilter(clause string) (Filter, error) {
	parts := strings.SplitN(clause, ",", 3)
	if len(parts) != 3 {
		return Filter{}, fmt.Errorf("%w: %q", ErrInvalidFilter, clause)
	}
	field := strings.TrimSpace(parts[0])
	op := Op(strings.ToLower(strings.TrimSpace(parts[1])))
	if field == "" || !op.Valid() {
		return Filter{}, fmt.Errorf("%w: %q", ErrInvalidFilter, clause)
	}
	f := Filter{Field: field, Op: op, Value: parts[2]}
	if op == OpIn || op == OpNotIn {
		vals := strings.Split(parts[2], ",")
		for i := range vals {
			vals[i] = strings.TrimSpace(vals[i])
		}
		f.Value = vals
	}
	return f, nil
}

// Query constrains the selectable options of a link field.
type Query struct {
	Filters []Filter `json:"filters"`
}

// Where appends a condition and returns the query for chaining.
func (q Query) Where(field string, op Op, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

// Filter returns the first condition on field.
func (q Query) Filter(field string) (Filter, bool) {
	for _, f := range q.Filters {
		if f.Field == field {
			return f, true
		}
	}
	return Filter{}, false
}
