package query

import "github.com/havenhq/havenctl/internal/portfolio/columns"

// Operator is the closed set of filter condition operators. Conditions
// carry operators as string tags in serialized views; evaluation switches
// exhaustively so an unknown tag can never silently pass a record.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "notEquals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "notContains"
	OpStartsWith  Operator = "startsWith"
	OpEndsWith    Operator = "endsWith"

	OpGreaterThan        Operator = "greaterThan"
	OpGreaterThanOrEqual Operator = "greaterThanOrEqual"
	OpLessThan           Operator = "lessThan"
	OpLessThanOrEqual    Operator = "lessThanOrEqual"
	OpBetween            Operator = "between"

	OpIn    Operator = "in"
	OpNotIn Operator = "notIn"

	OpIsEmpty    Operator = "isEmpty"
	OpIsNotEmpty Operator = "isNotEmpty"

	OpIsToday       Operator = "isToday"
	OpIsPast        Operator = "isPast"
	OpIsFuture      Operator = "isFuture"
	OpIsThisWeek    Operator = "isThisWeek"
	OpIsThisMonth   Operator = "isThisMonth"
	OpIsThisQuarter Operator = "isThisQuarter"
	OpIsThisYear    Operator = "isThisYear"
	OpIsOverdue     Operator = "isOverdue"
	OpIsDueWithin   Operator = "isDueWithin"

	OpIsTrue  Operator = "isTrue"
	OpIsFalse Operator = "isFalse"
)

func (op Operator) String() string {
	return string(op)
}

// HasValue reports whether the operator carries an operand. Empty-test,
// relative-date, and boolean operators evaluate against the record alone
// (isDueWithin is the exception: its value is a day-count threshold).
func (op Operator) HasValue() bool {
	switch op {
	case OpIsEmpty, OpIsNotEmpty,
		OpIsToday, OpIsPast, OpIsFuture,
		OpIsThisWeek, OpIsThisMonth, OpIsThisQuarter, OpIsThisYear,
		OpIsOverdue, OpIsTrue, OpIsFalse:
		return false
	default:
		return true
	}
}

// OperatorsFor returns the operators valid for a column's filter type.
func OperatorsFor(ft columns.FilterType) []Operator {
	switch ft {
	case columns.FilterText:
		return []Operator{
			OpEquals, OpNotEquals, OpContains, OpNotContains,
			OpStartsWith, OpEndsWith, OpIsEmpty, OpIsNotEmpty,
		}
	case columns.FilterSelect:
		return []Operator{OpEquals, OpNotEquals, OpIn, OpNotIn, OpIsEmpty, OpIsNotEmpty}
	case columns.FilterMultiSelect:
		return []Operator{OpIn, OpNotIn, OpEquals, OpNotEquals, OpIsEmpty, OpIsNotEmpty}
	case columns.FilterNumber:
		return []Operator{
			OpEquals, OpNotEquals, OpGreaterThan, OpGreaterThanOrEqual,
			OpLessThan, OpLessThanOrEqual, OpBetween, OpIsEmpty, OpIsNotEmpty,
		}
	case columns.FilterDate:
		return []Operator{
			OpEquals, OpNotEquals, OpBetween,
			OpIsToday, OpIsPast, OpIsFuture,
			OpIsThisWeek, OpIsThisMonth, OpIsThisQuarter, OpIsThisYear,
			OpIsOverdue, OpIsDueWithin, OpIsEmpty, OpIsNotEmpty,
		}
	case columns.FilterBoolean:
		return []Operator{OpIsTrue, OpIsFalse}
	default:
		return nil
	}
}

// ValidFor reports whether the operator belongs to the filter type's set.
func (op Operator) ValidFor(ft columns.FilterType) bool {
	for _, candidate := range OperatorsFor(ft) {
		if candidate == op {
			return true
		}
	}
	return false
}

// ParseOperator validates a string tag against the closed operator set.
func ParseOperator(s string) (Operator, bool) {
	op := Operator(s)
	switch op {
	case OpEquals, OpNotEquals, OpContains, OpNotContains, OpStartsWith, OpEndsWith,
		OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual, OpBetween,
		OpIn, OpNotIn, OpIsEmpty, OpIsNotEmpty,
		OpIsToday, OpIsPast, OpIsFuture, OpIsThisWeek, OpIsThisMonth,
		OpIsThisQuarter, OpIsThisYear, OpIsOverdue, OpIsDueWithin,
		OpIsTrue, OpIsFalse:
		return op, true
	default:
		return "", false
	}
}
