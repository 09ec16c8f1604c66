package query

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/havenhq/havenctl/internal/portfolio"
	"github.com/havenhq/havenctl/internal/portfolio/columns"
)

// Condition is one per-column filter clause. Value's shape depends on the
// operator: a scalar, a two-element range for between, a list for in and
// notIn, or nothing for operators that carry no operand.
type Condition struct {
	ColumnID string   `json:"columnId" yaml:"columnId"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    any      `json:"value,omitempty" yaml:"value,omitempty"`
}

// Apply filters assets by free-text search plus conditions, evaluated at
// the current wall clock. Pure: the input slice is never reordered or
// mutated, only non-matching records are removed.
func Apply(assets []*portfolio.PropertyAsset, search string, conds []Condition) []*portfolio.PropertyAsset {
	return ApplyAt(assets, search, conds, time.Now())
}

// ApplyAt is Apply with an explicit evaluation time for the relative date
// operators.
//
// Conditions combine with AND semantics only: every condition must pass.
// The saved-view model carries an and/or combinator for round-tripping
// but it is deliberately inert here.
func ApplyAt(
	assets []*portfolio.PropertyAsset,
	search string,
	conds []Condition,
	now time.Time,
) []*portfolio.PropertyAsset {
	search = strings.TrimSpace(search)

	rv := make([]*portfolio.PropertyAsset, 0, len(assets))
	for _, a := range assets {
		if !matchesSearch(a, search) {
			continue
		}
		ok := true
		for _, cond := range conds {
			if !evalCondition(a, cond, now) {
				ok = false
				break
			}
		}
		if ok {
			rv = append(rv, a)
		}
	}
	return rv
}

// searchFields are the fields consulted by free-text search.
func searchFields(a *portfolio.PropertyAsset) []string {
	return []string{
		a.Address,
		a.Provider,
		a.HousingManager,
		a.PropertyManager,
		a.Postcode,
		a.Region,
	}
}

func matchesSearch(a *portfolio.PropertyAsset, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, field := range searchFields(a) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// evalCondition evaluates one condition against one record. A condition
// referencing an unknown column is vacuously true: saved views may name
// columns that no longer exist in the registry and must not break the
// whole filter.
func evalCondition(a *portfolio.PropertyAsset, cond Condition, now time.Time) bool {
	col, ok := columns.Lookup(cond.ColumnID)
	if !ok {
		return true
	}

	value := col.Accessor(a)

	switch cond.Operator {
	case OpEquals:
		return strings.EqualFold(stringify(value), stringify(cond.Value))
	case OpNotEquals:
		return !strings.EqualFold(stringify(value), stringify(cond.Value))
	case OpContains:
		return strings.Contains(lower(value), lower(cond.Value))
	case OpNotContains:
		return !strings.Contains(lower(value), lower(cond.Value))
	case OpStartsWith:
		return strings.HasPrefix(lower(value), lower(cond.Value))
	case OpEndsWith:
		return strings.HasSuffix(lower(value), lower(cond.Value))

	case OpGreaterThan:
		return numericCompare(value, cond.Value, func(a, b float64) bool { return a > b })
	case OpGreaterThanOrEqual:
		return numericCompare(value, cond.Value, func(a, b float64) bool { return a >= b })
	case OpLessThan:
		return numericCompare(value, cond.Value, func(a, b float64) bool { return a < b })
	case OpLessThanOrEqual:
		return numericCompare(value, cond.Value, func(a, b float64) bool { return a <= b })
	case OpBetween:
		return evalBetween(value, cond.Value)

	case OpIn:
		return inList(value, cond.Value)
	case OpNotIn:
		return !inList(value, cond.Value)

	case OpIsEmpty:
		return isEmptyValue(value)
	case OpIsNotEmpty:
		return !isEmptyValue(value)

	case OpIsToday:
		return withDate(value, func(t time.Time) bool { return sameDay(t, now) })
	case OpIsPast:
		return withDate(value, func(t time.Time) bool { return t.Before(now) })
	case OpIsFuture:
		return withDate(value, func(t time.Time) bool { return t.After(now) })
	case OpIsThisWeek:
		return withDate(value, func(t time.Time) bool {
			y1, w1 := t.ISOWeek()
			y2, w2 := now.ISOWeek()
			return y1 == y2 && w1 == w2
		})
	case OpIsThisMonth:
		return withDate(value, func(t time.Time) bool {
			return t.Year() == now.Year() && t.Month() == now.Month()
		})
	case OpIsThisQuarter:
		return withDate(value, func(t time.Time) bool {
			return t.Year() == now.Year() && quarterOf(t) == quarterOf(now)
		})
	case OpIsThisYear:
		return withDate(value, func(t time.Time) bool { return t.Year() == now.Year() })
	case OpIsOverdue:
		// overdue means strictly before the start of today; a date due
		// today is not yet overdue
		return withDate(value, func(t time.Time) bool { return t.Before(startOfDay(now)) })
	case OpIsDueWithin:
		days, ok := toFloat(cond.Value)
		if !ok {
			return false
		}
		deadline := now.AddDate(0, 0, int(days))
		return withDate(value, func(t time.Time) bool {
			return !t.Before(startOfDay(now)) && !t.After(deadline)
		})

	case OpIsTrue:
		b, ok := value.(bool)
		return ok && b
	case OpIsFalse:
		b, ok := value.(bool)
		return ok && !b
	}

	// unknown operator tag: fail the record rather than admit it
	return false
}

func quarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// numericCompare coerces both sides to floats. Coercion failures yield
// NaN, every comparison against NaN is false, and the record fails the
// condition instead of raising.
func numericCompare(value, operand any, cmp func(a, b float64) bool) bool {
	lhs, ok := toFloat(value)
	if !ok {
		lhs = math.NaN()
	}
	rhs, ok := toFloat(operand)
	if !ok {
		rhs = math.NaN()
	}
	if math.IsNaN(lhs) || math.IsNaN(rhs) {
		return false
	}
	return cmp(lhs, rhs)
}

// evalBetween implements the inclusive range test for a two-element
// tuple, numeric first and dates as a fallback.
func evalBetween(value, operand any) bool {
	lo, hi, ok := rangeBounds(operand)
	if !ok {
		return false
	}

	if v, vok := toFloat(value); vok {
		loF, loOK := toFloat(lo)
		hiF, hiOK := toFloat(hi)
		if loOK && hiOK {
			return v >= loF && v <= hiF
		}
	}

	vT, vok := toTime(value)
	loT, loOK := toTime(lo)
	hiT, hiOK := toTime(hi)
	if vok && loOK && hiOK {
		return !vT.Before(loT) && !vT.After(hiT)
	}
	return false
}

func rangeBounds(operand any) (lo, hi any, ok bool) {
	switch v := operand.(type) {
	case []any:
		if len(v) == 2 {
			return v[0], v[1], true
		}
	case []string:
		if len(v) == 2 {
			return v[0], v[1], true
		}
	case []float64:
		if len(v) == 2 {
			return v[0], v[1], true
		}
	}
	return nil, nil, false
}

func inList(value, operand any) bool {
	needle := strings.ToLower(stringify(value))
	for _, item := range listItems(operand) {
		if strings.ToLower(stringify(item)) == needle {
			return true
		}
	}
	return false
}

func listItems(operand any) []any {
	switch v := operand.(type) {
	case []any:
		return v
	case []string:
		rv := make([]any, len(v))
		for i, s := range v {
			rv[i] = s
		}
		return rv
	case nil:
		return nil
	default:
		return []any{v}
	}
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case *time.Time:
		return v == nil
	default:
		return false
	}
}

func withDate(value any, test func(time.Time) bool) bool {
	t, ok := toTime(value)
	if !ok {
		return false
	}
	return test(t)
}

// stringify renders an accessor or operand value for string comparison.
// Missing values render as the empty string.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		return v.Format("2006-01-02")
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format("2006-01-02")
	default:
		if s, ok := v.(interface{ String() string }); ok {
			return s.String()
		}
		return ""
	}
}

func lower(value any) string {
	return strings.ToLower(stringify(value))
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
