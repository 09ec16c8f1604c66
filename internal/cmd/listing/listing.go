// Package listing bridges the command layer and the query pipeline: it
// parses the listing flags (--search, --filter, --sort, --group-by,
// --view, --columns) into a working state and runs the filter, sort,
// group, and stats stages over a portfolio.
package listing

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/havenhq/havenctl/internal/cmd"
	"github.com/havenhq/havenctl/internal/cmd/common"
	"github.com/havenhq/havenctl/internal/portfolio"
	"github.com/havenhq/havenctl/internal/portfolio/columns"
	"github.com/havenhq/havenctl/internal/portfolio/query"
	"github.com/havenhq/havenctl/internal/portfolio/views"
)

const (
	SearchFlagName  = "search"
	FilterFlagName  = "filter"
	SortFlagName    = "sort"
	GroupByFlagName = "group-by"
	ViewFlagName    = "view"
	ColumnsFlagName = "columns"
)

// Flags carries the raw listing flag values before validation.
type Flags struct {
	Search  string
	Filters []string
	Sort    string
	GroupBy string
	View    string
	Columns []string
}

// Register adds the listing flags to a command.
func (f *Flags) Register(c *cobra.Command) {
	c.Flags().StringVar(&f.Search, SearchFlagName, "",
		"Free-text search over address, managers, provider, postcode, and region.")
	c.Flags().StringArrayVar(&f.Filters, FilterFlagName, nil,
		"Column filter as column:operator[:value]. Repeatable; conditions combine with AND.")
	c.Flags().StringVar(&f.Sort, SortFlagName, "",
		"Sort as column[:asc|desc].")
	c.Flags().StringVar(&f.GroupBy, GroupByFlagName, "",
		"Group results by the given column.")
	c.Flags().StringVar(&f.View, ViewFlagName, "",
		"Apply a saved view by name or id before other listing flags.")
	c.Flags().StringSliceVar(&f.Columns, ColumnsFlagName, nil,
		"Visible columns, by id.")
}

// ParseCondition parses one --filter value of the form
// column:operator[:value]. The column and operator are validated against
// the registry here, unlike saved-view conditions which tolerate unknown
// columns.
func ParseCondition(s string) (query.Condition, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return query.Condition{}, fmt.Errorf("invalid filter %q: want column:operator[:value]", s)
	}

	colID := strings.TrimSpace(parts[0])
	col, ok := columns.Lookup(colID)
	if !ok {
		return query.Condition{}, fmt.Errorf("unknown filter column %q", colID)
	}
	if !col.Filterable {
		return query.Condition{}, fmt.Errorf("column %q is not filterable", colID)
	}

	op, ok := query.ParseOperator(strings.TrimSpace(parts[1]))
	if !ok {
		return query.Condition{}, fmt.Errorf("unknown filter operator %q", parts[1])
	}
	if !op.ValidFor(col.FilterType) {
		return query.Condition{}, fmt.Errorf("operator %s does not apply to %s column %q",
			op, col.FilterType, colID)
	}

	cond := query.Condition{ColumnID: colID, Operator: op}
	if !op.HasValue() {
		return cond, nil
	}
	if len(parts) < 3 || strings.TrimSpace(parts[2]) == "" {
		return query.Condition{}, fmt.Errorf("operator %s requires a value in filter %q", op, s)
	}
	cond.Value = parseValue(op, parts[2])
	return cond, nil
}

// parseValue shapes the raw value for the operator: a two-element range
// for between, a list for in and notIn, a number for isDueWithin, and a
// plain string otherwise. Evaluation handles further coercion.
func parseValue(op query.Operator, raw string) any {
	switch op {
	case query.OpBetween:
		parts := splitList(raw)
		rv := make([]any, len(parts))
		for i, p := range parts {
			rv[i] = p
		}
		return rv
	case query.OpIn, query.OpNotIn:
		return splitList(raw)
	case query.OpIsDueWithin:
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return n
		}
		return strings.TrimSpace(raw)
	default:
		return strings.TrimSpace(raw)
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	rv := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			rv = append(rv, p)
		}
	}
	return rv
}

// ParseSort parses a --sort value of the form column[:asc|desc].
func ParseSort(s string) (query.SortSpec, error) {
	colID, dir, _ := strings.Cut(s, ":")
	colID = strings.TrimSpace(colID)

	col, ok := columns.Lookup(colID)
	if !ok {
		return query.SortSpec{}, fmt.Errorf("unknown sort column %q", colID)
	}
	if !col.Sortable {
		return query.SortSpec{}, fmt.Errorf("column %q is not sortable", colID)
	}

	d, ok := query.ParseDirection(strings.TrimSpace(dir))
	if !ok {
		return query.SortSpec{}, fmt.Errorf("invalid sort direction %q: want asc or desc", dir)
	}
	return query.SortSpec{ColumnID: colID, Direction: d}, nil
}

// Resolve produces the effective working state: the saved view named by
// --view (or the manager's active view) first, then each listing flag
// overlaid on top.
func (f *Flags) Resolve(mgr *views.Manager) (views.WorkingState, error) {
	if f.View != "" {
		if err := mgr.Apply(f.View); err != nil {
			return views.WorkingState{}, err
		}
	}
	state := mgr.Working()

	if f.Search != "" {
		state.SearchText = f.Search
	}
	for _, raw := range f.Filters {
		cond, err := ParseCondition(raw)
		if err != nil {
			return views.WorkingState{}, err
		}
		state.Conditions = append(state.Conditions, cond)
	}
	if f.Sort != "" {
		spec, err := ParseSort(f.Sort)
		if err != nil {
			return views.WorkingState{}, err
		}
		state.Sort = spec
	}
	if f.GroupBy != "" {
		if _, ok := columns.Lookup(f.GroupBy); !ok {
			return views.WorkingState{}, fmt.Errorf("unknown group-by column %q", f.GroupBy)
		}
		state.GroupBy = f.GroupBy
	}
	if len(f.Columns) > 0 {
		if resolved := columns.Resolve(f.Columns); len(resolved) != len(f.Columns) {
			return views.WorkingState{}, fmt.Errorf("unknown column in --%s %v", ColumnsFlagName, f.Columns)
		}
		state.VisibleColumns = append([]string(nil), f.Columns...)
	}
	if len(state.VisibleColumns) == 0 {
		state.VisibleColumns = columns.DefaultVisible()
	}

	mgr.SetWorking(state)
	return state, nil
}

// Result is the output of one pipeline run.
type Result struct {
	State   views.WorkingState
	Masters []*portfolio.PropertyAsset
	Groups  []query.Group
	Stats   query.Stats
}

// Run executes the pipeline stages in order over the collection's
// Masters: filter, sort, group, stats.
func Run(col *portfolio.Collection, state views.WorkingState, now time.Time) Result {
	filtered := query.ApplyAt(col.Masters(), state.SearchText, state.Conditions, now)
	sorted := query.Sort(filtered, state.Sort)
	groups := query.GroupBy(sorted, state.GroupBy)

	return Result{
		State:   state,
		Masters: sorted,
		Groups:  groups,
		Stats:   query.Summarize(sorted),
	}
}

// OpenViews builds the saved-view manager for the current profile,
// restoring any persisted custom views from disk.
func OpenViews(helper cmd.Helper) (*views.Manager, *views.Store, error) {
	cfg, err := helper.GetConfig()
	if err != nil {
		return nil, nil, err
	}

	dir := filepath.Join(filepath.Dir(cfg.GetPath()), cfg.GetProfile())
	store := views.NewStore(dir)

	mgr := views.NewManager()
	saved, builtIns, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	mgr.Restore(saved, builtIns)

	// the persisted active view may have been deleted since; the default
	// built-in stays active in that case
	if active := strings.TrimSpace(cfg.GetString(common.ActiveViewConfigPath)); active != "" {
		_ = mgr.Apply(active)
	}
	return mgr, store, nil
}
