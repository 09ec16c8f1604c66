// Package tableview renders property listings: an interactive
// full-screen browser when stdout is a terminal, and a static aligned
// table otherwise. The interactive browser drives the same pipeline as
// the non-interactive commands, so search, grouping, and selection
// behave identically in both.
package tableview

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/term"

	cmdpkg "github.com/havenhq/havenctl/internal/cmd"
	cmdCommon "github.com/havenhq/havenctl/internal/cmd/common"
	"github.com/havenhq/havenctl/internal/cmd/listing"
	jqoutput "github.com/havenhq/havenctl/internal/cmd/output/jq"
	"github.com/havenhq/havenctl/internal/iostreams"
	"github.com/havenhq/havenctl/internal/log"
	"github.com/havenhq/havenctl/internal/portfolio"
	"github.com/havenhq/havenctl/internal/portfolio/columns"
	"github.com/havenhq/havenctl/internal/portfolio/query"
	"github.com/havenhq/havenctl/internal/portfolio/selection"
	"github.com/havenhq/havenctl/internal/portfolio/views"
	"github.com/havenhq/havenctl/internal/theme"
	"github.com/segmentio/cli"
)

// Browser is the configuration for one interactive listing session.
type Browser struct {
	Collection *portfolio.Collection
	Manager    *views.Manager
	Title      string
	Now        time.Time
}

// Run starts the interactive browser, or prints a static listing when
// the output stream is not a terminal.
func (b Browser) Run(streams *iostreams.IOStreams) error {
	if b.Now.IsZero() {
		b.Now = time.Now()
	}

	width, height, isTTY := resolveTerminal(streams.Out)
	if !isTTY {
		return b.renderStatic(streams.Out)
	}

	// Mirrored error logs would tear the alt screen.
	log.DisableErrorMirroring()
	defer log.EnableErrorMirroring()

	m := newModel(b, width, height)
	program := tea.NewProgram(m,
		tea.WithInput(streams.In),
		tea.WithOutput(streams.Out),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}

func (b Browser) renderStatic(out io.Writer) error {
	state := b.Manager.Working()
	res := listing.Run(b.Collection, state, b.Now)
	cols := columns.Resolve(state.VisibleColumns)

	headers := make([]string, 0, len(cols))
	for _, c := range cols {
		headers = append(headers, c.Label)
	}

	var rows [][]string
	for _, g := range res.Groups {
		if g.Value != "" {
			rows = append(rows, []string{fmt.Sprintf("%s (%d)", g.Value, g.Count())})
		}
		for _, a := range g.Items {
			rows = append(rows, assetCells(cols, a, 0))
		}
	}
	for _, orphan := range b.Collection.Orphans() {
		rows = append(rows, assetCells(cols, orphan, 1))
	}

	return StaticTable(out, b.Title, headers, rows, statsLine(res.Stats))
}

// maxCellWidth caps one column of the static table so a single long
// address cannot push the rest of the row off screen.
const maxCellWidth = 40

// StaticTable writes an aligned plain-text table. Rows shorter than the
// header row span the full width, which is how group headers render.
func StaticTable(out io.Writer, title string, headers []string, rows [][]string, footer string) error {
	widths := columnWidths(headers, rows)

	var sb strings.Builder
	if title != "" {
		sb.WriteString(title)
		sb.WriteString("\n")
	}

	writeCells := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			cell = truncate.StringWithTail(cell, maxCellWidth, "…")
			sb.WriteString(cell)
			if len(cells) > 1 && i < len(widths) {
				sb.WriteString(strings.Repeat(" ", max(0, widths[i]-displayWidth(cell))))
			}
		}
		sb.WriteString("\n")
	}

	writeCells(headers)
	for _, row := range rows {
		writeCells(row)
	}
	if footer != "" {
		sb.WriteString(footer)
		sb.WriteString("\n")
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range rows {
		if len(row) < len(headers) {
			continue
		}
		for i := range headers {
			if w := displayWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxCellWidth)
	}
	return widths
}

// displayWidth measures a cell as rendered, ignoring any escape
// sequences carried in from styled content.
func displayWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

func assetCells(cols []columns.Descriptor, a *portfolio.PropertyAsset, depth int) []string {
	cells := make([]string, 0, len(cols))
	for i, c := range cols {
		text := cellText(c.Accessor(a))
		if i == 0 && depth > 0 {
			text = strings.Repeat("  ", depth) + "└ " + text
		}
		cells = append(cells, text)
	}
	return cells
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case int:
		return fmt.Sprintf("%d", x)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", x), "0"), ".")
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format("2006-01-02")
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", x)
	}
}

func statsLine(s query.Stats) string {
	return fmt.Sprintf("%d properties · %d units · %d void · %.1f%% occupied · £%.2f/mo",
		s.FilteredCount, s.TotalUnits, s.VoidCount, s.OccupancyRate, s.TotalRent)
}

func resolveTerminal(out io.Writer) (width, height int, isTTY bool) {
	type fdProvider interface {
		Fd() uintptr
	}
	f, ok := out.(fdProvider)
	if !ok {
		return 0, 0, false
	}
	fd := f.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return 0, 0, false
	}
	w, h, err := term.GetSize(int(fd))
	if err != nil {
		return 80, 24, true
	}
	return w, h, true
}

// RenderForFormat renders a listing according to the requested output
// format: the interactive browser for interactive text output, the
// printer for everything else, with jq filtering applied to the raw
// payload for json and yaml.
func RenderForFormat(
	helper cmdpkg.Helper,
	interactive bool,
	outType cmdCommon.OutputFormat,
	printer cli.PrintFlusher,
	streams *iostreams.IOStreams,
	browser *Browser,
	display any,
	raw any,
) error {
	if helper != nil {
		cfg, err := helper.GetConfig()
		if err != nil {
			return err
		}

		settings, err := jqoutput.ResolveSettings(helper.GetCmd(), cfg)
		if err != nil {
			return err
		}

		if err := jqoutput.ValidateOutputFormat(outType, settings); err != nil {
			return err
		}

		if jqoutput.HasFilter(settings) {
			if interactive {
				return &cmdpkg.ConfigurationError{
					Err: fmt.Errorf(
						"--%s is not supported for interactive output; use --output json or --output yaml",
						jqoutput.FlagName,
					),
				}
			}

			filteredRaw, handled, err := jqoutput.ApplyToRaw(raw, outType, settings, streams.Out)
			if err != nil {
				return cmdpkg.PrepareExecutionErrorWithHelper(helper, "jq filter failed", err)
			}
			if handled {
				return nil
			}
			raw = filteredRaw
		}
	}

	if interactive && browser != nil && outType == cmdCommon.TEXT {
		return browser.Run(streams)
	}

	switch outType {
	case cmdCommon.TEXT:
		if browser != nil {
			return browser.renderStatic(streams.Out)
		}
		if printer != nil {
			printer.Print(display)
		}
		return nil
	case cmdCommon.JSON, cmdCommon.YAML:
		if printer != nil {
			printer.Print(raw)
		}
		return nil
	default:
		return fmt.Errorf("tableview: unsupported output format %s", outType.String())
	}
}

var clipboardWriteFn = clipboard.WriteAll

type model struct {
	browser Browser
	palette theme.Palette

	tbl    table.Model
	search textinput.Model

	state    views.WorkingState
	result   listing.Result
	rows     []query.Row
	sel      *selection.Set
	expanded map[string]bool

	searching bool
	status    string
	width     int
	height    int
}

func newModel(b Browser, width, height int) *model {
	p := theme.Current()

	search := textinput.New()
	search.Placeholder = "search address, manager, provider, postcode, region"
	search.Prompt = "/ "
	search.CharLimit = 120

	m := &model{
		browser:  b,
		palette:  p,
		search:   search,
		sel:      selection.NewSet(b.Collection),
		expanded: make(map[string]bool),
		width:    width,
		height:   height,
	}
	m.state = b.Manager.Working()
	m.search.SetValue(m.state.SearchText)
	m.refresh()
	return m
}

// refresh re-runs the pipeline and rebuilds the visible rows. Called on
// every state change; the dataset is in memory so this is cheap.
func (m *model) refresh() {
	m.state.SearchText = m.search.Value()
	m.result = listing.Run(m.browser.Collection, m.state, m.browser.Now)
	m.rows = query.MaterializeRows(m.result.Groups, m.browser.Collection, m.expanded)
	m.rebuildTable()
}

func (m *model) rebuildTable() {
	cols := columns.Resolve(m.state.VisibleColumns)

	tableCols := make([]table.Column, 0, len(cols)+1)
	tableCols = append(tableCols, table.Column{Title: " ", Width: 2})
	available := m.width - 4 - 2
	per := 14
	if len(cols) > 0 && available > 0 {
		per = max(8, available/len(cols))
	}
	for _, c := range cols {
		tableCols = append(tableCols, table.Column{Title: c.Label, Width: per})
	}

	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		rows = append(rows, m.tableRow(cols, r))
	}

	cursor := 0
	if m.tbl.Cursor() > 0 && m.tbl.Cursor() < len(rows) {
		cursor = m.tbl.Cursor()
	}

	tbl := table.New(
		table.WithColumns(tableCols),
		table.WithRows(rows),
		table.WithFocused(!m.searching),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(m.palette.Adaptive(theme.ColorTextSecondary)).
		BorderForeground(m.palette.Adaptive(theme.ColorBorder)).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(m.palette.Adaptive(theme.ColorPrimaryText)).
		Background(m.palette.Adaptive(theme.ColorPrimary))
	tbl.SetStyles(styles)
	tbl.SetHeight(max(5, m.height-7))
	tbl.SetCursor(cursor)
	m.tbl = tbl
}

func (m *model) tableRow(cols []columns.Descriptor, r query.Row) table.Row {
	switch r.Kind {
	case query.RowGroupHeader:
		cells := make(table.Row, len(cols)+1)
		cells[0] = "▸"
		if len(cells) > 1 {
			cells[1] = fmt.Sprintf("%s (%d)", r.Group.Value, r.Group.Count())
		}
		return cells
	default:
		marker := " "
		if m.sel.Contains(r.Asset.ID) {
			marker = "●"
		}
		cells := make(table.Row, 0, len(cols)+1)
		cells = append(cells, marker)
		for i, c := range cols {
			text := cellText(c.Accessor(r.Asset))
			if i == 0 {
				if r.Kind == query.RowUnit {
					text = "  └ " + text
				} else if m.expanded[r.Asset.ID] {
					text = "▾ " + text
				} else if len(m.browser.Collection.UnitsOf(r.Asset.ID)) > 0 {
					text = "▸ " + text
				}
			}
			cells = append(cells, text)
		}
		return cells
	}
}

func (m *model) currentRow() (query.Row, bool) {
	idx := m.tbl.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return query.Row{}, false
	}
	return m.rows[idx], true
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuildTable()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		m.refresh()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case " ":
		if r, ok := m.currentRow(); ok && r.Asset != nil {
			if _, resolved := m.sel.Toggle(r.Asset.ID); !resolved {
				m.status = "row has no owning property"
			}
			m.rebuildTable()
		}
		return m, nil

	case "a":
		if m.sel.AllSelected(m.result.Masters) {
			m.sel.Clear()
		} else {
			m.sel.SelectAll(m.result.Masters)
		}
		m.rebuildTable()
		return m, nil

	case "enter":
		if r, ok := m.currentRow(); ok && r.Kind == query.RowMaster {
			if len(m.browser.Collection.UnitsOf(r.Asset.ID)) > 0 {
				m.expanded[r.Asset.ID] = !m.expanded[r.Asset.ID]
				m.refresh()
			}
		}
		return m, nil

	case "y":
		if r, ok := m.currentRow(); ok && r.Asset != nil {
			if err := clipboardWriteFn(r.Asset.ID); err != nil {
				m.status = "clipboard unavailable"
			} else {
				m.status = fmt.Sprintf("copied %s", r.Asset.ID)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	titleStyle := m.palette.ForegroundStyle(theme.ColorPrimary).Bold(true)
	mutedStyle := m.palette.ForegroundStyle(theme.ColorTextMuted)
	statusStyle := m.palette.ForegroundStyle(theme.ColorAccent)

	var sb strings.Builder
	title := m.browser.Title
	if title == "" {
		title = "Properties"
	}
	sb.WriteString(titleStyle.Render(title))
	if m.sel.Len() > 0 {
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("  %d selected", m.sel.Len())))
	}
	sb.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		sb.WriteString(m.search.View())
		sb.WriteString("\n")
	}

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(m.palette.Adaptive(theme.ColorBorder))
	sb.WriteString(border.Render(m.tbl.View()))
	sb.WriteString("\n")

	sb.WriteString(mutedStyle.Render(statsLine(m.result.Stats)))
	sb.WriteString("\n")
	if m.status != "" {
		sb.WriteString(statusStyle.Render(m.status))
		sb.WriteString("\n")
	}
	sb.WriteString(mutedStyle.Render(
		"/ search · space select · a select all · enter expand · y copy id · q quit"))
	return sb.String()
}
