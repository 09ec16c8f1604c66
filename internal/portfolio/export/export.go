// Package export renders a projected set of properties to the supported
// download formats. Exports always operate on the visible columns of
// the current view and on the selected records when a selection exists,
// otherwise on the full filtered set.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/havenhq/havenctl/internal/portfolio"
	"github.com/havenhq/havenctl/internal/portfolio/columns"
)

// Format is a supported export format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatTSV   Format = "tsv"
	FormatPrint Format = "print"
)

// ParseFormat validates a format tag.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatTSV, FormatPrint:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv, json, tsv, or print)", s)
	}
}

// Extension returns the artifact file extension for the format.
func (f Format) Extension() string {
	if f == FormatPrint {
		return "html"
	}
	return string(f)
}

// DefaultFilename is the artifact name for an export produced on the
// given day: properties_<date>.<ext>.
func DefaultFilename(f Format, at time.Time) string {
	return fmt.Sprintf("properties_%s.%s", at.Format("2006-01-02"), f.Extension())
}

// Request carries everything an export needs: the records (already
// reduced to selection-or-filtered), the visible column ids, and a
// title for the print layout.
type Request struct {
	Assets  []*portfolio.PropertyAsset
	Columns []string
	Title   string
}

// Write renders the request to w in the given format.
func Write(w io.Writer, f Format, req Request) error {
	cols := columns.Resolve(req.Columns)
	if len(cols) == 0 {
		return fmt.Errorf("no exportable columns resolved from %v", req.Columns)
	}

	switch f {
	case FormatCSV:
		return writeCSV(w, cols, req.Assets)
	case FormatJSON:
		return writeJSON(w, cols, req.Assets)
	case FormatTSV:
		return writeTSV(w, cols, req.Assets)
	case FormatPrint:
		return writePrint(w, cols, req)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// cellValue renders one accessor value for textual formats. Dates use
// the ISO date form; missing values render empty.
func cellValue(v any) (text string, numeric bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, false
	case bool:
		return strconv.FormatBool(x), false
	case int:
		return strconv.Itoa(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case *time.Time:
		if x == nil {
			return "", false
		}
		return x.Format("2006-01-02"), false
	case time.Time:
		return x.Format("2006-01-02"), false
	default:
		return fmt.Sprintf("%v", x), false
	}
}

// writeCSV emits RFC-4180-style rows with one deviation the download
// consumers rely on: string fields are always quoted (internal quotes
// doubled) while numeric fields stay bare, so spreadsheet imports keep
// leading zeros in postcodes without coercing unit counts to text.
func writeCSV(w io.Writer, cols []columns.Descriptor, assets []*portfolio.PropertyAsset) error {
	return writeDelimited(w, cols, assets, ",", true)
}

func writeTSV(w io.Writer, cols []columns.Descriptor, assets []*portfolio.PropertyAsset) error {
	// BOM so Excel detects UTF-8 on tab-separated imports
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	return writeDelimited(w, cols, assets, "\t", false)
}

func writeDelimited(
	w io.Writer,
	cols []columns.Descriptor,
	assets []*portfolio.PropertyAsset,
	sep string,
	quote bool,
) error {
	var b strings.Builder

	for i, c := range cols {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(field(c.Label, false, quote))
	}
	b.WriteString("\r\n")

	for _, a := range assets {
		for i, c := range cols {
			if i > 0 {
				b.WriteString(sep)
			}
			text, numeric := cellValue(c.Accessor(a))
			b.WriteString(field(text, numeric, quote))
		}
		b.WriteString("\r\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func field(text string, numeric, quote bool) string {
	if !quote {
		// tabs and newlines cannot be escaped in TSV; strip them
		text = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(text)
		return text
	}
	if numeric {
		return text
	}
	return `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
}

// writeJSON emits an array of objects keyed by column id, preserving
// typed values rather than their textual rendering.
func writeJSON(w io.Writer, cols []columns.Descriptor, assets []*portfolio.PropertyAsset) error {
	rows := make([]map[string]any, 0, len(assets))
	for _, a := range assets {
		row := make(map[string]any, len(cols))
		for _, c := range cols {
			row[c.ID] = c.Accessor(a)
		}
		rows = append(rows, row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
