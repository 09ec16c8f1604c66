package export

import (
	"html/template"
	"io"
	"time"

	sprig "github.com/Masterminds/sprig/v3"

	"github.com/havenhq/havenctl/internal/portfolio"
	"github.com/havenhq/havenctl/internal/portfolio/columns"
)

// printTemplate is a self-contained print-ready page: no external
// assets, so the artifact renders identically when opened offline.
const printTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style>
  body { font-family: Georgia, serif; margin: 2rem; color: #1a2b23; }
  h1 { font-size: 1.4rem; border-bottom: 2px solid #2e7d5b; padding-bottom: .4rem; }
  p.meta { color: #5c6f66; font-size: .8rem; }
  table { border-collapse: collapse; width: 100%; font-size: .8rem; }
  th { text-align: left; background: #eaf3ee; border-bottom: 1px solid #2e7d5b; padding: .35rem .5rem; }
  td { border-bottom: 1px solid #d7e2dc; padding: .35rem .5rem; }
  tr:nth-child(even) td { background: #f7faf8; }
  @media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>{{ .Title }}</h1>
<p class="meta">{{ len .Rows }} {{ len .Rows | plural "property" "properties" }} &middot; generated {{ .GeneratedAt }}</p>
<table>
<thead><tr>{{ range .Headers }}<th>{{ . }}</th>{{ end }}</tr></thead>
<tbody>
{{- range .Rows }}
<tr>{{ range . }}<td>{{ . }}</td>{{ end }}</tr>
{{- end }}
</tbody>
</table>
</body>
</html>
`

type printData struct {
	Title       string
	GeneratedAt string
	Headers     []string
	Rows        [][]string
}

func writePrint(w io.Writer, cols []columns.Descriptor, req Request) error {
	t, err := template.New("print").Funcs(sprig.FuncMap()).Parse(printTemplate)
	if err != nil {
		return err
	}

	data := printData{
		Title:       req.Title,
		GeneratedAt: time.Now().Format("2 January 2006 15:04"),
	}
	if data.Title == "" {
		data.Title = "Property Portfolio"
	}
	for _, c := range cols {
		data.Headers = append(data.Headers, c.Label)
	}
	for _, a := range req.Assets {
		data.Rows = append(data.Rows, printRow(cols, a))
	}

	return t.Execute(w, data)
}

func printRow(cols []columns.Descriptor, a *portfolio.PropertyAsset) []string {
	row := make([]string, 0, len(cols))
	for _, c := range cols {
		text, _ := cellValue(c.Accessor(a))
		row = append(row, text)
	}
	return row
}
