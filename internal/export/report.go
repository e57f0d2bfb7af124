package export

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"gazlink/internal/store"
)

// Report holds everything the HTML entity report renders.
type Report struct {
	Title      string
	Stylesheet string
	Columns    []string
	Rows       []store.EntityRow
	Generated  time.Time
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="{{.Stylesheet}}">
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<hr>
<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.ExternalID}}</td><td>{{.PrefLabel}}</td><td>{{.Detail}}</td></tr>
{{end}}</tbody>
</table>
<hr>
<p><small>Generated: {{.Generated.Format "2006-01-02T15:04:05"}}</small></p>
</main>
</body>
</html>
`))

// NewDnbReport builds the report model for authority entities.
func NewDnbReport(rows []store.EntityRow, stylesheet string) Report {
	return Report{
		Title:      "DNB",
		Stylesheet: stylesheet,
		Columns:    []string{"DNB ID", "Pref. Name", "Gaz ID"},
		Rows:       rows,
		Generated:  time.Now(),
	}
}

// NewGazReport builds the report model for gazetteer entities.
func NewGazReport(rows []store.EntityRow, stylesheet string) Report {
	return Report{
		Title:      "Gazetteer",
		Stylesheet: stylesheet,
		Columns:    []string{"Gaz ID", "Pref. Title", "Pref. Lang."},
		Rows:       rows,
		Generated:  time.Now(),
	}
}

// WriteHTMLReport renders the report as a standalone HTML page.
func WriteHTMLReport(w io.Writer, report Report) error {
	if err := reportTemplate.Execute(w, report); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
