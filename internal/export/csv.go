package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"gazlink/internal/store"
)

// csvDelimiter keeps the output compatible with downstream consumers of the
// original pipe-delimited dumps.
const csvDelimiter = '|'

type metaCSVRow struct {
	DnbID       string  `csv:"#DNB ID"`
	DnbPrefName string  `csv:"DNB Pref Name"`
	GazGndID    string  `csv:"Gaz GND ID"`
	GazPrefName string  `csv:"Gaz Pref Name"`
	Threshold   float64 `csv:"Threshold"`
}

type namesCSVRow struct {
	DnbID        string  `csv:"#DNB ID"`
	DnbPrefName  string  `csv:"DNB Pref Name"`
	DnbName      string  `csv:"DNB Name"`
	GazGndID     string  `csv:"Gaz GND ID"`
	GazPrefTitle string  `csv:"Gaz Pref Title"`
	GazTitle     string  `csv:"Gaz Title"`
	Threshold    float64 `csv:"Threshold"`
}

// WriteMetaCSV writes meta-mode export rows as pipe-delimited CSV, header
// included.
func WriteMetaCSV(w io.Writer, rows []store.MetaExportRow) error {
	out := make([]metaCSVRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, metaCSVRow{
			DnbID:       row.DnbID,
			DnbPrefName: row.DnbPrefName,
			GazGndID:    row.GazGndID,
			GazPrefName: row.GazPrefTitle,
			Threshold:   row.Score,
		})
	}
	if err := gocsv.MarshalCSV(&out, pipeWriter(w)); err != nil {
		return fmt.Errorf("write meta csv: %w", err)
	}
	return nil
}

// WriteNamesCSV writes names-mode export rows as pipe-delimited CSV, header
// included.
func WriteNamesCSV(w io.Writer, rows []store.NamesExportRow) error {
	out := make([]namesCSVRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, namesCSVRow{
			DnbID:        row.DnbID,
			DnbPrefName:  row.DnbPrefName,
			DnbName:      row.DnbName,
			GazGndID:     row.GazGndID,
			GazPrefTitle: row.GazPrefTitle,
			GazTitle:     row.GazTitle,
			Threshold:    row.Score,
		})
	}
	if err := gocsv.MarshalCSV(&out, pipeWriter(w)); err != nil {
		return fmt.Errorf("write names csv: %w", err)
	}
	return nil
}

func pipeWriter(w io.Writer) *gocsv.SafeCSVWriter {
	writer := csv.NewWriter(w)
	writer.Comma = csvDelimiter
	return gocsv.NewSafeCSVWriter(writer)
}
