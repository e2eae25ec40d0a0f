// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/deal-forecast/internal/forecast"
	"github.com/iwvelando/deal-forecast/internal/projection"
	"github.com/iwvelando/deal-forecast/internal/report"
	"github.com/iwvelando/deal-forecast/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []forecast.Forecast, mode projection.DisplayMode) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		header := result.Name
		if result.Params.ArtistName != "" {
			header = fmt.Sprintf("%s (%s)", result.Name, result.Params.ArtistName)
		}
		_, _ = fmt.Fprintf(w, "--- Results for deal %s ---\n", header)
		_, _ = p.Fprintf(w, "Total investment: $%.2f\n", result.Summary.TotalInvestment)
		_, _ = fmt.Fprintf(w, "Recoupment: %s\n", result.Summary.RecoupmentLabel)
		_, _ = fmt.Fprintf(w, "Year | Total (%[1]s) | Label (%[1]s) | Artist (%[1]s) | Notes\n", mode)
		_, _ = fmt.Fprintf(w, "____ | _____ | _____ | ______ | _____\n")
		for j, point := range projection.Series(result.Records, mode) {
			_, _ = p.Fprintf(w, "%4d | $%.2f | $%.2f | $%.2f | %s\n",
				point.Year, point.Total, point.Label, point.Artist, note(result.Records[j]))
		}
		if i < len(results)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, results []forecast.Forecast, mode projection.DisplayMode) {
	_, _ = fmt.Fprintf(w, `"deal","year","total (%[1]s)","label (%[1]s)","artist net (%[1]s)","artist gross (%[1]s)","notes"`+"\n", mode)
	for _, result := range results {
		for j, point := range projection.Series(result.Records, mode) {
			record := result.Records[j]
			gross := record.CumulativeArtistGross
			if mode == projection.DisplayAnnual {
				gross = record.AnnualArtistGross
			}
			_, _ = fmt.Fprintf(w, `"%s","%d","%s","%s","%s","%s","%s"`+"\n",
				csvEscape(result.Name), point.Year,
				format.Cents(point.Total), format.Cents(point.Label), format.Cents(point.Artist), format.Cents(gross),
				note(record))
		}
	}
}

// CsvString returns the CSV rendering as a string.
func CsvString(results []forecast.Forecast, mode projection.DisplayMode) string {
	var buf bytes.Buffer
	CsvFormat(&buf, results, mode)
	return buf.String()
}

// MarkdownFormat outputs one Markdown memo per deal.
func MarkdownFormat(w io.Writer, results []forecast.Forecast, mode projection.DisplayMode) {
	for i, result := range results {
		_, _ = io.WriteString(w, report.Markdown(result, mode))
		if i < len(results)-1 {
			_, _ = io.WriteString(w, "\n")
		}
	}
}

func note(record projection.YearRecord) string {
	if record.Recouped() {
		return "recouped"
	}
	return ""
}

func csvEscape(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}
