// Package report renders a deal projection as a Markdown memo and converts
// it to a standalone HTML page.
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/iwvelando/deal-forecast/internal/forecast"
	"github.com/iwvelando/deal-forecast/internal/projection"
	"github.com/iwvelando/deal-forecast/pkg/format"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown builds the deal memo: parameters, summary and the yearly table
// for the chosen display mode.
func Markdown(result forecast.Forecast, mode projection.DisplayMode) string {
	var b strings.Builder
	p := result.Params

	fmt.Fprintf(&b, "# %s\n\n", escape(result.Name))
	if p.ArtistName != "" {
		fmt.Fprintf(&b, "Artist: **%s**\n\n", escape(p.ArtistName))
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Total investment: %s\n", format.Currency(result.Summary.TotalInvestment))
	fmt.Fprintf(&b, "- Recoupment: %s\n", result.Summary.RecoupmentLabel)
	fmt.Fprintf(&b, "- %d-year total revenue: %s\n", projection.Years, format.Currency(result.Summary.FinalCumulativeTotal))
	fmt.Fprintf(&b, "- %d-year label revenue: %s\n", projection.Years, format.Currency(result.Summary.FinalCumulativeLabel))
	fmt.Fprintf(&b, "- %d-year artist net revenue: %s\n", projection.Years, format.Currency(result.Summary.FinalCumulativeArtist))
	if !result.Summary.Recouped {
		fmt.Fprintf(&b, "- Unrecouped balance: %s\n", format.Currency(result.Summary.UnrecoupedBalance))
	}
	b.WriteString("\n")

	b.WriteString("## Parameters\n\n")
	b.WriteString("| Stream | Base revenue | Artist split |\n")
	b.WriteString("|---|---:|---:|\n")
	for _, stream := range projection.Streams {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", stream, format.Currency(p.BaseRevenue(stream)), format.Percent(p.Split(stream)))
	}
	fmt.Fprintf(&b, "\nAdvance %s, marketing %s, growth %s per year.\n\n",
		format.Currency(p.Advance), format.Currency(p.Marketing), format.Percent(p.GrowthRate))

	fmt.Fprintf(&b, "## Projection (%s)\n\n", modeName(mode))
	b.WriteString("| Year | Total | Label | Artist | |\n")
	b.WriteString("|---:|---:|---:|---:|---|\n")
	points := projection.Series(result.Records, mode)
	for i, point := range points {
		note := ""
		if result.Records[i].Recouped() {
			note = "recouped"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", point.Year,
			format.Currency(point.Total), format.Currency(point.Label), format.Currency(point.Artist), note)
	}

	return b.String()
}

// HTML renders the memo for result as a complete HTML document.
func HTML(result forecast.Forecast, mode projection.DisplayMode) (string, error) {
	var content bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(Markdown(result, mode)), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	title := html.EscapeString(result.Name)
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + title + "</title>" +
		"<style>" + reportCSS + "</style></head><body>" + content.String() + "</body></html>", nil
}

const reportCSS = `body{font-family:system-ui,sans-serif;max-width:52rem;margin:2rem auto;color:#1f2933}` +
	`table{border-collapse:collapse;width:100%}th,td{padding:.3rem .6rem;border-bottom:1px solid #d9e2ec}` +
	`td{font-variant-numeric:tabular-nums}`

func modeName(mode projection.DisplayMode) string {
	if mode == projection.DisplayAnnual {
		return "annual"
	}
	return "cumulative"
}

// escape keeps user-entered names from breaking Markdown tables or markup.
func escape(s string) string {
	replacer := strings.NewReplacer("|", "\\|", "<", "&lt;", ">", "&gt;", "*", "\\*", "_", "\\_")
	return replacer.Replace(s)
}
