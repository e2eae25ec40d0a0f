package projection

import (
	"fmt"

	"github.com/iwvelando/deal-forecast/pkg/mathutil"
)

// NotRecoupedLabel is shown when no year within the projection crosses the
// recoupable pool.
var NotRecoupedLabel = fmt.Sprintf("Not recouped within %d years", Years)

// Summary condenses a projection into the figures shown next to the chart.
type Summary struct {
	TotalInvestment            float64 `json:"totalInvestment"`
	Recouped                   bool    `json:"recouped"`
	RecoupmentYear             *int    `json:"recoupmentYear"`
	RecoupmentLabel            string  `json:"recoupmentLabel"`
	FinalCumulativeTotal       float64 `json:"finalCumulativeTotal"`
	FinalCumulativeLabel       float64 `json:"finalCumulativeLabel"`
	FinalCumulativeArtist      float64 `json:"finalCumulativeArtist"`
	FinalCumulativeArtistGross float64 `json:"finalCumulativeArtistGross"`
	UnrecoupedBalance          float64 `json:"unrecoupedBalance"`
}

// Summarize reports the total investment and the first marked recoupment
// year. It scans every record; when none is marked the summary carries
// NotRecoupedLabel.
func Summarize(params DealParams, records []YearRecord) Summary {
	summary := Summary{
		TotalInvestment: params.TotalRecoupable(),
		RecoupmentLabel: NotRecoupedLabel,
	}

	for _, record := range records {
		if record.RecoupmentYear != nil {
			year := *record.RecoupmentYear
			summary.Recouped = true
			summary.RecoupmentYear = &year
			summary.RecoupmentLabel = fmt.Sprintf("Year %d", year)
			break
		}
	}

	if len(records) > 0 {
		last := records[len(records)-1]
		summary.FinalCumulativeTotal = last.CumulativeTotalRevenue
		summary.FinalCumulativeLabel = last.CumulativeLabelRevenue
		summary.FinalCumulativeArtist = last.CumulativeArtistRevenue
		summary.FinalCumulativeArtistGross = last.CumulativeArtistGross
		summary.UnrecoupedBalance = unrecoupedBalance(summary.TotalInvestment - last.CumulativeArtistGross)
	} else {
		summary.UnrecoupedBalance = unrecoupedBalance(summary.TotalInvestment)
	}

	return summary
}

// unrecoupedBalance rounds the remaining pool to cents. Anything at or below
// a cent is reported as fully recouped; NaN is passed through.
func unrecoupedBalance(remaining float64) float64 {
	balance := mathutil.Round(remaining)
	if balance < 0 || mathutil.IsZero(balance) {
		return 0
	}
	return balance
}
