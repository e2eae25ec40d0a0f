package projection

import (
	"strings"

	"github.com/iwvelando/deal-forecast/pkg/constants"
	"github.com/iwvelando/deal-forecast/pkg/validation"
)

// DisplayMode selects which triple of figures a chart plots.
type DisplayMode string

// Supported display modes.
const (
	DisplayCumulative DisplayMode = constants.DisplayModeCumulative
	DisplayAnnual     DisplayMode = constants.DisplayModeAnnual
)

// ParseDisplayMode maps user input to a DisplayMode. An empty string selects
// the cumulative view.
func ParseDisplayMode(value string) (DisplayMode, error) {
	mode := strings.ToLower(strings.TrimSpace(value))
	if mode == "" {
		return DisplayCumulative, nil
	}
	if err := validation.ValidateDisplayMode(mode); err != nil {
		return "", err
	}
	return DisplayMode(mode), nil
}

// Point is a single chart sample: total, label and net artist revenue.
type Point struct {
	Year   int     `json:"year"`
	Total  float64 `json:"total"`
	Label  float64 `json:"label"`
	Artist float64 `json:"artist"`
}

// Series extracts the chart points for the given mode. Unknown modes fall
// back to cumulative.
func Series(records []YearRecord, mode DisplayMode) []Point {
	points := make([]Point, 0, len(records))
	for _, r := range records {
		p := Point{Year: r.Year}
		if mode == DisplayAnnual {
			p.Total = r.AnnualTotalRevenue
			p.Label = r.AnnualLabelRevenue
			p.Artist = r.AnnualArtistRevenue
		} else {
			p.Total = r.CumulativeTotalRevenue
			p.Label = r.CumulativeLabelRevenue
			p.Artist = r.CumulativeArtistRevenue
		}
		points = append(points, p)
	}
	return points
}
