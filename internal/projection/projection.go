package projection

import (
	"github.com/iwvelando/deal-forecast/pkg/mathutil"
)

// StreamYear is one stream's revenue for one year and how it splits between
// the artist and the label.
type StreamYear struct {
	Stream      Stream  `json:"stream"`
	Revenue     float64 `json:"revenue"`
	ArtistGross float64 `json:"artistGross"`
	LabelShare  float64 `json:"labelShare"`
}

// YearRecord holds the projection for a single year. Artist revenue fields
// are net of recoupment; the gross fields are the artist's contractual share
// before the recoupment offset.
type YearRecord struct {
	Year                    int          `json:"year"`
	AnnualTotalRevenue      float64      `json:"annualTotalRevenue"`
	AnnualLabelRevenue      float64      `json:"annualLabelRevenue"`
	AnnualArtistRevenue     float64      `json:"annualArtistRevenue"`
	AnnualArtistGross       float64      `json:"annualArtistGross"`
	CumulativeTotalRevenue  float64      `json:"cumulativeTotalRevenue"`
	CumulativeLabelRevenue  float64      `json:"cumulativeLabelRevenue"`
	CumulativeArtistRevenue float64      `json:"cumulativeArtistRevenue"`
	CumulativeArtistGross   float64      `json:"cumulativeArtistGross"`
	RecoupmentYear          *int         `json:"recoupmentYear"`
	Streams                 []StreamYear `json:"streams"`
}

// Recouped reports whether this record is the year the advance and
// marketing pool was first exceeded.
func (r YearRecord) Recouped() bool {
	return r.RecoupmentYear != nil
}

// Project computes the year-by-year projection for a deal. The result always
// has Years records ordered by year, starting at 1.
//
// Recoupment compares the artist's cumulative gross share against the pool.
// Until the pool is exceeded the artist nets nothing; in the crossing year
// the artist nets only the excess over the pool; afterwards the full gross
// share passes through.
func Project(params DealParams) []YearRecord {
	records := make([]YearRecord, 0, Years)
	pool := params.TotalRecoupable()

	var cumTotal, cumLabel, cumArtistNet, cumArtistGross float64
	recouped := false

	for year := 1; year <= Years; year++ {
		record := YearRecord{
			Year:    year,
			Streams: make([]StreamYear, 0, len(Streams)),
		}

		var annualGross float64
		for _, stream := range Streams {
			revenue := mathutil.Compound(params.BaseRevenue(stream), params.GrowthRate, year-1)
			split := params.Split(stream)
			sy := StreamYear{
				Stream:      stream,
				Revenue:     revenue,
				ArtistGross: mathutil.ApplyPercentage(revenue, split),
				LabelShare:  mathutil.Complement(revenue, split),
			}
			record.Streams = append(record.Streams, sy)
			record.AnnualTotalRevenue += sy.Revenue
			record.AnnualLabelRevenue += sy.LabelShare
			annualGross += sy.ArtistGross
		}

		previous := cumArtistGross
		cumArtistGross += annualGross

		var net float64
		switch {
		case cumArtistGross <= pool:
			net = 0
		case cumArtistGross > pool && previous <= pool:
			// A year that starts exactly on the pool is still the crossing
			// year: the excess equals the full annual gross. An empty pool
			// is recouped in year 1.
			net = cumArtistGross - pool
			// Negative gross can drop the total back under the pool; a
			// second crossing prorates again but is never re-marked.
			if !recouped {
				marked := year
				record.RecoupmentYear = &marked
				recouped = true
			}
		default:
			// Past the pool, or NaN, which fails every comparison and is
			// carried through without a marker.
			net = annualGross
		}

		cumTotal += record.AnnualTotalRevenue
		cumLabel += record.AnnualLabelRevenue
		cumArtistNet += net

		record.AnnualArtistRevenue = net
		record.AnnualArtistGross = annualGross
		record.CumulativeTotalRevenue = cumTotal
		record.CumulativeLabelRevenue = cumLabel
		record.CumulativeArtistRevenue = cumArtistNet
		record.CumulativeArtistGross = cumArtistGross

		records = append(records, record)
	}

	return records
}
