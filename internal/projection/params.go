// Package projection computes the 15-year revenue and recoupment projection
// for a recording-contract deal.
//
// Project is a pure function: it performs no I/O, holds no state between
// calls, and returns identical output for identical input. It never fails;
// validating user input is the caller's job (see pkg/validation), and
// non-finite input simply propagates into the returned figures.
package projection

import (
	"github.com/iwvelando/deal-forecast/pkg/constants"
)

// Years is the number of records every projection contains.
const Years = constants.ProjectionYears

// Stream identifies one of the four modeled revenue streams.
type Stream string

// Revenue streams in the order they appear in YearRecord.Streams.
const (
	StreamStreaming Stream = "streaming"
	StreamSync      Stream = "sync"
	StreamPhysical  Stream = "physical"
	StreamBrand     Stream = "brand"
)

// Streams lists every revenue stream in output order.
var Streams = []Stream{StreamStreaming, StreamSync, StreamPhysical, StreamBrand}

// DealParams holds the inputs of a deal. Percentages are expressed on a
// 0-100 scale; split fields are the artist's share of that stream.
type DealParams struct {
	ArtistName           string  `json:"artistName" yaml:"artistName" mapstructure:"artistName"`
	Advance              float64 `json:"advance" yaml:"advance" mapstructure:"advance"`
	Marketing            float64 `json:"marketing" yaml:"marketing" mapstructure:"marketing"`
	SongCount            float64 `json:"songCount" yaml:"songCount" mapstructure:"songCount"`
	StreamingProfitSplit float64 `json:"streamingProfitSplit" yaml:"streamingProfitSplit" mapstructure:"streamingProfitSplit"`
	SyncProfitSplit      float64 `json:"syncProfitSplit" yaml:"syncProfitSplit" mapstructure:"syncProfitSplit"`
	PhysicalProfitSplit  float64 `json:"physicalProfitSplit" yaml:"physicalProfitSplit" mapstructure:"physicalProfitSplit"`
	BrandProfitSplit     float64 `json:"brandProfitSplit" yaml:"brandProfitSplit" mapstructure:"brandProfitSplit"`
	StreamRate           float64 `json:"streamRate" yaml:"streamRate" mapstructure:"streamRate"`
	StreamsPerSong       float64 `json:"streamsPerSong" yaml:"streamsPerSong" mapstructure:"streamsPerSong"`
	SyncPerSong          float64 `json:"syncPerSong" yaml:"syncPerSong" mapstructure:"syncPerSong"`
	PhysicalGoods        float64 `json:"physicalGoods" yaml:"physicalGoods" mapstructure:"physicalGoods"`
	BrandPartnerships    float64 `json:"brandPartnerships" yaml:"brandPartnerships" mapstructure:"brandPartnerships"`
	GrowthRate           float64 `json:"growthRate" yaml:"growthRate" mapstructure:"growthRate"`
}

// DefaultDealParams returns the starting values of a blank deal form.
func DefaultDealParams() DealParams {
	return DealParams{
		Advance:              75000,
		Marketing:            75000,
		SongCount:            20,
		StreamingProfitSplit: 50,
		SyncProfitSplit:      25,
		PhysicalProfitSplit:  20,
		BrandProfitSplit:     30,
		StreamRate:           0.004,
		StreamsPerSong:       500000,
		SyncPerSong:          2000,
		PhysicalGoods:        5000,
		BrandPartnerships:    10000,
		GrowthRate:           0,
	}
}

// TotalRecoupable is the pool the artist's gross share must exceed before
// any net payout: the advance plus marketing spend.
func (p DealParams) TotalRecoupable() float64 {
	return p.Advance + p.Marketing
}

// BaseRevenue returns the year-1 revenue of a stream, before growth.
func (p DealParams) BaseRevenue(stream Stream) float64 {
	switch stream {
	case StreamStreaming:
		return p.StreamsPerSong * p.StreamRate * p.SongCount
	case StreamSync:
		return p.SyncPerSong * p.SongCount
	case StreamPhysical:
		return p.PhysicalGoods
	case StreamBrand:
		return p.BrandPartnerships
	}
	return 0
}

// Split returns the artist's percentage share of a stream.
func (p DealParams) Split(stream Stream) float64 {
	switch stream {
	case StreamStreaming:
		return p.StreamingProfitSplit
	case StreamSync:
		return p.SyncProfitSplit
	case StreamPhysical:
		return p.PhysicalProfitSplit
	case StreamBrand:
		return p.BrandProfitSplit
	}
	return 0
}
