// Package forecast runs the projection engine for every configured deal and
// bundles the results the output layers consume.
package forecast

import (
	"fmt"

	"github.com/iwvelando/deal-forecast/internal/config"
	"github.com/iwvelando/deal-forecast/internal/projection"
	"go.uber.org/zap"
)

// Forecast holds all information related to a specific deal projection.
type Forecast struct {
	Name    string
	Params  projection.DealParams
	Records []projection.YearRecord
	Summary projection.Summary
}

// GetForecast processes the Forecasts for all active Deals.
func GetForecast(logger *zap.Logger, conf config.Configuration) []Forecast {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Forecast
	for _, deal := range conf.Deals {
		if !deal.Active {
			logger.Debug(fmt.Sprintf("skipping deal %s because it is inactive", deal.Name),
				zap.String("op", "forecast.GetForecast"),
			)
			continue
		}
		results = append(results, Run(logger, deal.Name, deal.Params))
	}

	return results
}

// Run projects a single deal.
func Run(logger *zap.Logger, name string, params projection.DealParams) Forecast {
	if logger == nil {
		logger = zap.NewNop()
	}

	records := projection.Project(params)
	summary := projection.Summarize(params, records)

	fields := []zap.Field{
		zap.String("op", "forecast.Run"),
		zap.String("deal", name),
		zap.Float64("totalInvestment", summary.TotalInvestment),
		zap.Float64("cumulativeArtistNet", summary.FinalCumulativeArtist),
		zap.String("recoupment", summary.RecoupmentLabel),
	}
	if summary.RecoupmentYear != nil {
		fields = append(fields, zap.Int("recoupmentYear", *summary.RecoupmentYear))
	}
	logger.Debug("deal projected", fields...)

	return Forecast{
		Name:    name,
		Params:  params,
		Records: records,
		Summary: summary,
	}
}
