// Package config defines conversion utilities for configuration objects.
package config

import (
	"github.com/iwvelando/deal-forecast/internal/projection"
	"github.com/iwvelando/deal-forecast/pkg/validation"
)

// ToValidator converts the configuration into the mirror types checked by
// pkg/validation.
func (conf *Configuration) ToValidator() *validation.ConfigValidator {
	validator := &validation.ConfigValidator{
		Deals: make([]validation.DealConfig, 0, len(conf.Deals)),
	}
	for _, deal := range conf.Deals {
		validator.Deals = append(validator.Deals, deal.ToValidationConfig())
	}
	return validator
}

// ToValidationConfig converts a Deal to a pkg/validation.DealConfig.
func (deal Deal) ToValidationConfig() validation.DealConfig {
	cfg := ParamsToValidationConfig(deal.Name, deal.Params)
	cfg.Active = deal.Active
	return cfg
}

// ParamsToValidationConfig builds an active validation.DealConfig for a bare
// parameter set, as submitted by the editor.
func ParamsToValidationConfig(name string, p projection.DealParams) validation.DealConfig {
	return validation.DealConfig{
		Name:   name,
		Active: true,
		Amounts: []validation.Field{
			{Name: "advance", Value: p.Advance},
			{Name: "marketing", Value: p.Marketing},
			{Name: "songCount", Value: p.SongCount},
			{Name: "streamRate", Value: p.StreamRate},
			{Name: "streamsPerSong", Value: p.StreamsPerSong},
			{Name: "syncPerSong", Value: p.SyncPerSong},
			{Name: "physicalGoods", Value: p.PhysicalGoods},
			{Name: "brandPartnerships", Value: p.BrandPartnerships},
		},
		Splits: []validation.Field{
			{Name: "streamingProfitSplit", Value: p.StreamingProfitSplit},
			{Name: "syncProfitSplit", Value: p.SyncProfitSplit},
			{Name: "physicalProfitSplit", Value: p.PhysicalProfitSplit},
			{Name: "brandProfitSplit", Value: p.BrandProfitSplit},
		},
		GrowthRate: p.GrowthRate,
	}
}
