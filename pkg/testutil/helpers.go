// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/deal-forecast/internal/forecast"
	"github.com/iwvelando/deal-forecast/internal/projection"
)

// FindForecast finds a forecast by deal name in the results slice.
// Returns a pointer to the forecast if found, nil otherwise.
func FindForecast(results []forecast.Forecast, name string) *forecast.Forecast {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// ScenarioA returns the reference deal: 34,000 per year of artist gross
// against a 150,000 pool, recouping in year 5.
func ScenarioA() projection.DealParams {
	params := projection.DefaultDealParams()
	params.ArtistName = "Scenario A"
	return params
}

// NeverRecoups returns a deal whose pool is never exceeded within the
// projection window.
func NeverRecoups() projection.DealParams {
	params := ScenarioA()
	params.ArtistName = "Never Recoups"
	params.Advance = 1000000
	params.Marketing = 500000
	return params
}

// WriteFile writes contents to name inside a fresh temp dir and returns the path.
func WriteFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WithinCents reports whether two currency amounts agree to the cent.
func WithinCents(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
