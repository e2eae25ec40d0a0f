package projection

import (
	"testing"
)

func TestSummarize(t *testing.T) {
	neverParams := scenarioA()
	neverParams.Advance = 1000000

	tests := []struct {
		name           string
		params         DealParams
		recouped       bool
		recoupmentYear int
		label          string
		investment     float64
		unrecouped     float64
	}{
		{
			name:           "Scenario A recoups in year 5",
			params:         scenarioA(),
			recouped:       true,
			recoupmentYear: 5,
			label:          "Year 5",
			investment:     150000,
			unrecouped:     0,
		},
		{
			name:       "Large advance never recoups",
			params:     neverParams,
			recouped:   false,
			label:      NotRecoupedLabel,
			investment: 1075000,
			unrecouped: 1075000 - 15*34000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := Summarize(tt.params, Project(tt.params))
			if summary.Recouped != tt.recouped {
				t.Fatalf("Recouped = %v, expected %v", summary.Recouped, tt.recouped)
			}
			if tt.recouped {
				if summary.RecoupmentYear == nil || *summary.RecoupmentYear != tt.recoupmentYear {
					t.Errorf("RecoupmentYear = %v, expected %d", summary.RecoupmentYear, tt.recoupmentYear)
				}
			} else if summary.RecoupmentYear != nil {
				t.Errorf("RecoupmentYear = %d, expected nil", *summary.RecoupmentYear)
			}
			if summary.RecoupmentLabel != tt.label {
				t.Errorf("RecoupmentLabel = %q, expected %q", summary.RecoupmentLabel, tt.label)
			}
			if !approxEqual(summary.TotalInvestment, tt.investment) {
				t.Errorf("TotalInvestment = %.2f, expected %.2f", summary.TotalInvestment, tt.investment)
			}
			if !approxEqual(summary.UnrecoupedBalance, tt.unrecouped) {
				t.Errorf("UnrecoupedBalance = %.2f, expected %.2f", summary.UnrecoupedBalance, tt.unrecouped)
			}
		})
	}
}

func TestSummarizeEmptyRecords(t *testing.T) {
	summary := Summarize(scenarioA(), nil)
	if summary.Recouped {
		t.Error("expected empty records to report not recouped")
	}
	if summary.RecoupmentLabel != "Not recouped within 15 years" {
		t.Errorf("RecoupmentLabel = %q", summary.RecoupmentLabel)
	}
	if summary.UnrecoupedBalance != 150000 {
		t.Errorf("UnrecoupedBalance = %.2f, expected 150000", summary.UnrecoupedBalance)
	}
}

func TestSummarizeRoundsUnrecoupedBalanceToCents(t *testing.T) {
	tests := []struct {
		name     string
		extra    float64
		expected float64
	}{
		{"Under a cent counts as recouped", 0.004, 0},
		{"Exactly a cent counts as recouped", 0.01, 0},
		{"Remaining balance is rounded", 250.4567, 250.46},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := scenarioA()
			params.Advance = float64(Years)*34000 + tt.extra
			params.Marketing = 0
			summary := Summarize(params, Project(params))
			if summary.Recouped {
				t.Fatalf("expected the deal to stay unrecouped, got %s", summary.RecoupmentLabel)
			}
			if summary.UnrecoupedBalance != tt.expected {
				t.Errorf("UnrecoupedBalance = %v, expected %v", summary.UnrecoupedBalance, tt.expected)
			}
		})
	}
}
