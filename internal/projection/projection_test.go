package projection

import (
	"math"
	"reflect"
	"testing"
)

const tolerance = 1e-6

// scenarioA is the reference deal: 34,000/year artist gross against a
// 150,000 pool with no growth.
func scenarioA() DealParams {
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

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func markedYears(records []YearRecord) []int {
	var years []int
	for _, r := range records {
		if r.RecoupmentYear != nil {
			years = append(years, *r.RecoupmentYear)
		}
	}
	return years
}

func TestProjectReturnsFifteenOrderedYears(t *testing.T) {
	records := Project(scenarioA())
	if len(records) != Years {
		t.Fatalf("Project() returned %d records, expected %d", len(records), Years)
	}
	for i, r := range records {
		if r.Year != i+1 {
			t.Errorf("record %d has year %d, expected %d", i, r.Year, i+1)
		}
		if len(r.Streams) != len(Streams) {
			t.Errorf("year %d has %d streams, expected %d", r.Year, len(r.Streams), len(Streams))
		}
	}
}

func TestProjectScenarioA(t *testing.T) {
	params := scenarioA()
	records := Project(params)

	year1 := records[0]
	expectedRevenue := map[Stream]float64{
		StreamStreaming: 40000,
		StreamSync:      40000,
		StreamPhysical:  5000,
		StreamBrand:     10000,
	}
	for _, sy := range year1.Streams {
		if !approxEqual(sy.Revenue, expectedRevenue[sy.Stream]) {
			t.Errorf("year 1 %s revenue = %.2f, expected %.2f", sy.Stream, sy.Revenue, expectedRevenue[sy.Stream])
		}
	}
	if !approxEqual(year1.AnnualTotalRevenue, 95000) {
		t.Errorf("year 1 total revenue = %.2f, expected 95000", year1.AnnualTotalRevenue)
	}
	if !approxEqual(year1.AnnualArtistGross, 34000) {
		t.Errorf("year 1 artist gross = %.2f, expected 34000", year1.AnnualArtistGross)
	}
	if !approxEqual(year1.AnnualLabelRevenue, 61000) {
		t.Errorf("year 1 label revenue = %.2f, expected 61000", year1.AnnualLabelRevenue)
	}
	if params.TotalRecoupable() != 150000 {
		t.Errorf("TotalRecoupable() = %.2f, expected 150000", params.TotalRecoupable())
	}

	if got := markedYears(records); !reflect.DeepEqual(got, []int{5}) {
		t.Fatalf("marked recoupment years = %v, expected [5]", got)
	}

	year5 := records[4]
	if !approxEqual(year5.CumulativeArtistGross, 170000) {
		t.Errorf("year 5 cumulative gross = %.2f, expected 170000", year5.CumulativeArtistGross)
	}
	if !approxEqual(year5.AnnualArtistRevenue, 20000) {
		t.Errorf("year 5 artist net = %.2f, expected 20000", year5.AnnualArtistRevenue)
	}
	if !approxEqual(records[3].CumulativeArtistGross, 136000) {
		t.Errorf("year 4 cumulative gross = %.2f, expected 136000", records[3].CumulativeArtistGross)
	}

	last := records[Years-1]
	if !approxEqual(last.CumulativeTotalRevenue, 95000*Years) {
		t.Errorf("year 15 cumulative total = %.2f, expected %.2f", last.CumulativeTotalRevenue, 95000.0*Years)
	}
	// 20,000 in the crossing year, then ten full years of 34,000.
	if !approxEqual(last.CumulativeArtistRevenue, 20000+10*34000) {
		t.Errorf("year 15 cumulative artist net = %.2f, expected %.2f", last.CumulativeArtistRevenue, 20000.0+10*34000)
	}
}

// The recoupment test runs on cumulative artist GROSS against the pool,
// while the exposed artist figures are NET. This asymmetry is deliberate
// replication of the deal model and must not be "fixed" to use net.
func TestRecoupmentComparesGrossNotNet(t *testing.T) {
	records := Project(scenarioA())
	pool := scenarioA().TotalRecoupable()

	year5 := records[4]
	if year5.RecoupmentYear == nil {
		t.Fatal("expected year 5 to carry the recoupment marker")
	}
	if year5.CumulativeArtistRevenue >= pool {
		t.Fatalf("cumulative net %.2f should still be below the pool in the crossing year", year5.CumulativeArtistRevenue)
	}
	if year5.CumulativeArtistGross <= pool {
		t.Fatalf("cumulative gross %.2f should exceed the pool in the crossing year", year5.CumulativeArtistGross)
	}
	for _, r := range records {
		if r.CumulativeArtistRevenue > r.CumulativeArtistGross+tolerance {
			t.Errorf("year %d cumulative net %.2f exceeds cumulative gross %.2f",
				r.Year, r.CumulativeArtistRevenue, r.CumulativeArtistGross)
		}
	}
}

func TestZeroGrowthKeepsRevenueFlat(t *testing.T) {
	params := scenarioA()
	params.GrowthRate = 0
	records := Project(params)

	for _, r := range records[1:] {
		for i, sy := range r.Streams {
			if sy.Revenue != records[0].Streams[i].Revenue {
				t.Errorf("year %d %s revenue = %v, expected %v", r.Year, sy.Stream, sy.Revenue, records[0].Streams[i].Revenue)
			}
		}
	}
}

func TestYearOneIgnoresGrowth(t *testing.T) {
	for _, rate := range []float64{-250, -100, -12.5, 0, 3, 45, 1000} {
		params := scenarioA()
		params.GrowthRate = rate
		records := Project(params)
		for _, sy := range records[0].Streams {
			if base := params.BaseRevenue(sy.Stream); sy.Revenue != base {
				t.Errorf("growth %v: year 1 %s revenue = %v, expected base %v", rate, sy.Stream, sy.Revenue, base)
			}
		}
	}
}

func TestGrowthCompounds(t *testing.T) {
	params := scenarioA()
	params.GrowthRate = 10
	records := Project(params)

	streaming := records[2].Streams[0]
	if streaming.Stream != StreamStreaming {
		t.Fatalf("first stream = %s, expected %s", streaming.Stream, StreamStreaming)
	}
	if !approxEqual(streaming.Revenue, 40000*1.21) {
		t.Errorf("year 3 streaming revenue = %.4f, expected %.4f", streaming.Revenue, 40000*1.21)
	}
}

func TestSplitCompleteness(t *testing.T) {
	params := scenarioA()
	params.GrowthRate = 7.5
	params.SyncProfitSplit = 33.3
	for _, r := range Project(params) {
		for _, sy := range r.Streams {
			if !approxEqual(sy.ArtistGross+sy.LabelShare, sy.Revenue) {
				t.Errorf("year %d %s: artist %.6f + label %.6f != revenue %.6f",
					r.Year, sy.Stream, sy.ArtistGross, sy.LabelShare, sy.Revenue)
			}
		}
		if !approxEqual(r.AnnualTotalRevenue, r.AnnualLabelRevenue+r.AnnualArtistGross) {
			t.Errorf("year %d: total %.6f != label %.6f + artist gross %.6f",
				r.Year, r.AnnualTotalRevenue, r.AnnualLabelRevenue, r.AnnualArtistGross)
		}
	}
}

func TestCumulativeFieldsNonDecreasing(t *testing.T) {
	params := scenarioA()
	params.GrowthRate = -20
	records := Project(params)

	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		if cur.CumulativeTotalRevenue < prev.CumulativeTotalRevenue ||
			cur.CumulativeLabelRevenue < prev.CumulativeLabelRevenue ||
			cur.CumulativeArtistRevenue < prev.CumulativeArtistRevenue ||
			cur.CumulativeArtistGross < prev.CumulativeArtistGross {
			t.Errorf("year %d cumulative figures decreased from year %d", cur.Year, prev.Year)
		}
	}
	if got := markedYears(records); len(got) > 1 {
		t.Errorf("expected at most one marker, got %v", got)
	}
}

func TestNetAroundRecoupment(t *testing.T) {
	params := scenarioA()
	params.GrowthRate = 4
	params.Advance = 200000
	records := Project(params)

	marked := markedYears(records)
	if len(marked) != 1 {
		t.Fatalf("expected exactly one marker, got %v", marked)
	}
	crossing := marked[0]

	for _, r := range records {
		switch {
		case r.Year < crossing:
			if r.AnnualArtistRevenue != 0 {
				t.Errorf("year %d before recoupment nets %.2f, expected 0", r.Year, r.AnnualArtistRevenue)
			}
		case r.Year == crossing:
			expected := r.CumulativeArtistGross - params.TotalRecoupable()
			if !approxEqual(r.AnnualArtistRevenue, expected) {
				t.Errorf("crossing year %d nets %.2f, expected prorated %.2f", r.Year, r.AnnualArtistRevenue, expected)
			}
		default:
			if r.AnnualArtistRevenue != r.AnnualArtistGross {
				t.Errorf("year %d after recoupment nets %.2f, expected full gross %.2f", r.Year, r.AnnualArtistRevenue, r.AnnualArtistGross)
			}
		}
	}
}

func TestZeroPoolRecoupsInYearOne(t *testing.T) {
	params := scenarioA()
	params.Advance = 0
	params.Marketing = 0
	records := Project(params)

	if got := markedYears(records); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("marked recoupment years = %v, expected [1]", got)
	}
	if !approxEqual(records[0].AnnualArtistRevenue, 34000) {
		t.Errorf("year 1 net = %.2f, expected full gross 34000", records[0].AnnualArtistRevenue)
	}
}

func TestExactPoolHitMarksNextYear(t *testing.T) {
	params := scenarioA()
	params.Advance = 136000
	params.Marketing = 0
	records := Project(params)

	year4 := records[3]
	if !approxEqual(year4.CumulativeArtistGross, 136000) {
		t.Fatalf("year 4 cumulative gross = %.2f, expected 136000", year4.CumulativeArtistGross)
	}
	if year4.AnnualArtistRevenue != 0 || year4.RecoupmentYear != nil {
		t.Errorf("year 4 sitting on the pool should net 0 unmarked, got net %.2f marker %v", year4.AnnualArtistRevenue, year4.RecoupmentYear)
	}
	if got := markedYears(records); !reflect.DeepEqual(got, []int{5}) {
		t.Fatalf("marked recoupment years = %v, expected [5]", got)
	}
	if !approxEqual(records[4].AnnualArtistRevenue, 34000) {
		t.Errorf("year 5 net = %.2f, expected full gross 34000", records[4].AnnualArtistRevenue)
	}
}

func TestNaNPoolNeverMarks(t *testing.T) {
	params := scenarioA()
	params.Advance = math.NaN()
	records := Project(params)

	if got := markedYears(records); len(got) != 0 {
		t.Errorf("expected no marker with a NaN pool, got %v", got)
	}
	if !approxEqual(records[0].AnnualArtistRevenue, 34000) {
		t.Errorf("year 1 net = %.2f, expected gross to pass through", records[0].AnnualArtistRevenue)
	}
}

func TestZeroPoolWithoutRevenueNeverRecoups(t *testing.T) {
	records := Project(DealParams{})
	if got := markedYears(records); len(got) != 0 {
		t.Errorf("expected no marker for an empty deal, got %v", got)
	}
	for _, r := range records {
		if r.CumulativeTotalRevenue != 0 || r.AnnualArtistRevenue != 0 {
			t.Errorf("year %d expected zero figures, got %+v", r.Year, r)
		}
	}
}

func TestNeverRecoups(t *testing.T) {
	params := scenarioA()
	params.Advance = 1000000
	params.Marketing = 500000
	records := Project(params)

	if got := markedYears(records); len(got) != 0 {
		t.Fatalf("expected no recoupment marker, got %v", got)
	}
	for _, r := range records {
		if r.AnnualArtistRevenue != 0 {
			t.Errorf("year %d nets %.2f, expected 0", r.Year, r.AnnualArtistRevenue)
		}
	}
}

func TestOnlyFirstCrossingIsMarked(t *testing.T) {
	params := scenarioA()
	params.Advance = 10000
	params.Marketing = 0
	// -200% flips the sign every year, so cumulative gross oscillates
	// between 34,000 and 0 and crosses the pool repeatedly.
	params.GrowthRate = -200
	records := Project(params)

	if got := markedYears(records); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("marked recoupment years = %v, expected [1]", got)
	}
	if !approxEqual(records[1].CumulativeArtistGross, 0) {
		t.Fatalf("year 2 cumulative gross = %.2f, expected 0", records[1].CumulativeArtistGross)
	}
	if !approxEqual(records[2].AnnualArtistRevenue, 24000) {
		t.Errorf("year 3 re-crossing nets %.2f, expected prorated 24000", records[2].AnnualArtistRevenue)
	}
}

func TestGrowthBelowMinusHundredIsNotClamped(t *testing.T) {
	params := scenarioA()
	params.GrowthRate = -150
	records := Project(params)

	if records[1].AnnualTotalRevenue >= 0 {
		t.Errorf("year 2 total = %.2f, expected a negative value", records[1].AnnualTotalRevenue)
	}
	if !approxEqual(records[1].AnnualTotalRevenue, -0.5*95000) {
		t.Errorf("year 2 total = %.2f, expected %.2f", records[1].AnnualTotalRevenue, -0.5*95000)
	}
}

func TestNaNPropagatesWithoutFailing(t *testing.T) {
	params := scenarioA()
	params.SongCount = math.NaN()
	records := Project(params)

	if len(records) != Years {
		t.Fatalf("Project() returned %d records, expected %d", len(records), Years)
	}
	if !math.IsNaN(records[0].AnnualTotalRevenue) {
		t.Errorf("year 1 total = %v, expected NaN", records[0].AnnualTotalRevenue)
	}
	if !math.IsNaN(records[Years-1].CumulativeArtistRevenue) {
		t.Errorf("year 15 cumulative net = %v, expected NaN", records[Years-1].CumulativeArtistRevenue)
	}
	if got := markedYears(records); len(got) != 0 {
		t.Errorf("expected no marker with NaN input, got %v", got)
	}
}

func TestProjectIsDeterministic(t *testing.T) {
	params := scenarioA()
	params.GrowthRate = 3.7
	first := Project(params)
	second := Project(params)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("Project() returned different results for identical input")
	}
}

func TestArtistNameDoesNotAffectFigures(t *testing.T) {
	named := scenarioA()
	named.ArtistName = "The Examples"
	if !reflect.DeepEqual(Project(named), Project(scenarioA())) {
		t.Fatal("artist name changed the projection")
	}
}

func TestDefaultDealParamsMatchReferenceDeal(t *testing.T) {
	if !reflect.DeepEqual(DefaultDealParams(), scenarioA()) {
		t.Errorf("DefaultDealParams() = %+v, expected %+v", DefaultDealParams(), scenarioA())
	}
}
