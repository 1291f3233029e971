package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHistoryMonths(t *testing.T) {
	cases := map[int]int{-4: 3, 0: 3, 1: 3, 3: 3, 4: 6, 6: 6, 7: 9, 10: 12, 12: 12, 24: 12}
	for in, want := range cases {
		assert.Equal(t, want, normalizeHistoryMonths(in), "n=%d", in)
	}
}

// steadyYear is twelve identical months, July 2024 through June 2025.
func steadyYear() []TransactionRecord {
	var txns []TransactionRecord
	start := on(2024, time.July, 5)
	for i := 0; i < 12; i++ {
		d := start.AddDate(0, i, 0)
		txns = append(txns,
			debit(d, "Landlord", "Rent", 1000),
			debit(d.AddDate(0, 0, 1), "Market", "Groceries", 400),
			credit(d, "Salary", 3000),
		)
	}
	return txns
}

func TestGeneratePrediction(t *testing.T) {
	now := at(2025, time.July, 10, 9)
	engine := NewEngine(WithClock(fixedClock(now)))

	t.Run("no history", func(t *testing.T) {
		snap := engine.GeneratePrediction(nil, 6)
		assert.Equal(t, "2025-08", snap.TargetPeriod)
		assert.Zero(t, snap.TotalPredicted)
		assert.Zero(t, snap.OverallConfidence)
		assert.Zero(t, snap.MonthsOfHistoryUsed)
		assert.NotNil(t, snap.ByCategory)
		assert.Empty(t, snap.ByCategory)
		assert.Len(t, snap.Warnings, 1)
		assert.Equal(t, now, snap.GeneratedAt)
	})

	t.Run("only current month data is not history", func(t *testing.T) {
		txns := []TransactionRecord{debit(on(2025, time.July, 2), "Shop", "Shopping", 80)}
		snap := engine.GeneratePrediction(txns, 3)
		assert.Zero(t, snap.MonthsOfHistoryUsed)
		assert.Len(t, snap.Warnings, 1)
	})

	t.Run("steady history predicts the same month again", func(t *testing.T) {
		snap := engine.GeneratePrediction(steadyYear(), 6)
		assert.Equal(t, 6, snap.MonthsOfHistoryUsed)
		assert.InDelta(t, 1400.0, snap.TotalPredicted, 1e-9)
		assert.InDelta(t, 1400.0, snap.HistoricalAverage, 1e-9)
		assert.Zero(t, snap.TrendSlope)
		assert.Empty(t, snap.Warnings)

		require.Len(t, snap.ByCategory, 2)
		assert.Equal(t, "Rent", snap.ByCategory[0].Category)
		assert.Equal(t, 1000.0, snap.ByCategory[0].PredictedAmount)
		assert.Equal(t, BandHigh, snap.ByCategory[0].ConfidenceBand)
		assert.Equal(t, BandHigh, snap.ByCategory[1].ConfidenceBand)
		require.NotEmpty(t, snap.NarrativeInsights)
		assert.Contains(t, snap.NarrativeInsights[0], "in line")
	})

	t.Run("confidence grows with months of history", func(t *testing.T) {
		expected := map[int]float64{3: 55, 6: 70, 9: 85, 12: 100}
		prev := -1.0
		for _, n := range []int{3, 6, 9, 12} {
			snap := engine.GeneratePrediction(steadyYear(), n)
			assert.Equal(t, n, snap.MonthsOfHistoryUsed)
			assert.InDelta(t, expected[n], snap.OverallConfidence, 1e-9, "n=%d", n)
			assert.GreaterOrEqual(t, snap.OverallConfidence, prev)
			prev = snap.OverallConfidence
		}
	})

	t.Run("requested months are normalised", func(t *testing.T) {
		snap := engine.GeneratePrediction(steadyYear(), 4)
		assert.Equal(t, 6, snap.MonthsOfHistoryUsed)
		snap = engine.GeneratePrediction(steadyYear(), 40)
		assert.Equal(t, 12, snap.MonthsOfHistoryUsed)
	})

	t.Run("future records are ignored", func(t *testing.T) {
		txns := append(steadyYear(), debit(on(2025, time.September, 1), "Dealer", "Car", 30000))
		snap := engine.GeneratePrediction(txns, 3)
		assert.InDelta(t, 1400.0, snap.TotalPredicted, 1e-9)
		for _, c := range snap.ByCategory {
			assert.NotEqual(t, "Car", c.Category)
		}
	})

	t.Run("short history warns", func(t *testing.T) {
		txns := []TransactionRecord{debit(on(2025, time.June, 3), "Market", "Groceries", 300)}
		snap := engine.GeneratePrediction(txns, 3)
		assert.Equal(t, 1, snap.MonthsOfHistoryUsed)
		require.Len(t, snap.ByCategory, 1)
		assert.Equal(t, BandMedium, snap.ByCategory[0].ConfidenceBand)
		require.NotEmpty(t, snap.Warnings)
		assert.Contains(t, snap.Warnings[0], "Only 1 month")
		assert.Greater(t, snap.OverallConfidence, 0.0)
	})

	t.Run("erratic category is low confidence", func(t *testing.T) {
		txns := steadyYear()
		txns = append(txns, debit(on(2025, time.June, 20), "Airline", "Travel", 600))
		snap := engine.GeneratePrediction(txns, 6)

		var travel *CategoryPrediction
		for i := range snap.ByCategory {
			if snap.ByCategory[i].Category == "Travel" {
				travel = &snap.ByCategory[i]
			}
		}
		require.NotNil(t, travel)
		assert.Equal(t, BandLow, travel.ConfidenceBand)
		assert.InDelta(t, 200.0, travel.PredictedAmount, 1e-9)

		found := false
		for _, w := range snap.Warnings {
			if strings.Contains(w, "Travel") {
				found = true
			}
		}
		assert.True(t, found, "expected a variability warning naming Travel")
	})

	t.Run("rising spend is described", func(t *testing.T) {
		var txns []TransactionRecord
		for i := 0; i < 6; i++ {
			txns = append(txns, debit(on(2025, time.Month(1+i), 10), "Store", "Shopping", 1000+200*float64(i)))
		}
		snap := engine.GeneratePrediction(txns, 6)
		assert.InDelta(t, 200.0, snap.TrendSlope, 1e-6)

		rising := false
		for _, n := range snap.NarrativeInsights {
			if strings.Contains(n, "rising") {
				rising = true
			}
		}
		assert.True(t, rising)
		// Last three months average 1800 against a 1500 average.
		assert.InDelta(t, 1800.0, snap.TotalPredicted, 1e-9)
		require.NotEmpty(t, snap.Warnings)
		assert.Contains(t, snap.Warnings[0], "above")
	})
}
