package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func richHistory() []TransactionRecord {
	txns := diningHistory()
	txns = append(txns, monthlyCharges("Netflix", 13.99, 13.99, 14.50, 13.99, 13.99, 13.99)...)
	txns = append(txns, monthlyCharges("Spotify", 9.99, 9.99, 9.99, 9.99, 9.99, 9.99)...)
	txns = append(txns, monthlyCharges("Gym Membership", 30, 30, 30, 30, 30, 30)...)
	for d := 1; d <= 30; d++ {
		txns = append(txns, debit(at(2025, time.June, d, 21), "Late Night Delivery", "Takeout", 25))
	}
	txns = append(txns, debit(on(2025, time.June, 20), "Electronics Store", "Shopping", 1800))
	return txns
}

func TestGenerateInsights_DemoFallback(t *testing.T) {
	now := at(2025, time.June, 30, 23)
	engine := NewEngine(WithClock(fixedClock(now)))

	t.Run("empty input", func(t *testing.T) {
		insights := engine.GenerateInsights(nil)
		require.NotEmpty(t, insights)
		for _, in := range insights {
			assert.True(t, in.Sample)
		}
	})

	t.Run("fewer than ten records", func(t *testing.T) {
		txns := diningHistory()[:9]
		assert.Equal(t, DemoInsights(), engine.GenerateInsights(txns))
	})

	t.Run("mostly uncategorised", func(t *testing.T) {
		var txns []TransactionRecord
		for d := 1; d <= 20; d++ {
			category := ""
			if d <= 5 {
				category = "Dining"
			}
			txns = append(txns, debit(on(2025, time.June, d), "Shop", category, 10))
		}
		assert.Equal(t, DemoInsights(), engine.GenerateInsights(txns))
	})

	t.Run("future records do not count toward the threshold", func(t *testing.T) {
		var txns []TransactionRecord
		for d := 1; d <= 12; d++ {
			txns = append(txns, debit(on(2025, time.July, d), "Shop", "Dining", 10))
		}
		assert.Equal(t, DemoInsights(), engine.GenerateInsights(txns))
	})

	t.Run("demo feed is stable and isolated between calls", func(t *testing.T) {
		first := DemoInsights()
		first[0].Headline = "mutated"
		first[0].SupportingData["projectedNet"] = 1.0
		assert.NotEqual(t, first, DemoInsights())
		assert.Equal(t, DemoInsights(), DemoInsights())
	})
}

func TestGenerateInsights_EndToEnd(t *testing.T) {
	now := at(2025, time.June, 30, 23)
	engine := NewEngine(WithClock(fixedClock(now)))

	insights := engine.GenerateInsights(diningHistory())
	require.NotEmpty(t, insights)

	byKind := make(map[InsightKind]Insight)
	for _, in := range insights {
		assert.False(t, in.Sample)
		byKind[in.Kind] = in
	}

	trend, ok := byKind[KindCategoryTrend]
	require.True(t, ok, "expected a category trend insight")
	assert.Equal(t, "Dining", trend.SupportingData["category"])
	assert.InDelta(t, 35.0, trend.SupportingData["growthPercent"], 0.01)
	assert.Contains(t, trend.Headline, "Dining")

	savings, ok := byKind[KindSavingsSummary]
	require.True(t, ok)
	assert.Equal(t, SeveritySuccess, savings.Severity)

	top, ok := byKind[KindTopCategory]
	require.True(t, ok)
	assert.Equal(t, "Groceries", top.SupportingData["category"])

	_, ok = byKind[KindCategorizationReminder]
	assert.False(t, ok, "every record is labelled")
}

func TestGenerateInsights_MidMonth(t *testing.T) {
	now := at(2025, time.July, 15, 12)
	engine := NewEngine(WithClock(fixedClock(now)))

	txns := append(diningHistory(),
		debit(on(2025, time.July, 1), "Bistro", "Dining", 45),
		debit(on(2025, time.July, 2), "Market", "Groceries", 100),
		credit(on(2025, time.July, 1), "Salary", 3000),
	)

	var trend *Insight
	for _, in := range engine.GenerateInsights(txns) {
		if in.Kind == KindCategoryTrend {
			trend = &in
		}
	}
	require.NotNil(t, trend, "expected a category trend insight")
	assert.Equal(t, "Dining", trend.SupportingData["category"])
	assert.Equal(t, "2025-06", trend.SupportingData["currentMonth"])
}

func TestGenerateInsights_Ordering(t *testing.T) {
	now := at(2025, time.June, 30, 23)
	insights := NewEngine(WithClock(fixedClock(now))).GenerateInsights(richHistory())
	require.NotEmpty(t, insights)

	seen := make(map[InsightKind]bool)
	for i, in := range insights {
		assert.False(t, seen[in.Kind], "duplicate kind %s", in.Kind)
		seen[in.Kind] = true
		if i > 0 {
			assert.LessOrEqual(t, insights[i-1].Severity.rank(), in.Severity.rank())
		}
		assert.GreaterOrEqual(t, in.Confidence, 0.0)
		assert.LessOrEqual(t, in.Confidence, 1.0)
		for k, v := range in.SupportingData {
			if f, ok := v.(float64); ok {
				assert.False(t, math.IsNaN(f) || math.IsInf(f, 0), "%s.%s is not finite", in.Kind, k)
			}
		}
	}
	assert.True(t, seen[KindRecurringCharge])
	assert.True(t, seen[KindAnomaly])
}

func TestGenerateInsights_ParallelMatchesSequential(t *testing.T) {
	now := at(2025, time.June, 30, 23)
	txns := richHistory()

	parallel := NewEngine(WithClock(fixedClock(now)), WithParallelDetectors(true)).GenerateInsights(txns)
	sequential := NewEngine(WithClock(fixedClock(now)), WithParallelDetectors(false)).GenerateInsights(txns)
	assert.Equal(t, sequential, parallel)

	again := NewEngine(WithClock(fixedClock(now))).GenerateInsights(txns)
	assert.Equal(t, parallel, again)
}

func TestGenerateInsights_FaultyDetector(t *testing.T) {
	now := at(2025, time.June, 30, 23)
	engine := NewEngine(WithClock(fixedClock(now)), WithLogger(zerolog.Nop()))
	engine.detectors = []Detector{
		{Kind: "broken", Detect: func(Input) (*Insight, bool) { panic("index out of range") }},
		{Kind: KindCategoryTrend, Detect: DetectCategoryTrend},
		{Kind: KindCategoryTrend, Detect: DetectCategoryTrend},
	}

	insights := engine.GenerateInsights(diningHistory())
	count := 0
	for _, in := range insights {
		if in.Kind == KindCategoryTrend {
			count++
		}
	}
	assert.Equal(t, 1, count, "duplicate kinds collapse to one")
}

func TestGenerateInsights_CategorizationReminder(t *testing.T) {
	now := at(2025, time.June, 30, 23)
	var txns []TransactionRecord
	for d := 1; d <= 14; d++ {
		category := "Dining"
		if d > 10 {
			category = ""
		}
		txns = append(txns, debit(on(2025, time.June, d), "Shop", category, 10))
	}

	insights := NewEngine(WithClock(fixedClock(now))).GenerateInsights(txns)
	var reminder *Insight
	for i := range insights {
		if insights[i].Kind == KindCategorizationReminder {
			reminder = &insights[i]
		}
	}
	require.NotNil(t, reminder)
	assert.Equal(t, 4, reminder.SupportingData["uncategorized"])

	var savings *Insight
	for i := range insights {
		if insights[i].Kind == KindSavingsSummary {
			savings = &insights[i]
		}
	}
	require.NotNil(t, savings)
	assert.Equal(t, SeverityWarning, savings.Severity, "no income recorded")
}
