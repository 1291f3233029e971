package analytics

import (
	"fmt"
	"time"
)

const (
	paydayWindowDays    = 3
	paydayMultiplierMin = 2.0
)

// DetectPaydayEffect compares the three days after each deposit with the
// spend an ordinary three-day stretch would produce.
func DetectPaydayEffect(in Input) (*Insight, bool) {
	span := spanDays(in.Aggregates.FirstDate, in.Aggregates.LastDate)
	if span <= 0 || in.Aggregates.TotalDebits <= 0 {
		return nil, false
	}
	expected := in.Aggregates.TotalDebits / float64(span) * paydayWindowDays

	daily := dailyDebitTotals(in.Transactions)
	today := startOfDay(in.Now)

	seen := make(map[string]bool)
	var windows []float64
	for _, t := range in.Transactions {
		if !t.IsCredit() {
			continue
		}
		payday := startOfDay(t.Date)
		key := dayKey(payday)
		if seen[key] {
			continue
		}
		// Paydays whose window has not finished yet would understate the effect.
		if payday.AddDate(0, 0, paydayWindowDays).After(today) {
			continue
		}
		seen[key] = true
		windows = append(windows, windowSpend(daily, payday))
	}
	if len(windows) == 0 {
		return nil, false
	}

	avgWindow := mean(windows)
	multiplier := avgWindow / expected
	if multiplier <= paydayMultiplierMin {
		return nil, false
	}

	excess := avgWindow - expected
	paydaysPerYear := float64(len(windows)) / float64(span) * 365
	projectedAnnual := excess * paydaysPerYear

	return &Insight{
		Kind:     KindPaydayEffect,
		Severity: SeverityWarning,
		Headline: fmt.Sprintf("You spend %.1fx more right after payday", multiplier),
		Narrative: fmt.Sprintf("In the three days after money arrives you spend %s on average, against %s in a typical three-day stretch. Over a year that adds up to about %s.",
			formatMoney(avgWindow), formatMoney(expected), formatWholeMoney(projectedAnnual)),
		SupportingData: map[string]any{
			"multiplier":            round2(multiplier),
			"averageWindowSpend":    round2(avgWindow),
			"expectedWindowSpend":   round2(expected),
			"paydays":               len(windows),
			"projectedAnnualExcess": round2(projectedAnnual),
		},
		ActionHint: "Move part of each paycheck into savings the day it lands.",
		Confidence: 0.4 + 0.1*float64(len(windows)),
	}, true
}

func windowSpend(daily map[string]float64, payday time.Time) float64 {
	var total float64
	for i := 1; i <= paydayWindowDays; i++ {
		total += daily[dayKey(payday.AddDate(0, 0, i))]
	}
	return total
}
