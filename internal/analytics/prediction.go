package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

var allowedHistoryMonths = []int{3, 6, 9, 12}

const (
	predictionRecentMonths   = 3
	predictionDeviation      = 0.10
	predictionSlopeShare     = 0.05
	predictionMinMonths      = 3
	highBandMaxCV            = 0.20
	mediumBandMaxCV          = 0.50
	confidenceBase           = 40.0
	confidenceHistoryWeight  = 60.0
	confidenceVariationScale = 2.0
)

// normalizeHistoryMonths maps n onto 3, 6, 9 or 12, rounding up.
func normalizeHistoryMonths(n int) int {
	for _, m := range allowedHistoryMonths {
		if n <= m {
			return m
		}
	}
	return allowedHistoryMonths[len(allowedHistoryMonths)-1]
}

// GeneratePrediction extrapolates next month's spending from the full
// calendar months preceding now. It never fails: without history it returns
// a zero-confidence snapshot carrying a warning.
func (e *Engine) GeneratePrediction(txns []TransactionRecord, monthsToUse int) PredictionSnapshot {
	now := e.now()
	return predict(Prepare(txns, now), now, normalizeHistoryMonths(monthsToUse))
}

func predict(prepared []TransactionRecord, now time.Time, months int) PredictionSnapshot {
	currentStart := startOfMonth(now)
	windowStart := currentStart.AddDate(0, -months, 0)

	snap := PredictionSnapshot{
		TargetPeriod:      TargetPeriod(now),
		ByCategory:        []CategoryPrediction{},
		NarrativeInsights: []string{},
		Warnings:          []string{},
		GeneratedAt:       now,
	}

	window := make([]TransactionRecord, 0, len(prepared))
	for _, t := range prepared {
		if !t.Date.Before(windowStart) && t.Date.Before(currentStart) {
			window = append(window, t)
		}
	}
	history := aggregatePrepared(window).ByMonth
	used := len(history)
	if used == 0 {
		snap.Warnings = append(snap.Warnings,
			"Not enough transaction history to predict next month. Add at least one full month of transactions.")
		return snap
	}
	snap.MonthsOfHistoryUsed = used

	totals := make([]float64, used)
	for i, m := range history {
		totals[i] = m.TotalDebits
	}

	var lowBand []string
	for _, cat := range historyCategories(history) {
		series := make([]float64, used)
		present := 0
		for i, m := range history {
			if v, ok := m.ByCategory[cat]; ok && v > 0 {
				series[i] = v
				present++
			}
		}
		predicted := round2(mean(series[max(0, used-predictionRecentMonths):]))
		if predicted <= 0 {
			continue
		}
		band := confidenceBandFor(coefficientOfVariation(series), present, used)
		if band == BandLow {
			lowBand = append(lowBand, displayCategory(cat))
		}
		snap.ByCategory = append(snap.ByCategory, CategoryPrediction{
			Category:        cat,
			PredictedAmount: predicted,
			ConfidenceBand:  band,
		})
		snap.TotalPredicted += predicted
	}
	sort.SliceStable(snap.ByCategory, func(i, j int) bool {
		return snap.ByCategory[i].PredictedAmount > snap.ByCategory[j].PredictedAmount
	})
	snap.TotalPredicted = round2(snap.TotalPredicted)

	avg := mean(totals)
	snap.HistoricalAverage = round2(avg)
	slope, _ := linearRegression(totals)
	snap.TrendSlope = round2(slope)
	snap.OverallConfidence = overallConfidence(used, coefficientOfVariation(totals))

	snap.NarrativeInsights, snap.Warnings = predictionNarratives(snap, avg, slope, used, lowBand)
	return snap
}

func historyCategories(history []MonthlyAggregate) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, m := range history {
		for c := range m.ByCategory {
			if !seen[c] {
				seen[c] = true
				cats = append(cats, c)
			}
		}
	}
	sort.Strings(cats)
	return cats
}

func confidenceBandFor(cv float64, present, used int) ConfidenceBand {
	switch {
	case cv < highBandMaxCV && present >= max(1, used-1) && used >= 2:
		return BandHigh
	case cv < mediumBandMaxCV || present*2 >= used:
		return BandMedium
	default:
		return BandLow
	}
}

// overallConfidence grows with months of history and shrinks with the
// variability of monthly totals. Result is in [0,100] to one decimal.
func overallConfidence(used int, cv float64) float64 {
	history := float64(min(used, 12)) / 12
	score := (confidenceBase + confidenceHistoryWeight*history) / (1 + confidenceVariationScale*cv)
	return round1(clamp(score, 0, 100))
}

func predictionNarratives(snap PredictionSnapshot, avg, slope float64, used int, lowBand []string) ([]string, []string) {
	narratives := []string{}
	warnings := []string{}

	if avg > 0 {
		diff := (snap.TotalPredicted - avg) / avg
		switch {
		case diff > predictionDeviation:
			warnings = append(warnings, fmt.Sprintf(
				"Next month is projected at %s, %.0f%% above your %d-month average of %s.",
				formatMoney(snap.TotalPredicted), diff*100, used, formatMoney(avg)))
		case diff < -predictionDeviation:
			narratives = append(narratives, fmt.Sprintf(
				"Next month is projected at %s, %.0f%% below your %d-month average of %s.",
				formatMoney(snap.TotalPredicted), -diff*100, used, formatMoney(avg)))
		default:
			narratives = append(narratives, fmt.Sprintf(
				"Next month is projected at %s, in line with your %d-month average of %s.",
				formatMoney(snap.TotalPredicted), used, formatMoney(avg)))
		}
	}

	if len(snap.ByCategory) > 0 && snap.TotalPredicted > 0 {
		top := snap.ByCategory[0]
		narratives = append(narratives, fmt.Sprintf(
			"%s is expected to be your largest category at %s (%.0f%% of the total).",
			displayCategory(top.Category), formatMoney(top.PredictedAmount), top.PredictedAmount/snap.TotalPredicted*100))
	}

	if avg > 0 && math.Abs(slope) > predictionSlopeShare*avg {
		direction := "rising"
		if slope < 0 {
			direction = "falling"
		}
		narratives = append(narratives, fmt.Sprintf(
			"Monthly spending has been %s by about %s per month.", direction, formatMoney(math.Abs(slope))))
	}

	if used < predictionMinMonths {
		warnings = append(warnings, fmt.Sprintf(
			"Only %d %s of history available. Predictions improve with at least %d months.",
			used, pluralize(used, "month", "months"), predictionMinMonths))
	}
	if len(lowBand) > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"Spending varies a lot month to month in: %s.", strings.Join(lowBand, ", ")))
	}
	return narratives, warnings
}
