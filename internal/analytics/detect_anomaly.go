package analytics

import (
	"fmt"
	"sort"
	"time"
)

const (
	anomalyMinSpendingDays = 5
	anomalySigmaThreshold  = 2.0
	anomalyWarningZ        = 3.0
)

// DetectAnomaly flags the single day whose debit total sits furthest above
// the mean, provided it is more than two standard deviations out.
func DetectAnomaly(in Input) (*Insight, bool) {
	daily := dailyDebitTotals(in.Transactions)
	if len(daily) < anomalyMinSpendingDays {
		return nil, false
	}

	days := make([]string, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Strings(days)

	values := make([]float64, len(days))
	topIdx := 0
	for i, d := range days {
		values[i] = daily[d]
		if values[i] > values[topIdx] {
			topIdx = i
		}
	}

	avg := mean(values)
	stddev := populationStdDev(values, avg)
	if stddev == 0 {
		return nil, false
	}

	topDay, topTotal := days[topIdx], values[topIdx]
	deviation := topTotal - avg
	if deviation <= anomalySigmaThreshold*stddev {
		return nil, false
	}
	zScore := deviation / stddev

	// The flagged day is compared against a typical day, i.e. the mean of
	// every other spending day.
	typical := (sum(values) - topTotal) / float64(len(values)-1)
	var percentAbove float64
	if typical > 0 {
		percentAbove = (topTotal - typical) / typical * 100
	}

	largest, found := largestDebitOn(in.Transactions, topDay)
	day, _ := time.Parse(dayLayout, topDay)

	severity := SeverityInfo
	if zScore > anomalyWarningZ {
		severity = SeverityWarning
	}

	narrative := fmt.Sprintf("You spent %s on %s, %.0f%% more than a typical day (%s).",
		formatMoney(topTotal), day.Format("January 2"), percentAbove, formatMoney(typical))
	data := map[string]any{
		"day":          topDay,
		"amount":       round2(topTotal),
		"averageDaily": round2(typical),
		"meanDaily":    round2(avg),
		"percentAbove": round1(percentAbove),
		"zScore":       round2(zScore),
		"spendingDays": len(values),
	}
	if found {
		narrative += fmt.Sprintf(" The largest charge was %s at %s.", formatMoney(largest.Amount), merchantDisplayName(largest))
		data["largestTransaction"] = map[string]any{
			"description": largest.Description,
			"merchant":    merchantDisplayName(largest),
			"amount":      round2(largest.Amount),
		}
	}

	return &Insight{
		Kind:           KindAnomaly,
		Severity:       severity,
		Headline:       fmt.Sprintf("Unusual spending spike on %s", day.Format("Mon, Jan 2")),
		Narrative:      narrative,
		SupportingData: data,
		ActionHint:     "Check that every charge on this day was expected.",
		Confidence:     0.5 + (zScore-anomalySigmaThreshold)/4,
	}, true
}

func largestDebitOn(txns []TransactionRecord, day string) (TransactionRecord, bool) {
	var best TransactionRecord
	found := false
	for _, t := range txns {
		if !t.IsDebit() || dayKey(t.Date) != day {
			continue
		}
		if !found || t.Amount > best.Amount {
			best = t
			found = true
		}
	}
	return best, found
}
