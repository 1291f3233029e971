package analytics

import (
	"fmt"
	"time"
)

const (
	lateNightStartHour = 20
	lateNightMinShare  = 0.25
	weekendMultiplier  = 1.5
)

// DetectTemporalBehavior looks for spending concentrated late in the evening
// or on weekends. Late-night spending takes priority when both apply.
func DetectTemporalBehavior(in Input) (*Insight, bool) {
	var byHour [24]float64
	var byWeekday [7]float64
	var total float64
	for _, t := range in.Transactions {
		if !t.IsDebit() {
			continue
		}
		byHour[t.Date.Hour()] += t.Amount
		byWeekday[t.Date.Weekday()] += t.Amount
		total += t.Amount
	}
	if total <= 0 {
		return nil, false
	}

	var lateNight float64
	for h := lateNightStartHour; h < 24; h++ {
		lateNight += byHour[h]
	}
	if share := lateNight / total; share > lateNightMinShare {
		return lateNightInsight(lateNight, share), true
	}

	return weekendInsight(byWeekday, in.Aggregates.FirstDate, in.Aggregates.LastDate)
}

func lateNightInsight(amount, share float64) *Insight {
	return &Insight{
		Kind:     KindTemporalBehavior,
		Severity: SeverityInfo,
		Headline: fmt.Sprintf("%.0f%% of your spending happens after 8pm", share*100),
		Narrative: fmt.Sprintf("You spent %s between 8pm and midnight. Evening purchases are more often impulse buys.",
			formatMoney(amount)),
		SupportingData: map[string]any{
			"pattern":        "late-night",
			"lateNightTotal": round2(amount),
			"share":          round2(share),
		},
		ActionHint: "Try a rule of waiting until morning before any evening purchase over $30.",
		Confidence: 0.5 + share/2,
	}
}

func weekendInsight(byWeekday [7]float64, first, last time.Time) (*Insight, bool) {
	span := spanDays(first, last)
	if span <= 0 {
		return nil, false
	}

	var weekendDays, weekdayDays int
	start := first.Weekday()
	for i := 0; i < span; i++ {
		switch (start + time.Weekday(i%7)) % 7 {
		case time.Saturday, time.Sunday:
			weekendDays++
		default:
			weekdayDays++
		}
	}
	if weekendDays == 0 || weekdayDays == 0 {
		return nil, false
	}

	weekendTotal := byWeekday[time.Saturday] + byWeekday[time.Sunday]
	weekdayTotal := sum(byWeekday[:]) - weekendTotal
	weekendAvg := weekendTotal / float64(weekendDays)
	weekdayAvg := weekdayTotal / float64(weekdayDays)
	if weekdayAvg <= 0 {
		return nil, false
	}

	ratio := weekendAvg / weekdayAvg
	if ratio <= weekendMultiplier {
		return nil, false
	}

	return &Insight{
		Kind:     KindTemporalBehavior,
		Severity: SeverityInfo,
		Headline: fmt.Sprintf("Weekends cost you %.1fx more per day", ratio),
		Narrative: fmt.Sprintf("You spend %s on an average weekend day compared with %s on a weekday.",
			formatMoney(weekendAvg), formatMoney(weekdayAvg)),
		SupportingData: map[string]any{
			"pattern":        "weekend",
			"weekendAverage": round2(weekendAvg),
			"weekdayAverage": round2(weekdayAvg),
			"ratio":          round2(ratio),
		},
		ActionHint: "Plan one low-cost weekend activity in advance.",
		Confidence: 0.5 + clamp01((ratio-weekendMultiplier)/3),
	}, true
}
