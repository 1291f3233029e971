package analytics

import (
	"fmt"
	"math"
	"sort"
)

const (
	categoryTrendMinGrowth = 0.20
	categoryTrendWarning   = 0.50

	lifestyleMinMonths      = 3
	lifestyleLookback       = 3
	lifestyleMinSpendGrowth = 0.15
	lifestyleMinGap         = 0.10
)

// DetectCategoryTrend reports the labelled category that grew fastest from
// the previous populated month to the latest completed one.
func DetectCategoryTrend(in Input) (*Insight, bool) {
	months := completedMonths(in.Aggregates.ByMonth, in.Now)
	if len(months) < 2 {
		return nil, false
	}
	cur, prev := months[len(months)-1], months[len(months)-2]

	categories := make([]string, 0, len(cur.ByCategory))
	for c := range cur.ByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var best string
	var bestGrowth float64
	for _, c := range categories {
		if !isLabeled(c) {
			continue
		}
		before := prev.ByCategory[c]
		if before <= 0 {
			continue
		}
		growth := (cur.ByCategory[c] - before) / before
		if best == "" || growth > bestGrowth {
			best, bestGrowth = c, growth
		}
	}
	if best == "" || bestGrowth <= categoryTrendMinGrowth {
		return nil, false
	}

	current := cur.ByCategory[best]
	previous := prev.ByCategory[best]
	projection := current * (1 + bestGrowth)

	severity := SeverityInfo
	if bestGrowth > categoryTrendWarning {
		severity = SeverityWarning
	}

	name := displayCategory(best)
	return &Insight{
		Kind:     KindCategoryTrend,
		Severity: severity,
		Headline: fmt.Sprintf("%s spending up %.0f%%", name, bestGrowth*100),
		Narrative: fmt.Sprintf("You spent %s on %s in %s, up from %s in %s. At this pace next month could reach %s.",
			formatMoney(current), name, cur.Month, formatMoney(previous), prev.Month, formatMoney(projection)),
		SupportingData: map[string]any{
			"category":        best,
			"currentMonth":    cur.Month,
			"previousMonth":   prev.Month,
			"currentAmount":   round2(current),
			"previousAmount":  round2(previous),
			"growthPercent":   round1(bestGrowth * 100),
			"projectedAmount": round2(projection),
		},
		ActionHint: fmt.Sprintf("Set a monthly limit for %s.", name),
		Confidence: 0.5 + clamp01(bestGrowth)/2,
	}, true
}

// DetectLifestyleInflation flags spending that outpaces income over roughly
// a quarter of completed months.
func DetectLifestyleInflation(in Input) (*Insight, bool) {
	months := completedMonths(in.Aggregates.ByMonth, in.Now)
	if len(months) < lifestyleMinMonths {
		return nil, false
	}

	latest := months[len(months)-1]
	baseIdx := len(months) - 1 - lifestyleLookback
	if baseIdx < 0 {
		baseIdx = 0
	}
	base := months[baseIdx]
	if base.TotalDebits <= 0 {
		return nil, false
	}

	spendGrowth := (latest.TotalDebits - base.TotalDebits) / base.TotalDebits
	var incomeGrowth float64
	if base.TotalCredits > 0 {
		incomeGrowth = (latest.TotalCredits - base.TotalCredits) / base.TotalCredits
	}
	gap := spendGrowth - incomeGrowth
	if spendGrowth <= lifestyleMinSpendGrowth || gap <= lifestyleMinGap {
		return nil, false
	}

	periods := monthsBetweenKeys(base.Month, latest.Month)
	if periods < 1 {
		periods = 1
	}
	perPeriod := math.Pow(1+spendGrowth, 1/float64(periods)) - 1
	projected := latest.TotalDebits * (1 + perPeriod)

	severity := SeverityWarning
	if incomeGrowth < 0 {
		severity = SeverityCritical
	}

	return &Insight{
		Kind:     KindLifestyleInflation,
		Severity: severity,
		Headline: fmt.Sprintf("Spending grew %.0f%% while income grew %.0f%%", spendGrowth*100, incomeGrowth*100),
		Narrative: fmt.Sprintf("Monthly spending went from %s in %s to %s in %s. If the trend holds, next month will be around %s.",
			formatMoney(base.TotalDebits), base.Month, formatMoney(latest.TotalDebits), latest.Month, formatMoney(projected)),
		SupportingData: map[string]any{
			"baselineMonth":        base.Month,
			"latestMonth":          latest.Month,
			"spendGrowthPercent":   round1(spendGrowth * 100),
			"incomeGrowthPercent":  round1(incomeGrowth * 100),
			"monthlyGrowthPercent": round1(perPeriod * 100),
			"projectedNextMonth":   round2(projected),
		},
		ActionHint: "Pick one recent upgrade in your spending and decide whether it is worth keeping.",
		Confidence: 0.5 + clamp01(gap)/2,
	}, true
}
