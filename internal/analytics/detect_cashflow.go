package analytics

import "fmt"

const (
	cashFlowShortfallThreshold = -50.0
	cashFlowSurplusThreshold   = 100.0
	cashFlowCriticalShare      = 0.25
)

// DetectCashFlowProjection projects month-end balance from spend so far plus
// the historical daily rate for the days that remain.
func DetectCashFlowProjection(in Input) (*Insight, bool) {
	monthStart := startOfMonth(in.Now)
	currentKey := monthKey(in.Now)

	var currentDebits, currentCredits, historyDebits float64
	var currentActivity bool
	for _, t := range in.Transactions {
		if !t.Date.Before(monthStart) {
			currentActivity = true
			if t.IsDebit() {
				currentDebits += t.Amount
			} else {
				currentCredits += t.Amount
			}
			continue
		}
		if t.IsDebit() {
			historyDebits += t.Amount
		}
	}
	if !currentActivity {
		return nil, false
	}

	elapsed := in.Now.Day()
	remaining := daysInMonth(in.Now) - elapsed

	var avgDaily float64
	first := in.Aggregates.FirstDate
	if historyDays := calendarDaysBetween(first, monthStart); first.Before(monthStart) && historyDays > 0 {
		avgDaily = historyDebits / float64(historyDays)
	} else {
		avgDaily = currentDebits / float64(elapsed)
	}
	projected := currentDebits + avgDaily*float64(remaining)

	income := currentCredits
	incomeSource := "current-month"
	if income <= 0 {
		income = historicalMonthlyIncome(in.Aggregates.ByMonth, currentKey)
		incomeSource = "historical-average"
	}
	if income <= 0 {
		return nil, false
	}

	net := income - projected
	data := map[string]any{
		"spentSoFar":     round2(currentDebits),
		"projectedSpend": round2(projected),
		"expectedIncome": round2(income),
		"incomeSource":   incomeSource,
		"projectedNet":   round2(net),
		"averageDaily":   round2(avgDaily),
		"daysRemaining":  remaining,
	}
	confidence := 0.4 + 0.5*float64(elapsed)/float64(daysInMonth(in.Now))

	switch {
	case net < cashFlowShortfallThreshold:
		shortfall := -net
		severity := SeverityWarning
		if shortfall > cashFlowCriticalShare*income {
			severity = SeverityCritical
		}
		var reduction float64
		if remaining > 0 {
			reduction = shortfall / float64(remaining)
		}
		data["dailyReductionNeeded"] = round2(reduction)
		narrative := fmt.Sprintf("At your usual pace you will spend %s this month against %s of income.",
			formatMoney(projected), formatMoney(income))
		if remaining > 0 {
			narrative += fmt.Sprintf(" Cutting %s a day for the remaining %d %s would close the gap.",
				formatMoney(reduction), remaining, pluralize(remaining, "day", "days"))
		}
		return &Insight{
			Kind:           KindCashFlowProjection,
			Severity:       severity,
			Headline:       fmt.Sprintf("Projected shortfall of %s this month", formatMoney(shortfall)),
			Narrative:      narrative,
			SupportingData: data,
			ActionHint:     "Postpone non-essential purchases until next month.",
			Confidence:     confidence,
		}, true
	case net > cashFlowSurplusThreshold:
		return &Insight{
			Kind:     KindCashFlowProjection,
			Severity: SeveritySuccess,
			Headline: fmt.Sprintf("On track for a %s surplus this month", formatMoney(net)),
			Narrative: fmt.Sprintf("At your usual pace you will spend %s this month against %s of income.",
				formatMoney(projected), formatMoney(income)),
			SupportingData: data,
			ActionHint:     "Move the expected surplus into savings now, before it gets spent.",
			Confidence:     confidence,
		}, true
	default:
		return nil, false
	}
}

// historicalMonthlyIncome averages credits over populated months before currentKey.
func historicalMonthlyIncome(months []MonthlyAggregate, currentKey string) float64 {
	var total float64
	var n int
	for _, m := range months {
		if m.Month >= currentKey {
			continue
		}
		total += m.TotalCredits
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
