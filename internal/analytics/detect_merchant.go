package analytics

import "fmt"

const (
	merchantMinVisits   = 5
	merchantCashbackPct = 0.02
	avgDaysPerMonth     = 30.44
)

// DetectMerchantConcentration surfaces the most-visited merchant.
func DetectMerchantConcentration(in Input) (*Insight, bool) {
	var top *merchantGroup
	var topTotal float64
	for _, g := range groupDebitsByMerchant(in.Transactions) {
		var total float64
		for _, t := range g.transactions {
			total += t.Amount
		}
		if top == nil || len(g.transactions) > len(top.transactions) ||
			(len(g.transactions) == len(top.transactions) && total > topTotal) {
			top, topTotal = g, total
		}
	}
	if top == nil || len(top.transactions) < merchantMinVisits {
		return nil, false
	}

	visits := len(top.transactions)
	first := top.transactions[0].Date
	last := top.transactions[visits-1].Date
	months := float64(spanDays(first, last)) / avgDaysPerMonth
	if months < 1 {
		months = 1
	}
	perMonth := float64(visits) / months
	cashback := topTotal * merchantCashbackPct

	return &Insight{
		Kind:     KindMerchantConcentration,
		Severity: SeverityInfo,
		Headline: fmt.Sprintf("%s is your most visited merchant", top.name),
		Narrative: fmt.Sprintf("You shopped at %s %d %s (about %.1f times a month) and spent %s there. A 2%% cashback card would have returned %s.",
			top.name, visits, pluralize(visits, "time", "times"), perMonth, formatMoney(topTotal), formatMoney(cashback)),
		SupportingData: map[string]any{
			"merchant":          top.name,
			"visits":            visits,
			"total":             round2(topTotal),
			"averageTicket":     round2(topTotal / float64(visits)),
			"visitsPerMonth":    round1(perMonth),
			"estimatedCashback": round2(cashback),
		},
		ActionHint: fmt.Sprintf("Check whether %s has a loyalty or rewards program.", top.name),
		Confidence: 0.5 + 0.05*float64(visits),
	}, true
}
