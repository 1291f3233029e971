package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	recurringMinOccurrences  = 2
	recurringAmountTolerance = 0.10
	recurringMinGapDays      = 25
	recurringMaxGapDays      = 35

	// A single subscription is not news; only report a cluster of them.
	recurringMinMerchants  = 3
	recurringWarningAnnual = 600.0
)

// RecurringCharge is a merchant billed at a near-fixed amount roughly monthly.
type RecurringCharge struct {
	Merchant            string    `json:"merchant"`
	Occurrences         int       `json:"occurrences"`
	AverageAmount       float64   `json:"averageAmount"`
	MinAmount           float64   `json:"minAmount"`
	MaxAmount           float64   `json:"maxAmount"`
	AverageIntervalDays float64   `json:"averageIntervalDays"`
	FirstDate           time.Time `json:"firstDate"`
	LastDate            time.Time `json:"lastDate"`
	NextExpected        time.Time `json:"nextExpected"`
}

// RecurringCandidates returns every merchant that looks like a monthly
// subscription, most expensive first.
func RecurringCandidates(txns []TransactionRecord) []RecurringCharge {
	var results []RecurringCharge

	for _, g := range groupDebitsByMerchant(txns) {
		if len(g.transactions) < recurringMinOccurrences {
			continue
		}

		amounts := make([]float64, len(g.transactions))
		minAmount, maxAmount := math.Inf(1), math.Inf(-1)
		for i, t := range g.transactions {
			amounts[i] = t.Amount
			minAmount = math.Min(minAmount, t.Amount)
			maxAmount = math.Max(maxAmount, t.Amount)
		}
		avgAmount := mean(amounts)
		if avgAmount <= 0 || maxAmount-minAmount >= recurringAmountTolerance*avgAmount {
			continue
		}

		intervals, monthly := monthlyIntervals(g.transactions)
		if !monthly {
			continue
		}

		last := g.transactions[len(g.transactions)-1]
		results = append(results, RecurringCharge{
			Merchant:            g.name,
			Occurrences:         len(g.transactions),
			AverageAmount:       round2(avgAmount),
			MinAmount:           minAmount,
			MaxAmount:           maxAmount,
			AverageIntervalDays: round1(mean(intervals)),
			FirstDate:           g.transactions[0].Date,
			LastDate:            last.Date,
			NextExpected:        last.Date.AddDate(0, 1, 0),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].AverageAmount != results[j].AverageAmount {
			return results[i].AverageAmount > results[j].AverageAmount
		}
		return results[i].Merchant < results[j].Merchant
	})
	return results
}

// monthlyIntervals returns the day gaps between consecutive charges and
// whether every gap falls inside the monthly window.
func monthlyIntervals(txns []TransactionRecord) ([]float64, bool) {
	intervals := make([]float64, 0, len(txns)-1)
	for i := 1; i < len(txns); i++ {
		days := calendarDaysBetween(txns[i-1].Date, txns[i].Date)
		if days < recurringMinGapDays || days > recurringMaxGapDays {
			return nil, false
		}
		intervals = append(intervals, float64(days))
	}
	return intervals, len(intervals) > 0
}

// DetectRecurringCharges reports the combined cost of detected subscriptions.
func DetectRecurringCharges(in Input) (*Insight, bool) {
	candidates := RecurringCandidates(in.Transactions)
	if len(candidates) < recurringMinMerchants {
		return nil, false
	}

	var monthly float64
	var occurrences int
	merchants := make([]map[string]any, 0, len(candidates))
	for _, c := range candidates {
		monthly += c.AverageAmount
		occurrences += c.Occurrences
		merchants = append(merchants, map[string]any{
			"merchant":      c.Merchant,
			"averageAmount": c.AverageAmount,
			"occurrences":   c.Occurrences,
			"nextExpected":  dayKey(c.NextExpected),
		})
	}
	annual := monthly * 12
	top := candidates[0]

	severity := SeverityInfo
	if annual >= recurringWarningAnnual {
		severity = SeverityWarning
	}

	return &Insight{
		Kind:     KindRecurringCharge,
		Severity: severity,
		Headline: fmt.Sprintf("%d subscriptions cost you %s a year", len(candidates), formatWholeMoney(annual)),
		Narrative: fmt.Sprintf("We found %d recurring charges totalling %s per month. %s is the largest at %s per month.",
			len(candidates), formatMoney(monthly), top.Merchant, formatMoney(top.AverageAmount)),
		SupportingData: map[string]any{
			"merchantCount":  len(candidates),
			"monthlyCost":    round2(monthly),
			"annualCost":     round2(annual),
			"topMerchant":    top.Merchant,
			"topMonthlyCost": top.AverageAmount,
			"merchants":      merchants,
		},
		ActionHint: "Review these subscriptions and cancel the ones you no longer use.",
		Confidence: 0.5 + 0.1*float64(occurrences)/float64(len(candidates)),
	}, true
}
