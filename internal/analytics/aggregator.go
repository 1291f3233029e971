package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Prepare returns the records the engine actually analyses: well-formed,
// dated no later than now, with a defaulted category, sorted by date.
func Prepare(txns []TransactionRecord, now time.Time) []TransactionRecord {
	prepared, _ := prepare(txns, now)
	return prepared
}

func prepare(txns []TransactionRecord, now time.Time) ([]TransactionRecord, int) {
	out := make([]TransactionRecord, 0, len(txns))
	skipped := 0
	for _, t := range txns {
		if t.Date.After(now) {
			continue
		}
		dir, ok := normalizeDirection(t.Direction)
		if !ok || t.Date.IsZero() || !finite(t.Amount) || t.Amount < 0 {
			skipped++
			continue
		}
		t.Direction = dir
		t.Category = normalizeCategory(t.Category)
		if !finite(t.CategoryConfidence) {
			t.CategoryConfidence = 0
		}
		t.CategoryConfidence = clamp01(t.CategoryConfidence)
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, skipped
}

func normalizeDirection(d Direction) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(string(d)))) {
	case DirectionDebit:
		return DirectionDebit, true
	case DirectionCredit:
		return DirectionCredit, true
	default:
		return "", false
	}
}

func normalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return UncategorizedLabel
	}
	return c
}

// isLabeled reports whether a category carries real information.
func isLabeled(category string) bool {
	c := strings.TrimSpace(category)
	return c != "" && !strings.EqualFold(c, UncategorizedLabel)
}

// Aggregate builds category and month summaries from txns as seen at now.
func Aggregate(txns []TransactionRecord, now time.Time) Aggregates {
	prepared, skipped := prepare(txns, now)
	agg := aggregatePrepared(prepared)
	agg.Skipped = skipped
	return agg
}

type monthAccumulator struct {
	debits     decimal.Decimal
	credits    decimal.Decimal
	count      int
	byCategory map[string]decimal.Decimal
}

// aggregatePrepared assumes txns already went through prepare.
func aggregatePrepared(txns []TransactionRecord) Aggregates {
	var agg Aggregates

	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	categoryTotals := make(map[string]decimal.Decimal)
	categoryCounts := make(map[string]int)
	months := make(map[string]*monthAccumulator)

	for _, t := range txns {
		amount := decimal.NewFromFloat(t.Amount)
		key := monthKey(t.Date)
		m, ok := months[key]
		if !ok {
			m = &monthAccumulator{byCategory: make(map[string]decimal.Decimal)}
			months[key] = m
		}
		m.count++

		if agg.FirstDate.IsZero() || t.Date.Before(agg.FirstDate) {
			agg.FirstDate = t.Date
		}
		if t.Date.After(agg.LastDate) {
			agg.LastDate = t.Date
		}

		if t.IsCredit() {
			creditTotal = creditTotal.Add(amount)
			m.credits = m.credits.Add(amount)
			agg.CreditCount++
			continue
		}

		debitTotal = debitTotal.Add(amount)
		m.debits = m.debits.Add(amount)
		m.byCategory[t.Category] = m.byCategory[t.Category].Add(amount)
		categoryTotals[t.Category] = categoryTotals[t.Category].Add(amount)
		categoryCounts[t.Category]++
		agg.DebitCount++
	}

	agg.TotalDebits = debitTotal.InexactFloat64()
	agg.TotalCredits = creditTotal.InexactFloat64()
	if agg.DebitCount > 0 {
		agg.AverageDebit = debitTotal.Div(decimal.NewFromInt(int64(agg.DebitCount))).InexactFloat64()
	}

	agg.ByCategory = make([]CategoryAggregate, 0, len(categoryTotals))
	for cat, total := range categoryTotals {
		var pct float64
		if debitTotal.IsPositive() {
			pct = total.Div(debitTotal).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		agg.ByCategory = append(agg.ByCategory, CategoryAggregate{
			Category:               cat,
			Total:                  total.InexactFloat64(),
			Count:                  categoryCounts[cat],
			PercentageOfDebitTotal: pct,
		})
	}
	sort.Slice(agg.ByCategory, func(i, j int) bool {
		if agg.ByCategory[i].Total != agg.ByCategory[j].Total {
			return agg.ByCategory[i].Total > agg.ByCategory[j].Total
		}
		return agg.ByCategory[i].Category < agg.ByCategory[j].Category
	})

	agg.ByMonth = make([]MonthlyAggregate, 0, len(months))
	for key, m := range months {
		byCat := make(map[string]float64, len(m.byCategory))
		for cat, v := range m.byCategory {
			byCat[cat] = v.InexactFloat64()
		}
		agg.ByMonth = append(agg.ByMonth, MonthlyAggregate{
			Month:            key,
			TotalDebits:      m.debits.InexactFloat64(),
			TotalCredits:     m.credits.InexactFloat64(),
			TransactionCount: m.count,
			ByCategory:       byCat,
		})
	}
	sort.Slice(agg.ByMonth, func(i, j int) bool {
		return agg.ByMonth[i].Month < agg.ByMonth[j].Month
	})

	return agg
}

// labeledShare is the fraction of transactions carrying a real category.
func labeledShare(txns []TransactionRecord) float64 {
	if len(txns) == 0 {
		return 0
	}
	labeled := 0
	for _, t := range txns {
		if isLabeled(t.Category) {
			labeled++
		}
	}
	return float64(labeled) / float64(len(txns))
}

// dailyDebitTotals sums debit spend per calendar day.
func dailyDebitTotals(txns []TransactionRecord) map[string]float64 {
	totals := make(map[string]float64)
	for _, t := range txns {
		if t.IsDebit() {
			totals[dayKey(t.Date)] += t.Amount
		}
	}
	return totals
}
