package analytics

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// formatMoney renders an amount as US dollars with digit grouping.
func formatMoney(v float64) string {
	p := message.NewPrinter(language.English)
	if v < 0 {
		return p.Sprintf("-$%.2f", math.Abs(v))
	}
	return p.Sprintf("$%.2f", v)
}

// formatWholeMoney drops the cents for large headline figures.
func formatWholeMoney(v float64) string {
	p := message.NewPrinter(language.English)
	if v < 0 {
		return p.Sprintf("-$%d", int64(math.Round(math.Abs(v))))
	}
	return p.Sprintf("$%d", int64(math.Round(v)))
}

// displayCategory title-cases all-lowercase labels ("dining out" -> "Dining Out")
// and leaves labels with deliberate casing ("ATM Fees") alone.
func displayCategory(category string) string {
	if category == "" {
		return UncategorizedLabel
	}
	if category != strings.ToLower(category) {
		return category
	}
	// Casers are stateful; detectors run concurrently so each call gets its own.
	return cases.Title(language.English).String(category)
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
