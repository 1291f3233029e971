package analytics

import (
	"fmt"
	"strings"
)

const (
	opportunityAnnualRate = 0.07
	opportunityYears      = 10
)

type categoryFamily struct {
	name     string
	keywords []string
	share    float64
	pitch    string
}

var categoryFamilies = []categoryFamily{
	{
		name:     "dining",
		keywords: []string{"dining", "food", "restaurant", "coffee", "takeout", "takeaway", "delivery"},
		share:    0.30,
		pitch:    "Cooking at home a few more nights a week",
	},
	{
		name:     "discretionary",
		keywords: []string{"shopping", "entertainment", "retail", "clothing", "streaming", "games"},
		share:    0.25,
		pitch:    "Holding off on non-essential purchases",
	},
}

var defaultFamily = categoryFamily{name: "other", share: 0.15, pitch: "Trimming this category"}

func familyFor(category string) categoryFamily {
	c := strings.ToLower(category)
	for _, f := range categoryFamilies {
		for _, k := range f.keywords {
			if strings.Contains(c, k) {
				return f
			}
		}
	}
	return defaultFamily
}

// DetectOpportunityCost shows what redirecting part of the biggest labelled
// category into an investment would be worth after ten years.
func DetectOpportunityCost(in Input) (*Insight, bool) {
	var top *CategoryAggregate
	for i := range in.Aggregates.ByCategory {
		if isLabeled(in.Aggregates.ByCategory[i].Category) {
			top = &in.Aggregates.ByCategory[i]
			break
		}
	}
	if top == nil || top.Total <= 0 {
		return nil, false
	}

	populated := len(in.Aggregates.ByMonth)
	if populated == 0 {
		return nil, false
	}
	monthly := top.Total / float64(populated)
	family := familyFor(top.Category)
	redirect := monthly * family.share
	future := futureValueOfAnnuity(redirect, opportunityAnnualRate/12, opportunityYears*12)

	name := displayCategory(top.Category)
	return &Insight{
		Kind:     KindOpportunityCost,
		Severity: SeverityInfo,
		Headline: fmt.Sprintf("%s could grow to %s", name, formatWholeMoney(future)),
		Narrative: fmt.Sprintf("You spend about %s a month on %s. %s and investing %s a month at 7%% would be worth %s in 10 years.",
			formatMoney(monthly), name, family.pitch, formatMoney(redirect), formatWholeMoney(future)),
		SupportingData: map[string]any{
			"category":        top.Category,
			"family":          family.name,
			"monthlyAverage":  round2(monthly),
			"annualSpend":     round2(monthly * 12),
			"redirectShare":   family.share,
			"monthlyRedirect": round2(redirect),
			"futureValue":     round2(future),
			"years":           opportunityYears,
			"annualRate":      opportunityAnnualRate,
		},
		ActionHint: "Set up an automatic monthly transfer for the amount you plan to redirect.",
		Confidence: 0.6,
	}, true
}
