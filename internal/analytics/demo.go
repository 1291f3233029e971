package analytics

// DemoInsights returns the fixed demonstration feed shown when a user has
// too little data. Every call builds a fresh copy with identical content.
func DemoInsights() []Insight {
	insights := []Insight{
		{
			Kind:      KindCashFlowProjection,
			Severity:  SeverityWarning,
			Headline:  "Projected shortfall of $240.00 this month",
			Narrative: "At your usual pace you will spend $3,440.00 this month against $3,200.00 of income. Cutting $20.00 a day for the remaining 12 days would close the gap.",
			SupportingData: map[string]any{
				"spentSoFar":           2120.0,
				"projectedSpend":       3440.0,
				"expectedIncome":       3200.0,
				"projectedNet":         -240.0,
				"dailyReductionNeeded": 20.0,
				"daysRemaining":        12,
			},
			ActionHint: "Postpone non-essential purchases until next month.",
			Confidence: 0.7,
		},
		{
			Kind:      KindRecurringCharge,
			Severity:  SeverityWarning,
			Headline:  "4 subscriptions cost you $780 a year",
			Narrative: "We found 4 recurring charges totalling $65.00 per month. Gym Membership is the largest at $30.00 per month.",
			SupportingData: map[string]any{
				"merchantCount":  4,
				"monthlyCost":    65.0,
				"annualCost":     780.0,
				"topMerchant":    "Gym Membership",
				"topMonthlyCost": 30.0,
			},
			ActionHint: "Review these subscriptions and cancel the ones you no longer use.",
			Confidence: 0.8,
		},
		{
			Kind:      KindCategoryTrend,
			Severity:  SeverityInfo,
			Headline:  "Dining spending up 35%",
			Narrative: "You spent $405.00 on Dining last month, up from $300.00 the month before. At this pace next month could reach $546.75.",
			SupportingData: map[string]any{
				"category":        "Dining",
				"currentAmount":   405.0,
				"previousAmount":  300.0,
				"growthPercent":   35.0,
				"projectedAmount": 546.75,
			},
			ActionHint: "Set a monthly limit for Dining.",
			Confidence: 0.67,
		},
		{
			Kind:      KindOpportunityCost,
			Severity:  SeverityInfo,
			Headline:  "Dining could grow to $15,578",
			Narrative: "You spend about $300.00 a month on Dining. Cooking at home a few more nights a week and investing $90.00 a month at 7% would be worth $15,578 in 10 years.",
			SupportingData: map[string]any{
				"category":        "Dining",
				"monthlyAverage":  300.0,
				"monthlyRedirect": 90.0,
				"futureValue":     15578.0,
				"years":           10,
			},
			ActionHint: "Set up an automatic monthly transfer for the amount you plan to redirect.",
			Confidence: 0.6,
		},
		{
			Kind:      KindSavingsSummary,
			Severity:  SeveritySuccess,
			Headline:  "You saved $450.00",
			Narrative: "Income of $3,200.00 covered spending of $2,750.00 with $450.00 to spare.",
			SupportingData: map[string]any{
				"totalIncome":   3200.0,
				"totalSpending": 2750.0,
				"net":           450.0,
			},
			ActionHint: "Keep the surplus working by moving it into savings.",
			Confidence: summaryConfidence,
		},
	}
	for i := range insights {
		insights[i].Sample = true
	}
	return insights
}
