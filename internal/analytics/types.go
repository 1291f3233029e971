// Package analytics turns a user's transaction history into a ranked insight
// feed and a next-month spending prediction. Everything in this package is a
// pure function of its inputs plus the evaluation instant; nothing here does I/O.
package analytics

import "time"

// Direction is the money-flow direction of a transaction.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// UncategorizedLabel is used for transactions that arrive without a category.
const UncategorizedLabel = "Uncategorized"

// TransactionRecord is a single normalised transaction supplied by the
// transaction source. The engine never mutates or persists it.
type TransactionRecord struct {
	ID                 string    `json:"id,omitempty" firestore:"id"`
	UserID             string    `json:"userId,omitempty" firestore:"userId"`
	Date               time.Time `json:"date" firestore:"date"`
	Description        string    `json:"description" firestore:"description"`
	Merchant           string    `json:"merchant,omitempty" firestore:"merchant"`
	Amount             float64   `json:"amount" firestore:"amount"`
	Direction          Direction `json:"direction" firestore:"direction"`
	Category           string    `json:"category,omitempty" firestore:"category"`
	CategoryConfidence float64   `json:"categoryConfidence,omitempty" firestore:"categoryConfidence"`
}

// IsDebit reports whether the transaction is an outgoing expense.
func (t TransactionRecord) IsDebit() bool { return t.Direction == DirectionDebit }

// IsCredit reports whether the transaction is incoming money.
func (t TransactionRecord) IsCredit() bool { return t.Direction == DirectionCredit }

// CategoryAggregate summarises debit spending for one category.
type CategoryAggregate struct {
	Category               string  `json:"category"`
	Total                  float64 `json:"total"`
	Count                  int     `json:"count"`
	PercentageOfDebitTotal float64 `json:"percentageOfDebitTotal"`
}

// MonthlyAggregate summarises one calendar month. Month is formatted YYYY-MM.
type MonthlyAggregate struct {
	Month            string             `json:"month"`
	TotalDebits      float64            `json:"totalDebits"`
	TotalCredits     float64            `json:"totalCredits"`
	TransactionCount int                `json:"transactionCount"`
	ByCategory       map[string]float64 `json:"byCategory"`
}

// Aggregates is the aggregator output shared by detectors and the extrapolator.
type Aggregates struct {
	ByCategory   []CategoryAggregate `json:"byCategory"`
	ByMonth      []MonthlyAggregate  `json:"byMonth"`
	TotalDebits  float64             `json:"totalDebits"`
	TotalCredits float64             `json:"totalCredits"`
	DebitCount   int                 `json:"debitCount"`
	CreditCount  int                 `json:"creditCount"`
	AverageDebit float64             `json:"averageDebit"`
	FirstDate    time.Time           `json:"firstDate"`
	LastDate     time.Time           `json:"lastDate"`
	// Skipped counts malformed records that were neutralised. Future-dated
	// records are excluded without being counted here.
	Skipped int `json:"skipped"`
}

// InsightKind identifies which detector or summary produced an insight.
type InsightKind string

const (
	KindAnomaly                InsightKind = "anomaly"
	KindRecurringCharge        InsightKind = "recurring-charge"
	KindPaydayEffect           InsightKind = "payday-effect"
	KindTemporalBehavior       InsightKind = "temporal-behavior"
	KindCategoryTrend          InsightKind = "category-trend"
	KindMerchantConcentration  InsightKind = "merchant-concentration"
	KindLifestyleInflation     InsightKind = "lifestyle-inflation"
	KindOpportunityCost        InsightKind = "opportunity-cost"
	KindCashFlowProjection     InsightKind = "cash-flow-projection"
	KindSavingsSummary         InsightKind = "savings-summary"
	KindTopCategory            InsightKind = "top-category"
	KindCategorizationReminder InsightKind = "categorization-reminder"
)

// Severity ranks how urgently an insight should be surfaced.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeveritySuccess  Severity = "success"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// rank orders severities for the feed: critical first, success last.
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	case SeveritySuccess:
		return 3
	default:
		return 4
	}
}

// Insight is one entry of the insight feed.
type Insight struct {
	Kind           InsightKind    `json:"kind" firestore:"kind"`
	Severity       Severity       `json:"severity" firestore:"severity"`
	Headline       string         `json:"headline" firestore:"headline"`
	Narrative      string         `json:"narrative" firestore:"narrative"`
	SupportingData map[string]any `json:"supportingData,omitempty" firestore:"supportingData"`
	ActionHint     string         `json:"actionHint,omitempty" firestore:"actionHint"`
	// Confidence is the detector's own reliability estimate in [0,1].
	Confidence float64 `json:"confidence" firestore:"confidence"`
	// Sample marks entries of the synthetic demonstration feed.
	Sample bool `json:"sample,omitempty" firestore:"sample"`
}

// ConfidenceBand is the coarse reliability tag of a predicted figure.
type ConfidenceBand string

const (
	BandHigh   ConfidenceBand = "high"
	BandMedium ConfidenceBand = "medium"
	BandLow    ConfidenceBand = "low"
)

// CategoryPrediction is the predicted spend for one category.
type CategoryPrediction struct {
	Category        string         `json:"category" firestore:"category"`
	PredictedAmount float64        `json:"predictedAmount" firestore:"predictedAmount"`
	ConfidenceBand  ConfidenceBand `json:"confidenceBand" firestore:"confidenceBand"`
}

// PredictionSnapshot is the next-month spending prediction.
type PredictionSnapshot struct {
	TargetPeriod        string               `json:"targetPeriod" firestore:"targetPeriod"`
	TotalPredicted      float64              `json:"totalPredicted" firestore:"totalPredicted"`
	ByCategory          []CategoryPrediction `json:"byCategory" firestore:"byCategory"`
	OverallConfidence   float64              `json:"overallConfidence" firestore:"overallConfidence"`
	MonthsOfHistoryUsed int                  `json:"monthsOfHistoryUsed" firestore:"monthsOfHistoryUsed"`
	HistoricalAverage   float64              `json:"historicalAverage" firestore:"historicalAverage"`
	TrendSlope          float64              `json:"trendSlope" firestore:"trendSlope"`
	NarrativeInsights   []string             `json:"narrativeInsights" firestore:"narrativeInsights"`
	Warnings            []string             `json:"warnings" firestore:"warnings"`
	GeneratedAt         time.Time            `json:"generatedAt" firestore:"generatedAt"`
}
