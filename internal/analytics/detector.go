package analytics

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Input is what every detector sees: the prepared transactions, their
// aggregates and the evaluation instant.
type Input struct {
	Transactions []TransactionRecord
	Aggregates   Aggregates
	Now          time.Time
}

// Detector is one independent heuristic. Detect returns false when the
// detector has nothing worth reporting.
type Detector struct {
	Kind   InsightKind
	Detect func(Input) (*Insight, bool)
}

// Detectors returns the fixed detector set in feed order.
func Detectors() []Detector {
	return []Detector{
		{Kind: KindAnomaly, Detect: DetectAnomaly},
		{Kind: KindRecurringCharge, Detect: DetectRecurringCharges},
		{Kind: KindPaydayEffect, Detect: DetectPaydayEffect},
		{Kind: KindTemporalBehavior, Detect: DetectTemporalBehavior},
		{Kind: KindCategoryTrend, Detect: DetectCategoryTrend},
		{Kind: KindMerchantConcentration, Detect: DetectMerchantConcentration},
		{Kind: KindLifestyleInflation, Detect: DetectLifestyleInflation},
		{Kind: KindOpportunityCost, Detect: DetectOpportunityCost},
		{Kind: KindCashFlowProjection, Detect: DetectCashFlowProjection},
	}
}

// runDetector evaluates d and converts any panic into "no insight" so a
// single faulty detector never aborts the feed.
func runDetector(d Detector, in Input, log zerolog.Logger) (insight *Insight, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().
				Str("detector", string(d.Kind)).
				Str("panic", fmt.Sprint(r)).
				Msg("detector failed; skipping")
			insight, ok = nil, false
		}
	}()

	insight, ok = d.Detect(in)
	if !ok || insight == nil {
		return nil, false
	}
	if insight.Kind == "" {
		insight.Kind = d.Kind
	}
	insight.Confidence = clamp01(insight.Confidence)
	insight.SupportingData = sanitizePayload(insight.SupportingData)
	return insight, true
}
