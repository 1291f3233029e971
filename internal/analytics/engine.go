package analytics

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// Below either threshold the demo feed is returned.
	minRecordsForInsights = 10
	minLabeledShare       = 0.30
	reminderLabeledShare  = 0.80
	summaryConfidence     = 0.9
	topCategoryConfidence = 0.85
	reminderConfidence    = 0.95
)

// Engine runs the detectors and the extrapolator against a clock.
type Engine struct {
	now       func() time.Time
	log       zerolog.Logger
	parallel  bool
	detectors []Detector
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the evaluation instant source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger used for detector failures.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithParallelDetectors toggles concurrent detector evaluation. Output is
// identical either way.
func WithParallelDetectors(enabled bool) Option {
	return func(e *Engine) { e.parallel = enabled }
}

// NewEngine returns an engine with parallel detectors, the wall clock and a
// no-op logger unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:       time.Now,
		log:       zerolog.Nop(),
		parallel:  true,
		detectors: Detectors(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's current evaluation instant.
func (e *Engine) Now() time.Time { return e.now() }

// GenerateInsights builds the ranked insight feed for txns. Too little or
// poorly labelled data yields the demo feed instead of an empty result.
func (e *Engine) GenerateInsights(txns []TransactionRecord) []Insight {
	now := e.now()
	prepared, skipped := prepare(txns, now)
	share := labeledShare(prepared)

	if len(prepared) < minRecordsForInsights || share < minLabeledShare {
		e.log.Debug().
			Int("records", len(prepared)).
			Float64("labeledShare", share).
			Msg("insufficient data; returning demo insights")
		return DemoInsights()
	}

	agg := aggregatePrepared(prepared)
	agg.Skipped = skipped
	in := Input{Transactions: prepared, Aggregates: agg, Now: now}

	results := e.runDetectors(in)

	insights := make([]Insight, 0, len(results)+3)
	seen := make(map[InsightKind]bool)
	for _, r := range results {
		if r == nil || seen[r.Kind] {
			continue
		}
		seen[r.Kind] = true
		insights = append(insights, *r)
	}

	insights = append(insights, savingsSummary(agg))
	if top, ok := topCategoryInsight(agg); ok {
		insights = append(insights, top)
	}
	if share < reminderLabeledShare {
		insights = append(insights, categorizationReminder(prepared, share))
	}

	sortBySeverity(insights)
	return insights
}

// runDetectors evaluates every detector, writing each result to its own
// slot so parallel and sequential runs produce the same order.
func (e *Engine) runDetectors(in Input) []*Insight {
	results := make([]*Insight, len(e.detectors))
	if !e.parallel {
		for i, d := range e.detectors {
			if insight, ok := runDetector(d, in, e.log); ok {
				results[i] = insight
			}
		}
		return results
	}

	var wg sync.WaitGroup
	for i, d := range e.detectors {
		wg.Add(1)
		go func(i int, d Detector) {
			defer wg.Done()
			if insight, ok := runDetector(d, in, e.log); ok {
				results[i] = insight
			}
		}(i, d)
	}
	wg.Wait()
	return results
}

func sortBySeverity(insights []Insight) {
	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Severity.rank() < insights[j].Severity.rank()
	})
}

func savingsSummary(agg Aggregates) Insight {
	net := agg.TotalCredits - agg.TotalDebits
	data := map[string]any{
		"totalIncome":   round2(agg.TotalCredits),
		"totalSpending": round2(agg.TotalDebits),
		"net":           round2(net),
	}
	if agg.TotalCredits > 0 {
		data["savingsRate"] = round1(net / agg.TotalCredits * 100)
	}

	insight := Insight{
		Kind:           KindSavingsSummary,
		SupportingData: data,
		Confidence:     summaryConfidence,
	}
	switch {
	case net > 0:
		insight.Severity = SeveritySuccess
		insight.Headline = fmt.Sprintf("You saved %s", formatMoney(net))
		insight.Narrative = fmt.Sprintf("Income of %s covered spending of %s with %s to spare.",
			formatMoney(agg.TotalCredits), formatMoney(agg.TotalDebits), formatMoney(net))
		insight.ActionHint = "Keep the surplus working by moving it into savings."
	case net < 0:
		insight.Severity = SeverityWarning
		insight.Headline = fmt.Sprintf("You spent %s more than you earned", formatMoney(-net))
		insight.Narrative = fmt.Sprintf("Spending of %s exceeded income of %s.",
			formatMoney(agg.TotalDebits), formatMoney(agg.TotalCredits))
		insight.ActionHint = "Look at your largest categories for places to cut back."
	default:
		insight.Severity = SeverityInfo
		insight.Headline = "You broke even"
		insight.Narrative = fmt.Sprintf("Income and spending were both %s.", formatMoney(agg.TotalDebits))
	}
	return insight
}

func topCategoryInsight(agg Aggregates) (Insight, bool) {
	if len(agg.ByCategory) == 0 || agg.TotalDebits <= 0 {
		return Insight{}, false
	}
	top := agg.ByCategory[0]
	name := displayCategory(top.Category)
	return Insight{
		Kind:     KindTopCategory,
		Severity: SeverityInfo,
		Headline: fmt.Sprintf("%s is your biggest expense", name),
		Narrative: fmt.Sprintf("%s accounts for %.0f%% of your spending (%s across %d %s).",
			name, top.PercentageOfDebitTotal, formatMoney(top.Total), top.Count, pluralize(top.Count, "transaction", "transactions")),
		SupportingData: map[string]any{
			"category":   top.Category,
			"total":      round2(top.Total),
			"count":      top.Count,
			"percentage": round1(top.PercentageOfDebitTotal),
		},
		Confidence: topCategoryConfidence,
	}, true
}

func categorizationReminder(txns []TransactionRecord, share float64) Insight {
	unlabeled := 0
	for _, t := range txns {
		if !isLabeled(t.Category) {
			unlabeled++
		}
	}
	return Insight{
		Kind:     KindCategorizationReminder,
		Severity: SeverityInfo,
		Headline: fmt.Sprintf("%d %s need a category", unlabeled, pluralize(unlabeled, "transaction", "transactions")),
		Narrative: fmt.Sprintf("Only %.0f%% of your transactions are categorised. Labelling the rest makes these insights more accurate.",
			share*100),
		SupportingData: map[string]any{
			"uncategorized": unlabeled,
			"labeledShare":  round2(share),
		},
		ActionHint: "Review your uncategorised transactions.",
		Confidence: reminderConfidence,
	}
}
