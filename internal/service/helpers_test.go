package service

import (
	"context"
	"time"

	"github.com/kuxala/hackathon-project-sub000/internal/analytics"
	"github.com/kuxala/hackathon-project-sub000/internal/auth"
	"github.com/kuxala/hackathon-project-sub000/internal/jobs"
	"github.com/kuxala/hackathon-project-sub000/internal/store"
)

// testNow is the fixed clock every service test runs at.
var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

// testContextWithUser creates a context with authenticated user claims for testing
func testContextWithUser(userID string) context.Context {
	return auth.WithUserClaims(context.Background(), &auth.UserClaims{
		UID:   userID,
		Email: userID + "@test.local",
	})
}

func testEngine() *analytics.Engine {
	return analytics.NewEngine(
		analytics.WithClock(func() time.Time { return testNow }),
		analytics.WithParallelDetectors(false),
	)
}

// mayHistory is one month of spending before testNow: Groceries 40, Dining 60.
func mayHistory() []analytics.TransactionRecord {
	day := func(d int) time.Time { return time.Date(2025, time.May, d, 10, 0, 0, 0, time.UTC) }
	return []analytics.TransactionRecord{
		{Date: day(3), Description: "Market", Amount: 40, Direction: analytics.DirectionDebit, Category: "Groceries"},
		{Date: day(10), Description: "Bistro", Amount: 60, Direction: analytics.DirectionDebit, Category: "Dining"},
		{Date: day(20), Description: "Salary", Amount: 2000, Direction: analytics.DirectionCredit, Category: "Income"},
	}
}

type fakeArchiver struct {
	batches []*store.InsightBatch
	err     error
}

func (f *fakeArchiver) ArchiveInsights(ctx context.Context, batch *store.InsightBatch) error {
	f.batches = append(f.batches, batch)
	return f.err
}

type fakePublisher struct {
	published []*jobs.RefreshInsightsJob
	err       error
}

func (f *fakePublisher) PublishRefreshInsights(ctx context.Context, job *jobs.RefreshInsightsJob) error {
	if f.err != nil {
		return f.err
	}
	job.JobID = "job-1"
	f.published = append(f.published, job)
	return nil
}

func (f *fakePublisher) Close() error { return nil }
