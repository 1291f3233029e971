package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/kuxala/hackathon-project-sub000/internal/analytics"
	"github.com/kuxala/hackathon-project-sub000/internal/auth"
	"github.com/kuxala/hackathon-project-sub000/internal/jobs"
	"github.com/kuxala/hackathon-project-sub000/internal/jobs/inmemory"
	"github.com/kuxala/hackathon-project-sub000/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves an InsightsService over a memory store, with every
// caller running as the local dev user unless impersonating.
func newTestServer(t *testing.T, opts ...Option) (*InsightsServiceClient, *store.MemoryStore) {
	t.Helper()

	memStore := store.NewMemoryStore()
	svc := NewInsightsService(memStore, testEngine(), opts...)

	mux := http.NewServeMux()
	mux.Handle(NewInsightsServiceHandler(svc, connect.WithInterceptors(
		LoggingInterceptor(zerolog.Nop()),
		auth.DebugAuthInterceptor(true),
		auth.LocalDevInterceptor(),
	)))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewInsightsServiceClient(srv.Client(), srv.URL), memStore
}

func TestInsightsServiceOverHTTP(t *testing.T) {
	client, memStore := newTestServer(t)
	ctx := context.Background()

	t.Run("no stored feed yet", func(t *testing.T) {
		_, err := client.GetLatestInsights(ctx, connect.NewRequest(&GetLatestInsightsRequest{}))
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})

	t.Run("import validates records", func(t *testing.T) {
		bad := mayHistory()
		bad[1].Direction = "sideways"
		_, err := client.ImportTransactions(ctx, connect.NewRequest(&ImportTransactionsRequest{Transactions: bad}))
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("import stores records for the caller", func(t *testing.T) {
		resp, err := client.ImportTransactions(ctx, connect.NewRequest(&ImportTransactionsRequest{Transactions: mayHistory()}))
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Msg.Imported)
		assert.Empty(t, resp.Msg.RefreshJobID, "no publisher configured")

		stored, err := memStore.ListTransactions(ctx, auth.LocalDevUserID, nil, nil)
		require.NoError(t, err)
		assert.Len(t, stored, 3)
	})

	var batchID string
	t.Run("sparse history returns the sample feed", func(t *testing.T) {
		resp, err := client.GetInsights(ctx, connect.NewRequest(&GetInsightsRequest{}))
		require.NoError(t, err)
		assert.True(t, resp.Msg.Sample)
		require.Len(t, resp.Msg.Insights, 5)
		for _, in := range resp.Msg.Insights {
			assert.True(t, in.Sample)
		}
		assert.True(t, testNow.Equal(resp.Msg.GeneratedAt))
		batchID = resp.Msg.BatchID
	})

	t.Run("latest feed is the one just generated", func(t *testing.T) {
		resp, err := client.GetLatestInsights(ctx, connect.NewRequest(&GetLatestInsightsRequest{}))
		require.NoError(t, err)
		assert.Equal(t, batchID, resp.Msg.BatchID)
	})

	t.Run("stored prediction missing until computed", func(t *testing.T) {
		_, err := client.GetPrediction(ctx, connect.NewRequest(&GetPredictionRequest{Stored: true}))
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})

	t.Run("prediction is computed and stored", func(t *testing.T) {
		resp, err := client.GetPrediction(ctx, connect.NewRequest(&GetPredictionRequest{MonthsToUse: 3}))
		require.NoError(t, err)
		pred := resp.Msg.Prediction
		require.NotNil(t, pred)
		assert.Equal(t, "2025-07", pred.TargetPeriod)
		assert.Equal(t, 1, pred.MonthsOfHistoryUsed)
		assert.InDelta(t, 100.0, pred.TotalPredicted, 0.001)
		require.Len(t, pred.ByCategory, 2)
		assert.Equal(t, "Dining", pred.ByCategory[0].Category)

		stored, err := client.GetPrediction(ctx, connect.NewRequest(&GetPredictionRequest{Stored: true}))
		require.NoError(t, err)
		assert.InDelta(t, pred.TotalPredicted, stored.Msg.Prediction.TotalPredicted, 0.001)
	})

	t.Run("impersonated user sees their own empty history", func(t *testing.T) {
		req := connect.NewRequest(&GetPredictionRequest{})
		req.Header().Set(auth.ImpersonateHeader, "someone-else")
		resp, err := client.GetPrediction(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Msg.Prediction.MonthsOfHistoryUsed)
		assert.Empty(t, resp.Msg.Prediction.ByCategory)
		assert.Len(t, resp.Msg.Prediction.Warnings, 1)
	})

	t.Run("cannot read another user's feed", func(t *testing.T) {
		_, err := client.GetInsights(ctx, connect.NewRequest(&GetInsightsRequest{UserID: "someone-else"}))
		assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	})
}

func TestRefreshJobsOverHTTP(t *testing.T) {
	ctx := context.Background()
	jobStore := inmemory.NewStore()
	queue := inmemory.NewQueue(inmemory.Config{Workers: 1, RetryBackoff: time.Millisecond}, jobStore, zerolog.Nop())
	t.Cleanup(func() { _ = queue.Close() })

	var svc *InsightsService
	client, memStore := newTestServer(t,
		WithPublisher(queue),
		WithJobStore(jobStore),
		withCapture(&svc),
	)
	require.NoError(t, queue.Start(ctx, svc.HandleJob))

	resp, err := client.ImportTransactions(ctx, connect.NewRequest(&ImportTransactionsRequest{Transactions: mayHistory()}))
	require.NoError(t, err)
	jobID := resp.Msg.RefreshJobID
	require.NotEmpty(t, jobID)

	t.Run("job runs to completion", func(t *testing.T) {
		require.Eventually(t, func() bool {
			got, err := client.GetRefreshJob(ctx, connect.NewRequest(&GetRefreshJobRequest{JobID: jobID}))
			return err == nil && got.Msg.Job.Status == jobs.JobStatusCompleted
		}, 2*time.Second, 10*time.Millisecond)

		got, err := client.GetRefreshJob(ctx, connect.NewRequest(&GetRefreshJobRequest{JobID: jobID}))
		require.NoError(t, err)
		assert.Equal(t, auth.LocalDevUserID, got.Msg.Job.UserID)
		assert.Equal(t, ReasonImport, got.Msg.Job.Reason)

		_, err = memStore.GetLatestInsights(ctx, auth.LocalDevUserID)
		assert.NoError(t, err, "worker stored a feed")
	})

	t.Run("job id is required", func(t *testing.T) {
		_, err := client.GetRefreshJob(ctx, connect.NewRequest(&GetRefreshJobRequest{}))
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("unknown job", func(t *testing.T) {
		_, err := client.GetRefreshJob(ctx, connect.NewRequest(&GetRefreshJobRequest{JobID: "missing"}))
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})

	t.Run("another user's job is hidden", func(t *testing.T) {
		req := connect.NewRequest(&GetRefreshJobRequest{JobID: jobID})
		req.Header().Set(auth.ImpersonateHeader, "someone-else")
		_, err := client.GetRefreshJob(ctx, req)
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})

	t.Run("cannot name another user", func(t *testing.T) {
		_, err := client.GetRefreshJob(ctx, connect.NewRequest(&GetRefreshJobRequest{UserID: "someone-else", JobID: jobID}))
		assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	})

	t.Run("list returns only the caller's jobs", func(t *testing.T) {
		require.NoError(t, jobStore.SaveJob(ctx, &jobs.RefreshInsightsJob{
			JobID: "other", UserID: "someone-else", Status: jobs.JobStatusPending, CreatedAt: testNow,
		}))

		list, err := client.ListRefreshJobs(ctx, connect.NewRequest(&ListRefreshJobsRequest{}))
		require.NoError(t, err)
		require.Len(t, list.Msg.Jobs, 1)
		assert.Equal(t, jobID, list.Msg.Jobs[0].JobID)

		pending, err := client.ListRefreshJobs(ctx, connect.NewRequest(&ListRefreshJobsRequest{Status: jobs.JobStatusPending}))
		require.NoError(t, err)
		assert.Empty(t, pending.Msg.Jobs)

		_, err = client.ListRefreshJobs(ctx, connect.NewRequest(&ListRefreshJobsRequest{PageSize: -1}))
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})
}

func TestRefreshJobsWithoutJobStore(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	_, err := client.GetRefreshJob(ctx, connect.NewRequest(&GetRefreshJobRequest{JobID: "any"}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	list, err := client.ListRefreshJobs(ctx, connect.NewRequest(&ListRefreshJobsRequest{}))
	require.NoError(t, err)
	assert.NotNil(t, list.Msg.Jobs)
	assert.Empty(t, list.Msg.Jobs)
}

// withCapture stores the constructed service in dst.
func withCapture(dst **InsightsService) Option {
	return func(s *InsightsService) { *dst = s }
}

func TestJSONCodec(t *testing.T) {
	codec := JSONCodec{}
	assert.Equal(t, "json", codec.Name())

	var req GetPredictionRequest
	require.NoError(t, codec.Unmarshal([]byte("  "), &req))
	assert.Zero(t, req)

	data, err := codec.Marshal(&GetPredictionResponse{Prediction: &analytics.PredictionSnapshot{TargetPeriod: "2025-07"}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"targetPeriod":"2025-07"`)
}
