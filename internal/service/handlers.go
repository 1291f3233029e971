package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/kuxala/hackathon-project-sub000/internal/analytics"
	"github.com/kuxala/hackathon-project-sub000/internal/auth"
	"github.com/kuxala/hackathon-project-sub000/internal/jobs"
	"github.com/kuxala/hackathon-project-sub000/internal/store"
)

const (
	// MaxImportBatch caps how many transactions one import request may carry.
	MaxImportBatch = 5000

	// MaxJobPageSize caps ListRefreshJobs results.
	MaxJobPageSize = 100
)

type GetInsightsRequest struct {
	// UserID defaults to the authenticated caller.
	UserID string `json:"userId,omitempty"`
}

type GetLatestInsightsRequest struct {
	UserID string `json:"userId,omitempty"`
}

type GetInsightsResponse struct {
	BatchID     string              `json:"batchId"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Sample      bool                `json:"sample"`
	Insights    []analytics.Insight `json:"insights"`
}

type GetPredictionRequest struct {
	UserID string `json:"userId,omitempty"`
	// MonthsToUse is rounded up to 3, 6, 9 or 12. Zero selects the server default.
	MonthsToUse int `json:"monthsToUse,omitempty"`
	// Stored returns the last persisted prediction instead of computing one.
	Stored bool `json:"stored,omitempty"`
}

type GetPredictionResponse struct {
	Prediction *analytics.PredictionSnapshot `json:"prediction"`
}

type ImportTransactionsRequest struct {
	UserID       string                        `json:"userId,omitempty"`
	Transactions []analytics.TransactionRecord `json:"transactions"`
}

type ImportTransactionsResponse struct {
	Imported     int    `json:"imported"`
	RefreshJobID string `json:"refreshJobId,omitempty"`
}

type GetRefreshJobRequest struct {
	UserID string `json:"userId,omitempty"`
	JobID  string `json:"jobId"`
}

type GetRefreshJobResponse struct {
	Job *jobs.RefreshInsightsJob `json:"job"`
}

type ListRefreshJobsRequest struct {
	UserID string         `json:"userId,omitempty"`
	Status jobs.JobStatus `json:"status,omitempty"`
	// PageSize defaults to and is capped at MaxJobPageSize.
	PageSize int `json:"pageSize,omitempty"`
}

type ListRefreshJobsResponse struct {
	Jobs []*jobs.RefreshInsightsJob `json:"jobs"`
}

// GetInsights generates a fresh insight feed for the caller.
func (s *InsightsService) GetInsights(ctx context.Context, req *connect.Request[GetInsightsRequest]) (*connect.Response[GetInsightsResponse], error) {
	claims, err := auth.RequireUserAccess(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	batch, err := s.RefreshInsights(ctx, claims.UID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(batchResponse(batch)), nil
}

// GetLatestInsights returns the caller's last stored insight feed.
func (s *InsightsService) GetLatestInsights(ctx context.Context, req *connect.Request[GetLatestInsightsRequest]) (*connect.Response[GetInsightsResponse], error) {
	claims, err := auth.RequireUserAccess(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	batch, err := s.LatestInsights(ctx, claims.UID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(batchResponse(batch)), nil
}

// GetPrediction computes next month's prediction, or reads the stored one.
func (s *InsightsService) GetPrediction(ctx context.Context, req *connect.Request[GetPredictionRequest]) (*connect.Response[GetPredictionResponse], error) {
	claims, err := auth.RequireUserAccess(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	if req.Msg.MonthsToUse < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("monthsToUse must not be negative"))
	}

	var snapshot *analytics.PredictionSnapshot
	if req.Msg.Stored {
		snapshot, err = s.StoredPrediction(ctx, claims.UID)
	} else {
		snapshot, err = s.RefreshPrediction(ctx, claims.UID, req.Msg.MonthsToUse)
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetPredictionResponse{Prediction: snapshot}), nil
}

// ImportTransactions stores a batch of transactions and schedules a refresh.
func (s *InsightsService) ImportTransactions(ctx context.Context, req *connect.Request[ImportTransactionsRequest]) (*connect.Response[ImportTransactionsResponse], error) {
	claims, err := auth.RequireUserAccess(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	if err := validateImport(req.Msg.Transactions); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	imported, jobID, err := s.Import(ctx, claims.UID, req.Msg.Transactions)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ImportTransactionsResponse{
		Imported:     imported,
		RefreshJobID: jobID,
	}), nil
}

// GetRefreshJob reports the status of a refresh job started by an import.
func (s *InsightsService) GetRefreshJob(ctx context.Context, req *connect.Request[GetRefreshJobRequest]) (*connect.Response[GetRefreshJobResponse], error) {
	claims, err := auth.RequireUserAccess(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Msg.JobID) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("jobId is required"))
	}

	job, err := s.RefreshJob(ctx, claims.UID, req.Msg.JobID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetRefreshJobResponse{Job: job}), nil
}

// ListRefreshJobs returns the caller's refresh jobs, oldest first.
func (s *InsightsService) ListRefreshJobs(ctx context.Context, req *connect.Request[ListRefreshJobsRequest]) (*connect.Response[ListRefreshJobsResponse], error) {
	claims, err := auth.RequireUserAccess(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	if req.Msg.PageSize < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("pageSize must not be negative"))
	}
	pageSize := req.Msg.PageSize
	if pageSize == 0 || pageSize > MaxJobPageSize {
		pageSize = MaxJobPageSize
	}

	list, err := s.RefreshJobs(ctx, claims.UID, req.Msg.Status, pageSize)
	if err != nil {
		return nil, toConnectError(err)
	}
	if list == nil {
		list = []*jobs.RefreshInsightsJob{}
	}
	return connect.NewResponse(&ListRefreshJobsResponse{Jobs: list}), nil
}

func batchResponse(batch *store.InsightBatch) *GetInsightsResponse {
	insights := batch.Insights
	if insights == nil {
		insights = []analytics.Insight{}
	}
	return &GetInsightsResponse{
		BatchID:     batch.ID,
		GeneratedAt: batch.GeneratedAt,
		Sample:      batch.Sample,
		Insights:    insights,
	}
}

// validateImport rejects records the aggregator would otherwise have to
// neutralise, so stored history stays clean.
func validateImport(txns []analytics.TransactionRecord) error {
	if len(txns) == 0 {
		return fmt.Errorf("at least one transaction is required")
	}
	if len(txns) > MaxImportBatch {
		return fmt.Errorf("at most %d transactions per import, got %d", MaxImportBatch, len(txns))
	}
	for i, t := range txns {
		dir := analytics.Direction(strings.ToLower(strings.TrimSpace(string(t.Direction))))
		switch {
		case t.Date.IsZero():
			return fmt.Errorf("transaction %d: date is required", i)
		case dir != analytics.DirectionDebit && dir != analytics.DirectionCredit:
			return fmt.Errorf("transaction %d: direction must be %q or %q", i, analytics.DirectionDebit, analytics.DirectionCredit)
		case t.Amount < 0 || math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0):
			return fmt.Errorf("transaction %d: amount must be a non-negative number", i)
		case strings.TrimSpace(t.Description) == "" && strings.TrimSpace(t.Merchant) == "":
			return fmt.Errorf("transaction %d: description or merchant is required", i)
		}
	}
	return nil
}

// toConnectError maps service errors onto connect codes at the handler edge.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, store.ErrNotFound), errors.Is(err, jobs.ErrJobNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

var _ InsightsServiceHandler = (*InsightsService)(nil)
