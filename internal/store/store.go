package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kuxala/hackathon-project-sub000/internal/analytics"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// InsightBatch is one persisted run of the insight feed for a user.
type InsightBatch struct {
	ID          string              `json:"id" firestore:"id"`
	UserID      string              `json:"userId" firestore:"userId"`
	GeneratedAt time.Time           `json:"generatedAt" firestore:"generatedAt"`
	Sample      bool                `json:"sample" firestore:"sample"`
	Insights    []analytics.Insight `json:"insights" firestore:"insights"`
}

// Store defines the interface for all database operations used by the service
type Store interface {
	// Transaction operations
	CreateTransactions(ctx context.Context, userID string, txns []analytics.TransactionRecord) ([]analytics.TransactionRecord, error)
	ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time) ([]analytics.TransactionRecord, error)

	// Insight operations
	SaveInsights(ctx context.Context, batch *InsightBatch) error
	GetLatestInsights(ctx context.Context, userID string) (*InsightBatch, error)

	// Prediction operations
	SavePrediction(ctx context.Context, userID string, snapshot *analytics.PredictionSnapshot) error
	GetPrediction(ctx context.Context, userID, targetPeriod string) (*analytics.PredictionSnapshot, error)
}

// predictionDocID keys a prediction by user and target period so a re-run
// for the same period replaces the earlier snapshot.
func predictionDocID(userID, targetPeriod string) string {
	return fmt.Sprintf("%s_%s", userID, targetPeriod)
}

func inRange(t time.Time, startDate, endDate *time.Time) bool {
	if startDate != nil && t.Before(*startDate) {
		return false
	}
	if endDate != nil && t.After(*endDate) {
		return false
	}
	return true
}
