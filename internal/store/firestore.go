package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/kuxala/hackathon-project-sub000/internal/analytics"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	transactionsCollection   = "transactions"
	insightBatchesCollection = "insight_batches"
	predictionsCollection    = "predictions"

	// Firestore rejects batches larger than this.
	maxBatchWrites = 500
)

// FirestoreStore implements the Store interface using Firestore
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{
		client: client,
	}
}

// CreateTransactions writes txns in batches of at most 500 documents.
func (s *FirestoreStore) CreateTransactions(ctx context.Context, userID string, txns []analytics.TransactionRecord) ([]analytics.TransactionRecord, error) {
	saved := make([]analytics.TransactionRecord, 0, len(txns))
	for _, t := range txns {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		t.UserID = userID
		saved = append(saved, t)
	}

	col := s.client.Collection(transactionsCollection)
	for i := 0; i < len(saved); i += maxBatchWrites {
		end := min(i+maxBatchWrites, len(saved))
		batch := s.client.Batch()
		for _, t := range saved[i:end] {
			batch.Set(col.Doc(t.ID), t)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to batch create transactions: %w", err)
		}
	}
	return saved, nil
}

// ListTransactions lists a user's transactions ordered by date.
// Field names match the firestore struct tags on TransactionRecord.
func (s *FirestoreStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time) ([]analytics.TransactionRecord, error) {
	query := s.client.Collection(transactionsCollection).Where("userId", "==", userID)
	if startDate != nil {
		query = query.Where("date", ">=", *startDate)
	}
	if endDate != nil {
		query = query.Where("date", "<=", *endDate)
	}
	query = query.OrderBy("date", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var txns []analytics.TransactionRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}
		var t analytics.TransactionRecord
		if err := doc.DataTo(&t); err != nil {
			return nil, fmt.Errorf("failed to parse transaction %s: %w", doc.Ref.ID, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// SaveInsights stores an insight batch under its ID.
func (s *FirestoreStore) SaveInsights(ctx context.Context, batch *InsightBatch) error {
	if batch == nil || batch.UserID == "" {
		return fmt.Errorf("insight batch requires a user")
	}
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	_, err := s.client.Collection(insightBatchesCollection).Doc(batch.ID).Set(ctx, batch)
	return err
}

// GetLatestInsights returns the most recently generated batch for userID.
func (s *FirestoreStore) GetLatestInsights(ctx context.Context, userID string) (*InsightBatch, error) {
	docs, err := s.client.Collection(insightBatchesCollection).
		Where("userId", "==", userID).
		OrderBy("generatedAt", firestore.Desc).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query insight batches: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("insights for user %s: %w", userID, ErrNotFound)
	}

	var batch InsightBatch
	if err := docs[0].DataTo(&batch); err != nil {
		return nil, fmt.Errorf("failed to parse insight batch: %w", err)
	}
	return &batch, nil
}

// SavePrediction upserts the snapshot for the user and its target period.
func (s *FirestoreStore) SavePrediction(ctx context.Context, userID string, snapshot *analytics.PredictionSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("prediction snapshot is nil")
	}
	docID := predictionDocID(userID, snapshot.TargetPeriod)
	_, err := s.client.Collection(predictionsCollection).Doc(docID).Set(ctx, snapshot)
	return err
}

func (s *FirestoreStore) GetPrediction(ctx context.Context, userID, targetPeriod string) (*analytics.PredictionSnapshot, error) {
	doc, err := s.client.Collection(predictionsCollection).Doc(predictionDocID(userID, targetPeriod)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("prediction %s for user %s: %w", targetPeriod, userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	var snapshot analytics.PredictionSnapshot
	if err := doc.DataTo(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse prediction: %w", err)
	}
	return &snapshot, nil
}
