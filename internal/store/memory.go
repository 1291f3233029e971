package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kuxala/hackathon-project-sub000/internal/analytics"
)

// MemoryStore implements Store interface with in-memory storage
type MemoryStore struct {
	mu sync.RWMutex

	// Storage maps
	transactions   map[string]analytics.TransactionRecord
	insightBatches map[string][]*InsightBatch
	predictions    map[string]*analytics.PredictionSnapshot
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions:   make(map[string]analytics.TransactionRecord),
		insightBatches: make(map[string][]*InsightBatch),
		predictions:    make(map[string]*analytics.PredictionSnapshot),
	}
}

// Transaction operations

// CreateTransactions stores txns for userID, assigning IDs where missing.
func (m *MemoryStore) CreateTransactions(ctx context.Context, userID string, txns []analytics.TransactionRecord) ([]analytics.TransactionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make([]analytics.TransactionRecord, 0, len(txns))
	for _, t := range txns {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		t.UserID = userID
		m.transactions[t.ID] = t
		saved = append(saved, t)
	}
	return saved, nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time) ([]analytics.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []analytics.TransactionRecord
	for _, t := range m.transactions {
		if t.UserID != userID || !inRange(t.Date, startDate, endDate) {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Insight operations

func (m *MemoryStore) SaveInsights(ctx context.Context, batch *InsightBatch) error {
	if batch == nil || batch.UserID == "" {
		return fmt.Errorf("insight batch requires a user")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *batch
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.Insights = append([]analytics.Insight(nil), batch.Insights...)
	m.insightBatches[batch.UserID] = append(m.insightBatches[batch.UserID], &stored)
	return nil
}

// GetLatestInsights returns the most recently generated batch for userID.
func (m *MemoryStore) GetLatestInsights(ctx context.Context, userID string) (*InsightBatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *InsightBatch
	for _, b := range m.insightBatches[userID] {
		if latest == nil || !b.GeneratedAt.Before(latest.GeneratedAt) {
			latest = b
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("insights for user %s: %w", userID, ErrNotFound)
	}
	out := *latest
	out.Insights = append([]analytics.Insight(nil), latest.Insights...)
	return &out, nil
}

// Prediction operations

func (m *MemoryStore) SavePrediction(ctx context.Context, userID string, snapshot *analytics.PredictionSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("prediction snapshot is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *snapshot
	m.predictions[predictionDocID(userID, snapshot.TargetPeriod)] = &stored
	return nil
}

func (m *MemoryStore) GetPrediction(ctx context.Context, userID, targetPeriod string) (*analytics.PredictionSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot, ok := m.predictions[predictionDocID(userID, targetPeriod)]
	if !ok {
		return nil, fmt.Errorf("prediction %s for user %s: %w", targetPeriod, userID, ErrNotFound)
	}
	out := *snapshot
	return &out, nil
}
