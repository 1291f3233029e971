package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
)

// Archiver keeps an immutable copy of every generated insight batch.
type Archiver interface {
	ArchiveInsights(ctx context.Context, batch *InsightBatch) error
}

// GCSArchiver writes insight batches as JSON objects to a Cloud Storage bucket.
type GCSArchiver struct {
	client *storage.Client
	bucket string
}

// NewGCSArchiver creates an archiver writing to bucket.
func NewGCSArchiver(client *storage.Client, bucket string) *GCSArchiver {
	return &GCSArchiver{client: client, bucket: bucket}
}

// ArchiveObjectName is the object path for batch:
// insights/<user>/<generatedAt RFC3339Nano>-<batch ID>.json
// Batches generated within the same second keep distinct objects.
func ArchiveObjectName(batch *InsightBatch) string {
	stamp := batch.GeneratedAt.UTC().Format(time.RFC3339Nano)
	if batch.ID == "" {
		return fmt.Sprintf("insights/%s/%s.json", batch.UserID, stamp)
	}
	return fmt.Sprintf("insights/%s/%s-%s.json", batch.UserID, stamp, batch.ID)
}

func (a *GCSArchiver) ArchiveInsights(ctx context.Context, batch *InsightBatch) error {
	if batch == nil || batch.UserID == "" {
		return fmt.Errorf("insight batch requires a user")
	}

	w := a.client.Bucket(a.bucket).Object(ArchiveObjectName(batch)).NewWriter(ctx)
	w.ContentType = "application/json"
	if err := json.NewEncoder(w).Encode(batch); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to encode insight batch: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write insight archive: %w", err)
	}
	return nil
}
