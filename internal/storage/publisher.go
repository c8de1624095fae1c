package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/cecilvega/kverse-sub000/internal/config"
	"github.com/cecilvega/kverse-sub000/internal/lake"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/metrics"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
)

// RetryPolicy bounds the retries of a single upload
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxElapsed      time.Duration
}

// DefaultRetryPolicy returns the retry policy used in production
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      5,
		InitialInterval: time.Second,
		MaxElapsed:      2 * time.Minute,
	}
}

// PublishedObject describes one uploaded object
type PublishedObject struct {
	Table  string `json:"table"`
	Target Target `json:"target"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Rows   int64  `json:"rows"`
	Bytes  int    `json:"bytes"`
}

// TablePublisher publishes the curated tables of a run
//
//go:generate mockgen -source=publisher.go -destination=../mocks/table_publisher.go -package=mocks -mock_names=TablePublisher=MockTablePublisher
type TablePublisher interface {
	Publish(ctx context.Context, out *pipeline.Outputs) ([]PublishedObject, error)
}

// Publisher uploads the curated tables of a run to the lake and collaboration buckets
type Publisher struct {
	lake       ObjectStore
	lakePrefix string
	collab     ObjectStore
	collabDir  string
	retry      RetryPolicy
	mem        memory.Allocator
}

// NewPublisher creates a publisher. A nil store disables its target.
func NewPublisher(lakeStore ObjectStore, lakePrefix string, collabStore ObjectStore, collabPrefix string, retry RetryPolicy) *Publisher {
	return &Publisher{
		lake:       lakeStore,
		lakePrefix: lakePrefix,
		collab:     collabStore,
		collabDir:  collabPrefix,
		retry:      retry,
		mem:        memory.NewGoAllocator(),
	}
}

// LakeKeys returns the partitioned and latest keys of a table in the lake
func LakeKeys(prefix, table, runID string, runDate time.Time) (string, string) {
	dir := path.Join(prefix, table)
	partition := path.Join(dir, "dt="+runDate.UTC().Format(time.DateOnly), runID+lake.FormatParquet.Extension())
	latest := path.Join(dir, "latest"+lake.FormatParquet.Extension())
	return partition, latest
}

// CollaborationKey returns the key of a table in the collaboration bucket
func CollaborationKey(prefix, table string) string {
	return path.Join(prefix, table+lake.FormatCSV.Extension())
}

// Publish encodes every curated table and uploads it to the enabled targets
func (p *Publisher) Publish(ctx context.Context, out *pipeline.Outputs) ([]PublishedObject, error) {
	if p.lake == nil && p.collab == nil {
		logger.InfoCtx(ctx, "No publication target enabled, skipping publish")
		return nil, nil
	}

	tables := lake.BuildTables(p.mem, out)
	defer lake.ReleaseAll(tables)

	runID := out.Summary.RunID
	var published []PublishedObject

	for _, tbl := range tables {
		rows := tbl.Record.NumRows()

		if p.lake != nil {
			data, err := lake.Encode(lake.FormatParquet, tbl.Record)
			if err != nil {
				return published, fmt.Errorf("failed to encode %s: %w", tbl.Name, err)
			}

			partition, latest := LakeKeys(p.lakePrefix, tbl.Name, runID, out.Summary.StartedAt)
			for _, key := range []string{partition, latest} {
				if err := p.put(ctx, p.lake, key, data, lake.FormatParquet.ContentType()); err != nil {
					return published, err
				}
				published = append(published, PublishedObject{Table: tbl.Name, Target: TargetLake, Bucket: p.lake.Bucket(), Key: key, Rows: rows, Bytes: len(data)})
			}
			metrics.RecordRowsPublished(tbl.Name, string(TargetLake), int(rows))
		}

		if p.collab != nil {
			data, err := lake.Encode(lake.FormatCSV, tbl.Record)
			if err != nil {
				return published, fmt.Errorf("failed to encode %s: %w", tbl.Name, err)
			}

			key := CollaborationKey(p.collabDir, tbl.Name)
			if err := p.put(ctx, p.collab, key, data, lake.FormatCSV.ContentType()); err != nil {
				return published, err
			}
			published = append(published, PublishedObject{Table: tbl.Name, Target: TargetCollaboration, Bucket: p.collab.Bucket(), Key: key, Rows: rows, Bytes: len(data)})
			metrics.RecordRowsPublished(tbl.Name, string(TargetCollaboration), int(rows))
		}
	}

	logger.InfoCtx(ctx, "Published curated tables",
		zap.String("run_id", runID),
		zap.Int("objects", len(published)),
	)

	return published, nil
}

// put uploads an object with exponential backoff
func (p *Publisher) put(ctx context.Context, store ObjectStore, key string, data []byte, contentType string) error {
	b := backoff.NewExponentialBackOff()
	if p.retry.InitialInterval > 0 {
		b.InitialInterval = p.retry.InitialInterval
	}
	b.MaxElapsedTime = p.retry.MaxElapsed

	operation := func() error {
		return store.Put(ctx, key, data, contentType)
	}

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Upload failed, retrying",
			zap.Error(err),
			zap.String("bucket", store.Bucket()),
			zap.String("key", key),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, p.retry.MaxRetries), ctx)
	if err := backoff.RetryNotify(operation, policy, notifyOnError); err != nil {
		return fmt.Errorf("failed to upload %s after %d attempts: %w", key, attemptCount+1, err)
	}
	return nil
}

// NewPublisherFromConfig builds the object stores of every enabled target.
// The returned close func releases the collaboration client and is never nil.
func NewPublisherFromConfig(ctx context.Context, cfg config.PublishConfig) (*Publisher, func() error, error) {
	closeFn := func() error { return nil }

	var lakeStore ObjectStore
	if cfg.Lake.Enabled {
		s, err := NewS3Store(ctx, cfg.Lake)
		if err != nil {
			return nil, closeFn, err
		}
		lakeStore = s
	}

	var collabStore ObjectStore
	if cfg.Collaboration.Enabled {
		s, closeClient, err := NewGCSStore(ctx, cfg.Collaboration)
		if err != nil {
			return nil, closeFn, err
		}
		collabStore = s
		closeFn = closeClient
	}

	retry := DefaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		retry.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryMaxElapsed > 0 {
		retry.MaxElapsed = cfg.RetryMaxElapsed
	}

	return NewPublisher(lakeStore, cfg.Lake.Prefix, collabStore, cfg.Collaboration.Prefix, retry), closeFn, nil
}
