// Package storage uploads curated tables to object storage.
package storage

import "context"

// Target names a publication target
type Target string

const (
	// TargetLake is the Parquet data lake
	TargetLake Target = "lake"
	// TargetCollaboration is the CSV collaboration bucket
	TargetCollaboration Target = "collaboration"
)

// ObjectStore defines an interface for writing objects to a bucket
//
//go:generate mockgen -source=storage.go -destination=../mocks/object_store.go -package=mocks -mock_names=ObjectStore=MockObjectStore
type ObjectStore interface {
	// Put writes data under key, replacing any existing object
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Bucket returns the bucket name
	Bucket() string
}
