package domain

import "time"

// TablePublishedEvent announces that a curated table was written to a publication target
type TablePublishedEvent struct {
	RunID       string    `json:"run_id"`
	Table       string    `json:"table"`
	Target      string    `json:"target"`
	Bucket      string    `json:"bucket"`
	Key         string    `json:"key"`
	Rows        int64     `json:"rows"`
	PublishedAt time.Time `json:"published_at"`
}
