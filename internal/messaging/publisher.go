package messaging

import (
	"context"

	"github.com/cecilvega/kverse-sub000/internal/domain"
)

// Publisher defines the interface for publishing events to message queue
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishTablePublished announces that a curated table was written to a publication target
	PublishTablePublished(ctx context.Context, event *domain.TablePublishedEvent) error
	// Close closes the connection
	Close()
}
