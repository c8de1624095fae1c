package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/cecilvega/kverse-sub000/internal/adapter"
	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type publisher struct {
	nc            adapter.NatsConn
	js            adapter.JetStream
	subjectPrefix string
	json          adapter.JSON
}

// NewPublisher creates a new NATS JetStream publisher and ensures its stream captures every table subject
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	err = js.EnsureStream(ctx, jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{cfg.SubjectPrefix + ".>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream %s: %w", cfg.StreamName, err)
	}

	return &publisher{
		nc:            nc,
		js:            js,
		subjectPrefix: cfg.SubjectPrefix,
		json:          jsonAdapter,
	}, nil
}

// PublishTablePublished publishes a table published event to NATS JetStream
func (p *publisher) PublishTablePublished(ctx context.Context, event *domain.TablePublishedEvent) error {
	logger.DebugCtx(ctx, "Publishing NATS event", zap.Any("event", event))

	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := p.buildSubject(event)

	_, err = p.js.Publish(ctx, subject, data, jetstream.WithMsgID(MessageID(event)))
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// MessageID derives a stable message id from the published object so a retried notification is deduplicated by the stream
func MessageID(event *domain.TablePublishedEvent) string {
	name := fmt.Sprintf("%s/%s/%s/%s/%s", event.RunID, event.Table, event.Target, event.Bucket, event.Key)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// buildSubject constructs the NATS subject based on the event
func (p *publisher) buildSubject(event *domain.TablePublishedEvent) string {
	// Format: {prefix}.{table}.published
	// e.g., curated.fleet_bounds.published
	return fmt.Sprintf("%s.%s.published", p.subjectPrefix, event.Table)
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
