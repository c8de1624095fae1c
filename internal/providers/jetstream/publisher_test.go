package jetstream_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecilvega/kverse-sub000/internal/adapter"
	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/mocks"
	"github.com/cecilvega/kverse-sub000/internal/providers/jetstream"
)

func testConfig() jetstream.Config {
	return jetstream.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "CURATED_TABLES",
		SubjectPrefix:  "curated",
		MaxReconnects:  3,
		ReconnectWait:  time.Second,
		ConnectionName: "kverse-test",
	}
}

func testEvent() *domain.TablePublishedEvent {
	return &domain.TablePublishedEvent{
		RunID:  "RUN1",
		Table:  domain.TABLE_FLEET_BOUNDS,
		Target: "lake",
		Bucket: "lake",
		Key:    "curated/fleet_bounds/latest.parquet",
		Rows:   4,
	}
}

func TestPublisher_PublishTablePublished(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	nc := mocks.NewMockNatsConn(ctrl)
	js := mocks.NewMockJetStream(ctrl)
	natsJS := mocks.NewMockNatsJetStream(ctrl)

	natsJS.EXPECT().Connect("nats://localhost:4222", gomock.Any()).Return(nc, js, nil)
	js.EXPECT().EnsureStream(gomock.Any(), natsjs.StreamConfig{
		Name:     "CURATED_TABLES",
		Subjects: []string{"curated.>"},
	}).Return(nil)

	var published []byte
	js.EXPECT().Publish(gomock.Any(), "curated.fleet_bounds.published", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte, _ ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
			published = data
			return &natsjs.PubAck{Stream: "CURATED_TABLES", Sequence: 1}, nil
		})
	nc.EXPECT().Close()

	pub, err := jetstream.NewPublisher(context.Background(), testConfig(), natsJS, adapter.NewJSON())
	require.NoError(t, err)

	require.NoError(t, pub.PublishTablePublished(context.Background(), testEvent()))
	assert.JSONEq(t, `{
		"run_id": "RUN1",
		"table": "fleet_bounds",
		"target": "lake",
		"bucket": "lake",
		"key": "curated/fleet_bounds/latest.parquet",
		"rows": 4,
		"published_at": "0001-01-01T00:00:00Z"
	}`, string(published))

	pub.Close()
}

func TestPublisher_PublishError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	nc := mocks.NewMockNatsConn(ctrl)
	js := mocks.NewMockJetStream(ctrl)
	natsJS := mocks.NewMockNatsJetStream(ctrl)

	natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nc, js, nil)
	js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).Return(nil)
	js.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("no responders"))

	pub, err := jetstream.NewPublisher(context.Background(), testConfig(), natsJS, adapter.NewJSON())
	require.NoError(t, err)

	err = pub.PublishTablePublished(context.Background(), testEvent())
	assert.ErrorContains(t, err, "failed to publish event")
}

func TestNewPublisher_Errors(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*mocks.MockNatsJetStream, *mocks.MockNatsConn, *mocks.MockJetStream)
		errContain string
	}{
		{
			name: "connect fails",
			setupMocks: func(natsJS *mocks.MockNatsJetStream, _ *mocks.MockNatsConn, _ *mocks.MockJetStream) {
				natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("connection refused"))
			},
			errContain: "failed to connect to NATS",
		},
		{
			name: "stream cannot be ensured",
			setupMocks: func(natsJS *mocks.MockNatsJetStream, nc *mocks.MockNatsConn, js *mocks.MockJetStream) {
				natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nc, js, nil)
				js.EXPECT().EnsureStream(gomock.Any(), gomock.Any()).Return(errors.New("subjects overlap"))
				nc.EXPECT().Close()
			},
			errContain: "failed to ensure stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			nc := mocks.NewMockNatsConn(ctrl)
			js := mocks.NewMockJetStream(ctrl)
			natsJS := mocks.NewMockNatsJetStream(ctrl)
			tt.setupMocks(natsJS, nc, js)

			pub, err := jetstream.NewPublisher(context.Background(), testConfig(), natsJS, adapter.NewJSON())
			assert.Nil(t, pub)
			assert.ErrorContains(t, err, tt.errContain)
		})
	}
}

func TestMessageID(t *testing.T) {
	first := jetstream.MessageID(testEvent())
	assert.Equal(t, first, jetstream.MessageID(testEvent()))

	other := testEvent()
	other.Target = "collaboration"
	assert.NotEqual(t, first, jetstream.MessageID(other))
}
