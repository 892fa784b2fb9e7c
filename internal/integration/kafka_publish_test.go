//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/checklist-wind-map/internal/adapter/kafka"
	"github.com/couchcryptid/checklist-wind-map/internal/config"
	"github.com/couchcryptid/checklist-wind-map/internal/domain"
	"github.com/couchcryptid/checklist-wind-map/internal/observability"
	"github.com/couchcryptid/checklist-wind-map/internal/orchestrator"
	"github.com/couchcryptid/checklist-wind-map/internal/page"
	"github.com/couchcryptid/checklist-wind-map/internal/page/pagetest"
	"github.com/couchcryptid/checklist-wind-map/internal/panel"
)

const testRecordTopic = "test-checklist-records"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("checklist-wind-map"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}))
}

type noLevels struct{}

func (noLevels) RequestLevelData(_ context.Context, _, _ float64, _ string, _ domain.PressureLevel) (domain.SampleArray, error) {
	return domain.SampleArray{}, nil
}

// TestInjectPublishesRecord verifies that injecting the panel publishes the
// extracted record to the record topic with its key and headers.
func TestInjectPublishesRecord(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	broker := startKafka(ctx, t)
	createTopic(t, broker, testRecordTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaRecordTopic: testRecordTopic}
	writer := kafka.NewWriter(cfg, discardLogger())
	defer writer.Close()

	renderer := panel.NewRenderer("https://dafekt1ve.github.io", time.UTC, "1/2/2006", "03:04 PM")
	o := orchestrator.New(orchestrator.NewRegistry(), renderer, noLevels{},
		orchestrator.Options{Libraries: []string{"leaflet", "d3"}, Publisher: writer},
		discardLogger(), observability.NewMetricsForTesting())

	doc, err := page.ParseString(pagetest.Default().HTML(), pagetest.ChecklistURL)
	require.NoError(t, err)
	s, err := o.Inject(ctx, doc)
	require.NoError(t, err)
	defer s.Close()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testRecordTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	defer reader.Close()

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err, "read from record topic")

	assert.Equal(t, "S12345", string(msg.Key))

	var got domain.ChecklistRecord
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, s.Record(), got)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "checklist-wind-map", headers["source"])
	assert.Equal(t, "2024-04-26T15:10:00Z", headers["published_at"])
}

// TestPublishWithoutChecklistID verifies coordinate keys for individual observations.
func TestPublishWithoutChecklistID(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testRecordTopic)

	writer := kafka.NewWriter(&config.Config{KafkaBrokers: []string{broker}, KafkaRecordTopic: testRecordTopic}, discardLogger())
	defer writer.Close()

	rec := domain.ChecklistRecord{Lat: 40.1, Lng: -74.2, Datetime: "2023-05-01T12:00:00Z", Location: "Sandy Hook"}
	require.NoError(t, writer.PublishRecord(ctx, rec))

	reader := kafkago.NewReader(kafkago.ReaderConfig{Brokers: []string{broker}, Topic: testRecordTopic, Partition: 0, MinBytes: 1, MaxBytes: 1 << 20})
	defer reader.Close()

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)
	assert.Equal(t, "40.1000,-74.2000", string(msg.Key))
}
