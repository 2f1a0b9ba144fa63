//go:build integration

package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"

	"github.com/praekeltfoundation/hellomama-registration/internal/config"
)

func TestKafkaRoundTrip(t *testing.T) {
	ctx := context.Background()

	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.1.7",
		redpanda.WithAutoCreateTopics())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	broker, err := container.KafkaSeedBroker(ctx)
	require.NoError(t, err)

	cfg := config.Kafka{
		Brokers: []string{broker},
		Topic:   fmt.Sprintf("registrations.validate.%d", time.Now().UnixNano()),
		GroupID: "hellomama-registration-test",
	}

	producer, err := NewKafkaProducer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = producer.Close() })

	sub := &recordingSubmitter{}
	consumer, err := NewKafkaConsumer(cfg, sub, nil)
	require.NoError(t, err)

	for _, id := range []string{"reg-1", "reg-2", "reg-3"} {
		require.NoError(t, producer.Submit(ctx, id))
	}

	require.NoError(t, consumer.Start(ctx))
	require.Eventually(t, func() bool {
		return len(sub.submitted()) == 3
	}, 60*time.Second, 100*time.Millisecond)
	require.NoError(t, consumer.Stop())

	assert.ElementsMatch(t, []string{"reg-1", "reg-2", "reg-3"}, sub.submitted())
}
