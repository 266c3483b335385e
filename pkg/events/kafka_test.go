package events

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WithoutBrokers_IsNop(t *testing.T) {
	p := New(nil, "session_events")
	_, ok := p.(Nop)
	require.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), Event{Type: TypeLoggedIn}))
	assert.NoError(t, p.Close())
}

func TestNew_WithBrokers_IsKafka(t *testing.T) {
	p := New([]string{"localhost:9092"}, "session_events")
	kp, ok := p.(*KafkaPublisher)
	require.True(t, ok)
	assert.Equal(t, "session_events", kp.writer.Topic)
	assert.NoError(t, kp.Close())
}

func TestKafkaPublisher_Publish(t *testing.T) {
	brokers := os.Getenv("KAFKA_TEST_BROKERS")
	if brokers == "" {
		t.Skip("KAFKA_TEST_BROKERS is required for kafka tests")
	}
	broker := strings.Split(brokers, ",")[0]
	topic := "session_events_test"

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	p := NewKafkaPublisher([]string{broker}, topic)
	t.Cleanup(func() { _ = p.Close() })

	userID := uuid.NewString()
	require.NoError(t, p.Publish(ctx, Event{Type: TypeLoggedIn, UserID: userID, Role: "COMPANY", At: time.Now().UTC()}))

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
		MaxWait:   time.Second,
	})
	defer r.Close()
	require.NoError(t, r.SetOffset(kafka.FirstOffset))

	for {
		m, err := r.ReadMessage(ctx)
		require.NoError(t, err)
		if string(m.Key) != userID {
			continue
		}
		var got Event
		require.NoError(t, json.Unmarshal(m.Value, &got))
		assert.Equal(t, TypeLoggedIn, got.Type)
		assert.Equal(t, "COMPANY", got.Role)
		return
	}
}
