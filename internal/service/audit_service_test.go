package service

import (
	"context"
	"testing"
	"time"

	"askgov-sg/internal/constant"
	"askgov-sg/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_PublishReachesAuditLog(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	auditLog := &recordingLogger{}
	svc := NewAuditService(pubSub, constant.TopicQueryCompleted, auditLog, &recordingLogger{})
	t.Cleanup(func() { _ = svc.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Consume(ctx))

	svc.Publish(ctx, events.QueryCompleted{
		SessionID:   "sid",
		Location:    "Singapore",
		Need:        "CPF",
		State:       constant.AskStateAnswered,
		SourceCount: 3,
		QueryLength: 27,
		LatencyMs:   120,
		OccurredAt:  time.Now(),
	})

	require.Eventually(t, func() bool {
		return len(auditLog.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	entry := auditLog.snapshot()[0]
	assert.Equal(t, "AUDIT", entry.module)
	assert.Equal(t, "QUERY_COMPLETED", entry.message)
	assert.Equal(t, "sid", entry.details["session_id"])
	assert.Equal(t, constant.AskStateAnswered, entry.details["state"])
	// numbers come back through JSON
	assert.Equal(t, float64(3), entry.details["source_count"])
	assert.NotContains(t, entry.details, "query")
}

func TestAuditService_PublishWithoutConsumerDoesNotBlock(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewAuditService(pubSub, constant.TopicQueryCompleted, &recordingLogger{}, &recordingLogger{})
	t.Cleanup(func() { _ = svc.Close() })

	done := make(chan struct{})
	go func() {
		svc.Publish(context.Background(), events.QueryCompleted{SessionID: "sid"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked with no subscriber")
	}
}
