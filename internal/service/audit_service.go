package service

import (
	"context"
	"encoding/json"

	"askgov-sg/internal/pkg/logger"
	"askgov-sg/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IAuditService moves query events off the request path onto the isolated
// audit log.
type IAuditService interface {
	events.Publisher
	Consume(ctx context.Context) error
	Close() error
}

type auditService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	auditLogger logger.ILogger
	logger      logger.ILogger
}

func NewAuditService(
	pubSub *gochannel.GoChannel,
	topicName string,
	auditLogger logger.ILogger,
	logger logger.ILogger,
) IAuditService {
	return &auditService{
		pubSub:      pubSub,
		topicName:   topicName,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

func (s *auditService) Publish(ctx context.Context, evt events.Event) {
	payload, err := json.Marshal(events.ToBase(evt))
	if err != nil {
		s.logger.Error("AUDIT", "Failed to marshal event", map[string]interface{}{"type": evt.EventType(), "error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Error("AUDIT", "Failed to publish event", map[string]interface{}{"type": evt.EventType(), "error": err.Error()})
	}
}

// Consume subscribes synchronously, so events published after it returns are
// delivered, and processes them on a background goroutine until ctx ends or
// the pub/sub is closed.
func (s *auditService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *auditService) processMessage(msg *message.Message) {
	// Ack invalid messages too; redelivery cannot fix them.
	defer msg.Ack()

	var evt events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		s.logger.Error("AUDIT", "Failed to unmarshal event", map[string]interface{}{"message_id": msg.UUID, "error": err.Error()})
		return
	}

	details := make(map[string]interface{}, len(evt.Data)+1)
	for k, v := range evt.Data {
		details[k] = v
	}
	details["occurred_at"] = evt.OccurredAt
	s.auditLogger.Info("AUDIT", evt.Type, details)
}

func (s *auditService) Close() error {
	return s.pubSub.Close()
}
