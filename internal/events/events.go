// Package events publishes domain events about conversations and messages.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Типы событий.
const (
	ConversationStarted   = "conversation.started"
	ConversationApproved  = "conversation.approved"
	ConversationBlocked   = "conversation.blocked"
	ConversationUnblocked = "conversation.unblocked"
	MessageSent           = "message.sent"
)

// Event — событие, уходящее внешним подписчикам (уведомления, аналитика).
type Event struct {
	Type           string    `json:"type"`
	ConversationID string    `json:"conversation_id"`
	ItemID         string    `json:"item_id,omitempty"`
	MessageID      string    `json:"message_id,omitempty"`
	ActorID        int64     `json:"actor_id"`
	RecipientID    int64     `json:"recipient_id,omitempty"`
	At             time.Time `json:"at"`
}

// Publisher отправляет события. Ошибка публикации не откатывает уже выполненную операцию.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher пишет события в лог. Используется, когда Kafka не настроена.
type LogPublisher struct {
	Logger *zap.SugaredLogger
}

func (p LogPublisher) Publish(_ context.Context, e Event) error {
	p.Logger.Infow("event",
		"type", e.Type,
		"conversation_id", e.ConversationID,
		"item_id", e.ItemID,
		"message_id", e.MessageID,
		"actor_id", e.ActorID,
		"recipient_id", e.RecipientID,
	)
	return nil
}

func (LogPublisher) Close() error { return nil }

// messageWriter — часть kafka.Writer, нужная публикатору.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher пишет события в топик Kafka; ключ сообщения — ID переписки,
// так что события одной переписки попадают в одну партицию по порядку.
type KafkaPublisher struct {
	writer messageWriter
	// timeout ограничивает одну публикацию; 0 — без ограничения.
	timeout time.Duration
}

const publishTimeout = 3 * time.Second

// NewKafkaPublisher создаёт синхронного продюсера с подтверждением от всех реплик.
// Публикация идёт на пути запроса, поэтому попытки и время записи ограничены.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		timeout: publishTimeout,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			Async:                  false,
			BatchTimeout:           10 * time.Millisecond,
			MaxAttempts:            3,
			WriteTimeout:           time.Second,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.ConversationID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
