package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

// Publisher публикует события прогонов в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение в exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),
			string(routingKey),
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Type:         string(msg.Type),
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)
		return nil
	})
}

// PublishCaseRequested ставит заявку на прогон кейса.
// Потребитель: оркестратор.
func (p *Publisher) PublishCaseRequested(ctx context.Context, caseNumber int) error {
	msg := NewMessage(MessageTypeCaseRequested, CaseRequestedPayload{CaseNumber: caseNumber})
	return p.Publish(ctx, ExchangeCases, RoutingKeyRequested, msg)
}

// PublishCaseStarted сообщает о начале прогона.
func (p *Publisher) PublishCaseStarted(ctx context.Context, run *domain.CaseRun) error {
	msg := NewMessage(MessageTypeCaseStarted, NewCaseRunPayload(run))
	return p.Publish(ctx, ExchangeCases, RoutingKeyStarted, msg)
}

// PublishCaseCompleted сообщает об итоге прогона.
func (p *Publisher) PublishCaseCompleted(ctx context.Context, run *domain.CaseRun) error {
	msg := NewMessage(MessageTypeCaseCompleted, NewCaseRunPayload(run))
	return p.Publish(ctx, ExchangeCases, RoutingKeyCompleted, msg)
}
