package mq

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNoChannel — канал AMQP ещё не открыт или уже закрыт.
var ErrNoChannel = errors.New("no amqp channel available")

// Exchange — имя обменника.
type Exchange string

// Queue — имя очереди.
type Queue string

// RoutingKey — ключ маршрутизации.
type RoutingKey string

const (
	ExchangeCases Exchange = "avrec.cases"
	ExchangeDLQ   Exchange = "avrec.dlq"
)

const (
	// QueueCasesRequested — заявки на прогон кейса.
	QueueCasesRequested Queue = "cases.requested"
	// QueueCasesEvents — начало и завершение прогонов, для внешних наблюдателей.
	QueueCasesEvents Queue = "cases.events"
	// QueueDLQCases — заявки, которые не удалось принять.
	QueueDLQCases Queue = "dlq.cases"
)

const (
	RoutingKeyRequested RoutingKey = "case.requested"
	RoutingKeyStarted   RoutingKey = "case.started"
	RoutingKeyCompleted RoutingKey = "case.completed"
	RoutingKeyDLQCases  RoutingKey = "cases"
)

type binding struct {
	queue      Queue
	routingKey RoutingKey
	exchange   Exchange
}

var bindings = []binding{
	{QueueCasesRequested, RoutingKeyRequested, ExchangeCases},
	{QueueCasesEvents, RoutingKeyStarted, ExchangeCases},
	{QueueCasesEvents, RoutingKeyCompleted, ExchangeCases},
	{QueueDLQCases, RoutingKeyDLQCases, ExchangeDLQ},
}

// SetupTopology объявляет обменники, очереди и привязки. Идемпотентна.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		for _, ex := range []Exchange{ExchangeCases, ExchangeDLQ} {
			if err := ch.ExchangeDeclare(string(ex), "direct", true, false, false, false, nil); err != nil {
				return fmt.Errorf("declare exchange %s: %w", ex, err)
			}
		}

		queues := []struct {
			name Queue
			args amqp.Table
		}{
			{QueueCasesRequested, amqp.Table{
				"x-dead-letter-exchange":    string(ExchangeDLQ),
				"x-dead-letter-routing-key": string(RoutingKeyDLQCases),
			}},
			{QueueCasesEvents, nil},
			{QueueDLQCases, nil},
		}
		for _, q := range queues {
			if _, err := ch.QueueDeclare(string(q.name), true, false, false, false, q.args); err != nil {
				return fmt.Errorf("declare queue %s: %w", q.name, err)
			}
		}

		for _, b := range bindings {
			if err := ch.QueueBind(string(b.queue), string(b.routingKey), string(b.exchange), false, nil); err != nil {
				return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
			}
		}
		return nil
	})
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  avrec RabbitMQ topology:

    avrec.cases (direct)
    ├── cases.requested [routing: case.requested]
    │       Consumer: orchestrator
    │       DLQ: dlq.cases
    └── cases.events [routing: case.started, case.completed]
            Consumer: external observers

    avrec.dlq (direct)
    └── dlq.cases [routing: cases]
  `
}
