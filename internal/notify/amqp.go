package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPNotifier публикует события в очередь с именем типа события
type AMQPNotifier struct {
	url    string
	logger *zap.Logger
}

func NewAMQPNotifier(url string, logger *zap.Logger) *AMQPNotifier {
	return &AMQPNotifier{url: url, logger: logger}
}

// Publish открывает соединение на одно сообщение. Событий мало,
// держать соединение ради них нет смысла
func (n *AMQPNotifier) Publish(ctx context.Context, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(n.url)
	if err != nil {
		n.logger.Warn("rabbitmq dial failed", zap.Error(err))
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		n.logger.Warn("rabbitmq channel open failed", zap.Error(err))
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	queue := string(event.Type)
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		n.logger.Warn("rabbitmq queue declare failed", zap.String("queue", queue), zap.Error(err))
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue name
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		n.logger.Warn("rabbitmq publish failed", zap.String("queue", queue), zap.Error(err))
		return fmt.Errorf("publish %s: %w", queue, err)
	}

	n.logger.Debug("Event published",
		zap.String("queue", queue),
		zap.String("event_id", event.ID.String()))
	return nil
}
