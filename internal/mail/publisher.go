package mail

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes email events to RabbitMQ. Errors are logged and
// returned so callers can ignore failures without interrupting the request
// flow; a lost email is recoverable, a failed login response is not.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// Publish sends one Message to the mail queue. Messages are marked persistent
// so they survive broker restarts.
func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("mail: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("mail: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		QueueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		log.Printf("mail: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("mail: marshal event failed: %v", err)
		return err
	}

	if err := ch.PublishWithContext(ctx,
		"",        // exchange
		QueueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	); err != nil {
		log.Printf("mail: publish failed: %v", err)
		return err
	}
	return nil
}
