package mail

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartConsumer connects to RabbitMQ, declares the mail queue (durable), and
// starts draining it. Each event is appended to logs/mail.log in a
// single-line format; the delivery itself is handed to whatever transport the
// deployment wires behind this log (the dev default is log-only). The
// function runs a reconnect loop and keeps the server operating through
// broker outages, rejecting messages it cannot process.
func StartConsumer(url string) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("mail-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("mail-consumer: consume loop ended: %v; reconnecting", err)
		}
		_ = conn.Close()
		time.Sleep(time.Second)
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	deliveries, err := ch.Consume(QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consume: %w", err)
	}

	for d := range deliveries {
		var msg Message
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			log.Printf("mail-consumer: bad payload: %v", err)
			_ = d.Reject(false)
			continue
		}
		if err := appendLog(msg); err != nil {
			log.Printf("mail-consumer: write log: %v", err)
			_ = d.Reject(true)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

// appendLog writes one line per email event to logs/mail.log. The token is
// included: without SMTP configured this file is how a developer completes
// confirmation and reset flows locally.
func appendLog(msg Message) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join("logs", "mail.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	line := fmt.Sprintf("%s kind=%s to=%s user=%s host=%s token=%s\n",
		time.Now().UTC().Format(time.RFC3339), msg.Kind, msg.To, msg.Username, msg.Host, msg.Token)
	_, err = f.WriteString(line)
	return err
}
