// Package mail moves outbound email work out of the request path. Handlers
// publish Message events to a durable RabbitMQ queue; a background consumer
// drains it. Actual SMTP delivery happens behind that boundary.
package mail

import "time"

// QueueName is the durable queue email events travel through.
const QueueName = "mail.send"

// Message kinds.
const (
	KindConfirmation  = "email_confirmation"
	KindPasswordReset = "password_reset"
)

// Message is the payload published for each email to be sent. Token is the
// confirmation or reset token to embed in the link; Host is the public base
// URL the link is built from.
type Message struct {
	Kind        string    `json:"kind"`
	To          string    `json:"to"`
	Username    string    `json:"username,omitempty"`
	Token       string    `json:"token"`
	Host        string    `json:"host"`
	RequestedAt time.Time `json:"requested_at"`
}
