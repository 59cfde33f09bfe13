// Package notify delivers confirmation codes to users out of band.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// ConfirmationQueue carries confirmation code messages to the mail outbox.
const ConfirmationQueue = "confirmation_codes"

// ConfirmationMessage is the payload sent to a registering user.
type ConfirmationMessage struct {
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Code     string    `json:"confirmation_code"`
	IssuedAt time.Time `json:"issued_at"`
}

// Notifier delivers confirmation codes.
type Notifier interface {
	SendConfirmationCode(ctx context.Context, msg ConfirmationMessage) error
}

// Publisher is the part of the RabbitMQ client the queue notifier needs.
type Publisher interface {
	Publish(queue string, body []byte) error
}

// QueueNotifier publishes confirmation messages for an asynchronous mailer.
type QueueNotifier struct {
	publisher Publisher
	queue     string
}

// NewQueueNotifier creates a notifier publishing to ConfirmationQueue.
func NewQueueNotifier(publisher Publisher) *QueueNotifier {
	return &QueueNotifier{publisher: publisher, queue: ConfirmationQueue}
}

// SendConfirmationCode publishes msg as JSON.
func (n *QueueNotifier) SendConfirmationCode(_ context.Context, msg ConfirmationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation message: %w", err)
	}
	if err := n.publisher.Publish(n.queue, body); err != nil {
		return fmt.Errorf("failed to enqueue confirmation code for %s: %w", msg.Username, err)
	}
	return nil
}

// LogNotifier writes confirmation messages to the log. It is used when no
// broker is configured, for local development.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendConfirmationCode logs msg, code included.
func (n *LogNotifier) SendConfirmationCode(_ context.Context, msg ConfirmationMessage) error {
	n.logger.Info("confirmation code issued",
		zap.String("username", msg.Username),
		zap.String("email", msg.Email),
		zap.String("confirmation_code", msg.Code))
	return nil
}

// Outbox consumes queued confirmation messages. SMTP delivery lives outside
// this service; the outbox records each message it hands over.
type Outbox struct {
	logger *zap.Logger
}

// NewOutbox creates an Outbox.
func NewOutbox(logger *zap.Logger) *Outbox {
	return &Outbox{logger: logger}
}

// Handle decodes one delivery. Malformed bodies are rejected so the broker
// drops them.
func (o *Outbox) Handle(delivery amqp.Delivery) error {
	var msg ConfirmationMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		return fmt.Errorf("malformed confirmation message: %w", err)
	}
	if msg.Email == "" || msg.Code == "" {
		return fmt.Errorf("confirmation message for %q lacks email or code", msg.Username)
	}
	o.logger.Info("confirmation mail handed to outbox",
		zap.String("username", msg.Username),
		zap.String("email", msg.Email),
		zap.Time("issued_at", msg.IssuedAt))
	return nil
}
