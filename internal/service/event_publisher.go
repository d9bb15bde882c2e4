// Package service hosts background concerns of the application: the
// security event publisher and the revocation ledger pruning job.
// Errors are logged and returned to allow callers to ignore failures
// without interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/ashkhen/user-accounts-service/internal/queue"
)

// PublishAuthEvent publishes an AuthEvent to the auth.events queue.
// The function attempts to be robust and to never panic; any error is
// logged and returned so the caller can choose to ignore it. Messages
// are marked as persistent. Handlers call this from a goroutine so a
// slow or absent broker never delays an HTTP response.
func PublishAuthEvent(ctx context.Context, event q.AuthEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; the first event after a broker wipe
	// recreates the queue. Durable: the audit trail must survive
	// broker restarts.
	if _, err := ch.QueueDeclare(q.AuthEventsQueue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	// Default exchange routes by queue name.
	if err := ch.PublishWithContext(ctx, "", q.AuthEventsQueue, false, false, msg); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
