package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// auditLogDir and auditLogFile locate the on-disk audit trail the
	// consumer appends to.
	auditLogDir  = "logs"
	auditLogFile = "auth-events.log"

	consumerPrefetch = 50
	maxDialBackoff   = 30 * time.Second
)

// StartAuthEventConsumer drains the auth.events queue into an audit log
// at logs/auth-events.log, one line per event. It reconnects with
// exponential backoff and never returns under normal operation.
// Malformed messages are rejected without requeueing.
func StartAuthEventConsumer() error {
	url := BrokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("auth-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			backoff *= 2
			if backoff > maxDialBackoff {
				backoff = maxDialBackoff
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(conn)
		_ = conn.Close()
		log.Printf("auth-consumer: consume loop ended: %v; reconnecting", err)
		time.Sleep(2 * time.Second)
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Bound in-flight deliveries.
	if err := ch.Qos(consumerPrefetch, 0, false); err != nil {
		log.Printf("auth-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(AuthEventsQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	deliveries, err := ch.Consume(AuthEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range deliveries {
		if err := handleMessage(d.Body); err != nil {
			log.Printf("auth-consumer: drop message: %v", err)
			_ = d.Nack(false, false) // no requeue for messages that cannot be processed
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// handleMessage appends one event to the audit log. Every error is
// returned to the caller, which rejects the message.
func handleMessage(body []byte) error {
	var ev AuthEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Kind == "" {
		return errors.New("event without kind")
	}
	if err := os.MkdirAll(auditLogDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", auditLogDir, err)
	}
	f, err := os.OpenFile(filepath.Join(auditLogDir, auditLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatEvent(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// formatEvent renders one audit line per event. Fields that are unset
// for a given kind are omitted rather than printed empty.
func formatEvent(ev AuthEvent) string {
	line := fmt.Sprintf("[%s] %s", ev.OccurredAt, ev.Kind)
	if ev.UserID != 0 {
		line += fmt.Sprintf(" | user_id=%d", ev.UserID)
	}
	if ev.Email != "" {
		line += fmt.Sprintf(" | email=%s", ev.Email)
	}
	if ev.TokenJTI != "" {
		line += fmt.Sprintf(" | jti=%s", ev.TokenJTI)
	}
	if ev.Reason != "" {
		line += fmt.Sprintf(" | reason=%q", ev.Reason)
	}
	return line + "\n"
}
