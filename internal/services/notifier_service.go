package services

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/its2darkai/Follow-up-crm/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// NotificationQueue is the durable queue the external notification system
// consumes lead lifecycle events from.
const NotificationQueue = "crm_notifications"

// NotifierService publishes lead lifecycle events over RabbitMQ.
type NotifierService struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewNotifierService() (*NotifierService, error) {
	host := getEnv("RABBITMQ_HOST", "localhost")
	port := getEnv("RABBITMQ_PORT", "5672")
	user := getEnv("RABBITMQ_USER", "guest")
	pass := getEnv("RABBITMQ_PASS", "guest")

	url := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		NotificationQueue, // name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logrus.Info("Notifier service connected to RabbitMQ")
	return &NotifierService{conn: conn, channel: channel}, nil
}

// PublishLeadEvent publishes one lead lifecycle event. The ledger write has
// already happened by the time this runs; a publish failure is logged by the
// caller, never surfaced to the user.
func (s *NotifierService) PublishLeadEvent(event string, log *models.InteractionLog) error {
	payload := map[string]interface{}{
		"event":       event,
		"log_id":      log.ID,
		"agent_email": log.AgentEmail,
		"client_name": log.ClientName,
		"lead_status": log.LeadStatus,
		"occurred_at": time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = s.channel.Publish(
		"",                // exchange
		NotificationQueue, // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close closes the RabbitMQ connection
func (s *NotifierService) Close() error {
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			logrus.Warnf("Error closing channel: %v", err)
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			logrus.Warnf("Error closing connection: %v", err)
		}
	}
	return nil
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
