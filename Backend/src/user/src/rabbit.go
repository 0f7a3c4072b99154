package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const userExchange = "user.events"

type EventPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewEventPublisher(rabbitURL string) (*EventPublisher, error) {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(userExchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &EventPublisher{conn: conn, channel: ch}, nil
}

func (p *EventPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

func (p *EventPublisher) Publish(eventType string, payload any) error {
	if p.channel == nil {
		return nil
	}
	body, err := json.Marshal(struct {
		EventID   string    `json:"event_id"`
		Type      string    `json:"type"`
		Timestamp time.Time `json:"timestamp"`
		Payload   any       `json:"payload"`
	}{
		EventID:   uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		return err
	}
	log.Debug().Str("event", eventType).Msg("publish")
	return p.channel.PublishWithContext(context.Background(),
		userExchange, eventType, false, false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
}
