// Package events publishes lifecycle transitions to Kafka. Publication is
// fire-and-forget: a broker outage never blocks or fails a transition.
package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"eduverify/internal/platform/kafka/producer"
	"eduverify/internal/verification/models"
)

// Event names, one per lifecycle transition.
const (
	EventSubmitted       = "request.submitted"
	EventPaymentReceived = "payment.received"
	EventPaymentApproved = "payment.approved"
	EventPaymentRejected = "payment.rejected"
	EventApproved        = "verification.approved"
	EventRejected        = "verification.rejected"
	EventForwarded       = "verification.forwarded"
)

// Sink is the producer surface the publisher needs.
type Sink interface {
	ProduceAsync(msg *producer.Message) error
}

// Publisher emits lifecycle events for downstream consumers (notification
// workers, audit pipelines).
type Publisher struct {
	sink   Sink
	topic  string
	logger *slog.Logger
}

func NewPublisher(sink Sink, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{sink: sink, topic: topic, logger: logger}
}

type envelope struct {
	Event              string                    `json:"event"`
	RequestID          string                    `json:"requestId"`
	RequesterRole      models.RequesterRole      `json:"requesterRole"`
	RequestType        models.RequestType        `json:"requestType"`
	PaymentStatus      models.PaymentStatus      `json:"paymentStatus"`
	VerificationStatus models.VerificationStatus `json:"verificationStatus"`
	OccurredAt         time.Time                 `json:"occurredAt"`
}

// Publish emits one event keyed by request id. Marshal or produce failures
// are logged and swallowed.
func (p *Publisher) Publish(event string, req *models.VerificationRequest, now time.Time) {
	payload, err := json.Marshal(envelope{
		Event:              event,
		RequestID:          req.ID,
		RequesterRole:      req.RequesterRole,
		RequestType:        req.RequestType,
		PaymentStatus:      req.PaymentStatus,
		VerificationStatus: req.VerificationStatus,
		OccurredAt:         now.UTC(),
	})
	if err != nil {
		p.logger.Error("encode lifecycle event", "event", event, "error", err)
		return
	}

	err = p.sink.ProduceAsync(&producer.Message{
		Topic: p.topic,
		Key:   []byte(req.ID),
		Value: payload,
		Headers: map[string]string{
			"event": event,
		},
	})
	if err != nil {
		p.logger.Warn("publish lifecycle event", "event", event, "error", err)
	}
}
