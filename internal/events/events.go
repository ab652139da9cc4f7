// Package events publishes auction domain events after a bid is committed.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"auction-engine/utils"
)

const (
	EventBidPlaced = "BidPlaced"

	TopicBidPlaced = "auction.bid.placed"
)

//go:generate mockgen -source=events.go -destination=mock_events.go -package=events

// Publisher delivers envelopes to subscribers. Implementations must not block
// the caller for long; delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // sale id
	Payload       json.RawMessage `json:"payload"`
}

type BidPlacedPayload struct {
	SaleID          int64     `json:"sale_id"`
	BidID           int64     `json:"bid_id"`
	UserID          int64     `json:"user_id"`
	BidAmount       int64     `json:"bid_amount"`
	BidTime         time.Time `json:"bid_time"`
	PreviousPrice   int64     `json:"previous_price"`
	RemainingCredit int64     `json:"remaining_credit"`
}

// NewBidPlaced wraps the payload in a versioned envelope keyed by sale
func NewBidPlaced(producer string, p BidPlacedPayload) (Envelope, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal bid placed payload: %w", err)
	}
	return Envelope{
		EventID:       utils.GenerateID(),
		EventType:     EventBidPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: strconv.FormatInt(p.SaleID, 10),
		Payload:       raw,
	}, nil
}

// PartitionKey keeps every event of one sale on the same partition, in order
func PartitionKey(env Envelope) []byte {
	return []byte(env.CorrelationID)
}

// LogPublisher writes events to the application log. Used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, env Envelope) error {
	utils.Info("event published", map[string]any{
		"event_id":       env.EventID,
		"event_type":     env.EventType,
		"correlation_id": env.CorrelationID,
		"payload":        string(env.Payload),
	})
	return nil
}
