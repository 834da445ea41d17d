package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/temcen/wardrobe/internal/config"
	"github.com/temcen/wardrobe/pkg/models"
)

const (
	OutfitRecommendationsTopic = "outfit-recommendations"
	publishTimeout             = 5 * time.Second
)

// messageWriter is the subset of *kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OutfitEventPublisher writes recommendation events to Kafka.
type OutfitEventPublisher struct {
	writer messageWriter
	topic  string
	logger *logrus.Logger
}

// NewOutfitEventPublisher creates a new publisher for the configured brokers.
func NewOutfitEventPublisher(cfg *config.Config, logger *logrus.Logger) *OutfitEventPublisher {
	topic := cfg.Kafka.Topics.OutfitRecommendations
	if topic == "" {
		topic = OutfitRecommendationsTopic
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Key by session so a session's events stay ordered
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	return newOutfitEventPublisher(writer, topic, logger)
}

func newOutfitEventPublisher(writer messageWriter, topic string, logger *logrus.Logger) *OutfitEventPublisher {
	return &OutfitEventPublisher{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

// NewOutfitRecommendedEvent summarizes a recommendation call.
func NewOutfitRecommendedEvent(sessionID, requestID, occasion string, recs []models.OutfitRecommendation) *models.OutfitRecommendedEvent {
	event := &models.OutfitRecommendedEvent{
		EventID:   uuid.New().String(),
		SessionID: sessionID,
		RequestID: requestID,
		Occasion:  occasion,
		OutfitIDs: make([]string, 0, len(recs)),
		ItemIDs:   []string{},
		Timestamp: time.Now().UTC(),
	}

	seen := make(map[string]struct{})
	for _, rec := range recs {
		event.OutfitIDs = append(event.OutfitIDs, rec.ID)
		if rec.Confidence > event.TopConfidence {
			event.TopConfidence = rec.Confidence
		}
		for _, item := range rec.Items {
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			event.ItemIDs = append(event.ItemIDs, item.ID)
		}
	}
	sort.Strings(event.ItemIDs)

	return event
}

// PublishOutfitRecommended writes one event keyed by session id.
func (p *OutfitEventPublisher) PublishOutfitRecommended(ctx context.Context, event *models.OutfitRecommendedEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.SessionID),
		Value: eventBytes,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "request_id", Value: []byte(event.RequestID)},
			{Key: "event_type", Value: []byte("outfit_recommended")},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"event_id":   event.EventID,
		"session_id": event.SessionID,
		"outfits":    len(event.OutfitIDs),
		"topic":      p.topic,
	}).Debug("Outfit event published to Kafka")

	return nil
}

func (p *OutfitEventPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close producer: %w", err)
	}
	return nil
}
