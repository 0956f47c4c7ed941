package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-feedback/internal/logger"
	"github.com/sbilibin2017/gw-feedback/internal/models"
)

// publishEvent publishes a lifecycle event to Kafka. Failures are logged and
// never fail the request that caused the event.
func publishEvent(ctx context.Context, w KafkaWriter, operation, username string, feedbackID int64) {
	event := models.Event{
		EventID:    uuid.NewString(),
		Timestamp:  time.Now().Unix(),
		Username:   username,
		Operation:  operation,
		FeedbackID: feedbackID,
	}

	if w == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "event_id", event.EventID, "operation", operation)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal event for Kafka", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(username),
		Value: data,
	}

	if err := w.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish event to Kafka", "event_id", event.EventID, "operation", operation, "error", err)
	} else {
		logger.Log.Infow("Event handed to Kafka writer", "event_id", event.EventID, "operation", operation)
	}
}

// AfterCommitFunc runs fn once the transaction carried by ctx has committed.
type AfterCommitFunc func(ctx context.Context, fn func(ctx context.Context))

// DeferredWriter holds messages back until the request transaction commits,
// so a rolled back change never produces an event.
type DeferredWriter struct {
	writer      KafkaWriter
	afterCommit AfterCommitFunc
}

// NewDeferredWriter wraps writer so that WriteMessages is delayed through afterCommit.
func NewDeferredWriter(writer KafkaWriter, afterCommit AfterCommitFunc) *DeferredWriter {
	return &DeferredWriter{writer: writer, afterCommit: afterCommit}
}

// WriteMessages schedules msgs for publishing. Publish errors are logged once
// the deferred write runs.
func (d *DeferredWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	d.afterCommit(ctx, func(ctx context.Context) {
		if err := d.writer.WriteMessages(ctx, msgs...); err != nil {
			logger.Log.Errorw("Failed to publish event to Kafka", "messages", len(msgs), "error", err)
			return
		}
		logger.Log.Infow("Events published to Kafka", "messages", len(msgs))
	})
	return nil
}
