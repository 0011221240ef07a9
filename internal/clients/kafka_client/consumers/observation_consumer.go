package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cdeia/observaciones/internal/clients"
	"github.com/cdeia/observaciones/internal/clients/kafka_client"
	"github.com/cdeia/observaciones/internal/models"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"
)

const (
	PUBLISH_ATTEMPTS = 3
	PUBLISH_DELAY    = 2 * time.Second

	kindInvalidMessage = "invalid_message"
)

type Submitter interface {
	Submit(ctx context.Context, title, entity, text string) (*models.ObservationResponse, error)
}

// ObservationConsumer serves one request message at a time: submit, publish the
// result, commit the offset.
type ObservationConsumer struct {
	Service      Submitter
	Publisher    kafka_client.Publisher
	ResultTopic  string
	publishDelay time.Duration
}

func NewObservationConsumer(svc Submitter, publisher kafka_client.Publisher, resultTopic string) *ObservationConsumer {
	return &ObservationConsumer{
		Service:      svc,
		Publisher:    publisher,
		ResultTopic:  resultTopic,
		publishDelay: PUBLISH_DELAY,
	}
}

// Start matches kafka_client.ConsumerFunc.
func (oc *ObservationConsumer) Start(ctx context.Context, consumer *kafka.Consumer) error {
	return oc.Run(ctx, consumer, consumer)
}

// Run returns nil once ctx is done. It returns an error when a message cannot be
// read, or when its result cannot be published: the consumer must then be closed
// so the group resumes from the last committed offset, which is still before
// the unpublished request.
func (oc *ObservationConsumer) Run(ctx context.Context, reader kafka_client.MessageReader, committer kafka_client.OffsetCommitter) error {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, reader)
	commitHandler := kafka_client.NewCommitHandler(ctx, committer)

	slog.Info("[ObservationConsumer] Listening for observation requests...")

	for {
		msg, err := iterator.Next()
		if err != nil {
			if ctx.Err() != nil {
				slog.Warn("[ObservationConsumer] Stopping consumer...")
				return nil
			}
			slog.Error("[ObservationConsumer] Failed to read message",
				slog.String("error", err.Error()))
			return err
		}

		result := oc.Handle(ctx, msg.Value)
		if err := oc.publish(ctx, result); err != nil {
			// Committing any later offset would skip this request for good.
			slog.Error("[ObservationConsumer] Result not published, stopping before the next commit",
				slog.String("request_id", result.RequestID),
				slog.Int("partition", int(msg.TopicPartition.Partition)),
				slog.String("offset", msg.TopicPartition.Offset.String()),
				slog.String("error", err.Error()))
			return fmt.Errorf("[ObservationConsumer] request %s left uncommitted: %w", result.RequestID, err)
		}

		if err := commitHandler.Commit(msg); err != nil {
			slog.Warn("[ObservationConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
}

// Handle turns one request message into a result. It never fails: every
// problem is reported inside the result.
func (oc *ObservationConsumer) Handle(ctx context.Context, value []byte) models.ObservationResult {
	var msg models.ObservationMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		slog.Warn("[ObservationConsumer] Dropping undecodable message",
			slog.String("error", err.Error()))
		return models.ObservationResult{
			RequestID: uuid.NewString(),
			Error: &models.ObservationResultError{
				Kind:    kindInvalidMessage,
				Message: err.Error(),
			},
		}
	}
	if msg.RequestID == "" {
		msg.RequestID = uuid.NewString()
	}

	result := models.ObservationResult{RequestID: msg.RequestID}
	resp, err := oc.Service.Submit(ctx, msg.Titulo, msg.Entidad, msg.Resultados)
	if err != nil {
		result.Error = &models.ObservationResultError{
			Kind:    clients.Kind(err),
			Message: err.Error(),
		}
		if elapsed, ok := clients.ElapsedOf(err); ok {
			result.ElapsedMS = elapsed.Milliseconds()
		}
		return result
	}

	result.Propuestas = resp.Displayed()
	result.ElapsedMS = resp.Elapsed.Milliseconds()
	return result
}

func (oc *ObservationConsumer) publish(ctx context.Context, result models.ObservationResult) error {
	var err error
	for i := 0; i < PUBLISH_ATTEMPTS; i++ {
		err = oc.Publisher.Publish(oc.ResultTopic, result.RequestID, result)
		if err == nil {
			return nil
		}
		slog.Warn("[ObservationConsumer] Result publishing failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if i == PUBLISH_ATTEMPTS-1 {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Join(ctx.Err(), err)
		case <-time.After(oc.publishDelay):
		}
	}
	return errors.Join(errors.New("[ObservationConsumer] publishing failed after retries"), err)
}
