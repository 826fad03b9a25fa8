package reconciliation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alimikegami/point-of-sales/checkout-service/internal/domain"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/dto"
	"github.com/segmentio/kafka-go"
)

const commerceUpdateFailedEvent = "commerce_update_failed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaSink struct {
	writer messageWriter
}

func CreateKafkaSink(writer messageWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Publish(ctx context.Context, record domain.ReconciliationRecord) error {
	kafkaMsg := dto.KafkaMessage{
		EventType: commerceUpdateFailedEvent,
		Data:      record,
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		return fmt.Errorf("failed to marshal Kafka message: %w", err)
	}

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.TransactionID),
		Value: jsonMsg,
	})
}
