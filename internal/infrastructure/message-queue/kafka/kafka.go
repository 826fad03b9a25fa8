package kafka

import (
	"time"

	"github.com/alimikegami/point-of-sales/checkout-service/config"
	"github.com/segmentio/kafka-go"
)

func CreateKafkaWriter(config *config.Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(config.KafkaConfig.BrokerAddress),
		Topic:        config.KafkaConfig.BrokerTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		MaxAttempts:  1,
	}
}
