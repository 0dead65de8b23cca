package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/znsio/specmatic-product-catalog-go/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher announces created products on a topic, keyed by product id.
type KafkaPublisher struct {
	writer messageWriter
	log    logrus.FieldLogger
}

func NewKafkaPublisher(broker, topic string, log logrus.FieldLogger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{writer: w, log: log.WithField("topic", topic)}
}

func (p *KafkaPublisher) PublishProductCreated(ctx context.Context, product models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	msg, err := productMessage(product)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("error writing message to Kafka: %w", err)
	}

	p.log.WithField("product_id", product.ID).Debug("published product-created message")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func productMessage(product models.Product) (kafka.Message, error) {
	value, err := json.Marshal(models.ProductMessage{
		ID:        product.ID,
		Name:      product.Name,
		CreatedAt: product.CreatedAt,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("error marshaling product message: %w", err)
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatInt(product.ID, 10)),
		Value: value,
	}, nil
}
