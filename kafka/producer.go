package kafka

import (
	"context"
	"encoding/json"
	"time"

	"menu-import-service/models"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer, topic: topic}
}

type importCompletedEvent struct {
	OwnerID         string    `json:"owner_id"`
	ProductsAdded   int       `json:"products_added"`
	ProductsUpdated int       `json:"products_updated"`
	TotalExtracted  int       `json:"total_extracted"`
	ErrorCount      int       `json:"error_count"`
	CompletedAt     time.Time `json:"completed_at"`
}

// PublishImportCompleted announces a finished import run. Keyed by owner so
// one owner's events stay ordered within a partition.
func (p *Producer) PublishImportCompleted(ctx context.Context, ownerID uuid.UUID, result models.ImportResult) error {
	event := importCompletedEvent{
		OwnerID:         ownerID.String(),
		ProductsAdded:   result.ProductsAdded,
		ProductsUpdated: result.ProductsUpdated,
		TotalExtracted:  result.TotalExtracted,
		ErrorCount:      len(result.Errors),
		CompletedAt:     time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ownerID.String()),
		Value: data,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
