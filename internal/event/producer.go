package event

import (
	"context"
	"fmt"
	"time"

	"github.com/vindenez/Matplaner-backend/pkg/kafka"
	"github.com/vindenez/Matplaner-backend/pkg/logger"
)

// Publisher sends catalog events to Kafka. The instance ID is carried as
// the aggregate ID so consumers can skip events they produced themselves.
type Publisher struct {
	producer   *kafka.Producer
	instanceID string
}

// NewPublisher creates a Kafka-backed catalog event publisher.
func NewPublisher(producer *kafka.Producer, instanceID string) *Publisher {
	return &Publisher{producer: producer, instanceID: instanceID}
}

// PublishCatalogRefreshed announces that a new catalog snapshot is live.
func (p *Publisher) PublishCatalogRefreshed(ctx context.Context, productCount int) error {
	evt, err := kafka.NewEvent(
		TypeCatalogRefreshed,
		p.instanceID,
		AggregateTypeCatalog,
		Source,
		CatalogRefreshedData{
			ProductCount: productCount,
			RefreshedAt:  time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("build catalog.refreshed event: %w", err)
	}

	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	return p.producer.Publish(ctx, TopicCatalogRefreshed, evt)
}
