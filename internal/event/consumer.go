package event

import (
	"context"
	"log/slog"

	"github.com/vindenez/Matplaner-backend/pkg/kafka"
)

// SnapshotReloader rebuilds the local catalog snapshot from the database.
type SnapshotReloader interface {
	ReloadSnapshot(ctx context.Context) (int, error)
}

// CatalogConsumer follows catalog.refreshed events from peer instances
// and reloads the local snapshot so all instances serve the same catalog.
type CatalogConsumer struct {
	reloader   SnapshotReloader
	instanceID string
	logger     *slog.Logger
}

// NewCatalogConsumer creates a handler for catalog.refreshed events.
// instanceID must match the publisher's so self-produced events are skipped.
func NewCatalogConsumer(reloader SnapshotReloader, instanceID string, logger *slog.Logger) *CatalogConsumer {
	return &CatalogConsumer{
		reloader:   reloader,
		instanceID: instanceID,
		logger:     logger,
	}
}

// Handle processes one catalog event.
func (c *CatalogConsumer) Handle(ctx context.Context, evt *kafka.Event) error {
	if evt.EventType != TypeCatalogRefreshed {
		c.logger.DebugContext(ctx, "ignoring unknown event type",
			slog.String("event_type", evt.EventType),
		)
		return nil
	}

	// The snapshot is already live locally when we produced the event.
	if evt.AggregateID == c.instanceID {
		return nil
	}

	var data CatalogRefreshedData
	if err := evt.UnmarshalData(&data); err != nil {
		c.logger.WarnContext(ctx, "malformed catalog.refreshed payload",
			slog.String("event_id", evt.EventID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	count, err := c.reloader.ReloadSnapshot(ctx)
	if err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "catalog snapshot reloaded from peer event",
		slog.String("peer", evt.AggregateID),
		slog.Int("peer_products", data.ProductCount),
		slog.Int("products", count),
	)

	return nil
}
