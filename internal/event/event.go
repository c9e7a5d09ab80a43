package event

import (
	"time"

	"github.com/vindenez/Matplaner-backend/pkg/kafka"
)

// Source identifies this service in event envelopes.
const Source = "matplaner-backend"

// Event types for the catalog aggregate.
const (
	TypeCatalogRefreshed = "catalog.refreshed"

	AggregateTypeCatalog = "catalog"
)

// TopicCatalogRefreshed carries catalog reload announcements between
// instances.
var TopicCatalogRefreshed = kafka.Topic("catalog", "refreshed")

// CatalogRefreshedData is the payload of a catalog.refreshed event.
type CatalogRefreshedData struct {
	ProductCount int       `json:"product_count"`
	RefreshedAt  time.Time `json:"refreshed_at"`
}
