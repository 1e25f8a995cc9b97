package provider

import (
	"context"
	"errors"
	"time"

	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
)

// ErrItemNotFound is returned by catalogs for unknown or inactive items.
var ErrItemNotFound = errors.New("catalog item not found")

// CatalogItem is the authoritative price of one item.
type CatalogItem struct {
	Type   model.ItemType
	Ref    string
	Title  string
	Amount int64 // paise
}

// Catalog looks up item prices. The workflow never trusts a client price.
type Catalog interface {
	GetPrice(ctx context.Context, itemType model.ItemType, itemRef string) (*CatalogItem, error)
}

// ObjectStorage holds uploaded proof images.
type ObjectStorage interface {
	Store(ctx context.Context, key string, body []byte, contentType string) error
	Fetch(ctx context.Context, key string) ([]byte, error)
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// EntitlementCache is a read-through cache of a buyer's entitlements.
// Every Invalidate bumps a per-buyer generation; a Set carrying an older
// generation is dropped so a slow reader cannot overwrite a fresh grant.
type EntitlementCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, buyerID string) (list []*model.Entitlement, ok bool, err error)
	// Generation must be read before loading the list that is passed to Set.
	Generation(ctx context.Context, buyerID string) (int64, error)
	// Set reports stored=false when gen is no longer current.
	Set(ctx context.Context, buyerID string, gen int64, list []*model.Entitlement) (stored bool, err error)
	Invalidate(ctx context.Context, buyerID string) error
}

// EventType names an order event.
type EventType string

const EventOrderStateChanged EventType = "order.state_changed"

// OrderEvent is published after a state change commits.
type OrderEvent struct {
	ID        string           `json:"id"`
	Type      EventType        `json:"type"`
	OrderID   string           `json:"orderId"`
	BuyerID   string           `json:"buyerId"`
	ItemType  model.ItemType   `json:"itemType"`
	ItemRef   string           `json:"itemRef"`
	From      model.OrderState `json:"from,omitempty"`
	To        model.OrderState `json:"to"`
	Actor     string           `json:"actor"`
	Timestamp time.Time        `json:"timestamp"`
}

// EventPublisher delivers order events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, events ...*OrderEvent) error
	Close() error
}
