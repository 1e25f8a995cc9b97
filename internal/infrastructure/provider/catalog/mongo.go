package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// collections maps item types onto the legacy site's collections.
var collections = map[model.ItemType]string{
	model.ItemTypeCourse:        "courses",
	model.ItemTypeTestSeries:    "testseries",
	model.ItemTypeEbook:         "ebooks",
	model.ItemTypeStudyMaterial: "studymaterials",
}

// CollectionFor returns the collection holding items of itemType.
func CollectionFor(itemType model.ItemType) (string, bool) {
	name, ok := collections[itemType]
	return name, ok
}

// catalogDocument is the subset of the legacy item documents we read.
type catalogDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	Title    string             `bson:"title"`
	Price    float64            `bson:"price"`
	IsActive *bool              `bson:"isActive"`
}

// MongoCatalog reads prices from the legacy MongoDB catalog.
type MongoCatalog struct {
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoClient connects and pings MongoDB.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

func NewMongoCatalog(db *mongo.Database, logger *zap.Logger) *MongoCatalog {
	return &MongoCatalog{db: db, logger: logger}
}

func (c *MongoCatalog) GetPrice(ctx context.Context, itemType model.ItemType, itemRef string) (*provider.CatalogItem, error) {
	name, ok := CollectionFor(itemType)
	if !ok {
		return nil, provider.ErrItemNotFound
	}

	objectID, err := primitive.ObjectIDFromHex(itemRef)
	if err != nil {
		return nil, provider.ErrItemNotFound
	}

	var doc catalogDocument
	err = c.db.Collection(name).
		FindOne(ctx, bson.M{"_id": objectID}, options.FindOne().SetProjection(bson.M{"title": 1, "price": 1, "isActive": 1})).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, provider.ErrItemNotFound
		}
		c.logger.Error("Failed to look up catalog item",
			zap.String("item_type", string(itemType)),
			zap.String("item_ref", itemRef),
			zap.Error(err))
		return nil, fmt.Errorf("failed to look up catalog item: %w", err)
	}

	return documentToItem(itemType, itemRef, &doc)
}

func documentToItem(itemType model.ItemType, itemRef string, doc *catalogDocument) (*provider.CatalogItem, error) {
	if doc.IsActive != nil && !*doc.IsActive {
		return nil, provider.ErrItemNotFound
	}
	if doc.Price < 0 {
		return nil, fmt.Errorf("catalog item %s has negative price", itemRef)
	}

	return &provider.CatalogItem{
		Type:   itemType,
		Ref:    itemRef,
		Title:  doc.Title,
		Amount: entity.RupeesToPaise(decimal.NewFromFloat(doc.Price)),
	}, nil
}
