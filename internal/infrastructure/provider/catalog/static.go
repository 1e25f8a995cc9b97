package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// staticFile is the on-disk price list.
type staticFile struct {
	Items []staticItem `yaml:"items"`
}

type staticItem struct {
	Type  model.ItemType `yaml:"type"`
	Ref   string         `yaml:"ref"`
	Title string         `yaml:"title"`
	// Price is in rupees, e.g. "499" or "1499.50".
	Price  string `yaml:"price"`
	Active *bool  `yaml:"active"`
}

type itemKey struct {
	itemType model.ItemType
	ref      string
}

// StaticCatalog serves prices from a YAML file loaded once at startup.
type StaticCatalog struct {
	items map[itemKey]provider.CatalogItem
}

// LoadStaticCatalog reads a price list from path.
func LoadStaticCatalog(path string) (*StaticCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseStaticCatalog(data)
}

// ParseStaticCatalog builds a catalog from YAML bytes.
func ParseStaticCatalog(data []byte) (*StaticCatalog, error) {
	var file staticFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	c := &StaticCatalog{items: make(map[itemKey]provider.CatalogItem, len(file.Items))}
	for i, it := range file.Items {
		if !it.Type.Valid() {
			return nil, fmt.Errorf("catalog item %d: unknown type %q", i, it.Type)
		}
		if it.Ref == "" {
			return nil, fmt.Errorf("catalog item %d: ref is required", i)
		}
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog item %s: invalid price %q: %w", it.Ref, it.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("catalog item %s: negative price", it.Ref)
		}
		if it.Active != nil && !*it.Active {
			continue
		}

		key := itemKey{itemType: it.Type, ref: it.Ref}
		if _, dup := c.items[key]; dup {
			return nil, fmt.Errorf("catalog item %s %s listed twice", it.Type, it.Ref)
		}
		c.items[key] = provider.CatalogItem{
			Type:   it.Type,
			Ref:    it.Ref,
			Title:  it.Title,
			Amount: entity.RupeesToPaise(price),
		}
	}

	return c, nil
}

func (c *StaticCatalog) GetPrice(_ context.Context, itemType model.ItemType, itemRef string) (*provider.CatalogItem, error) {
	item, ok := c.items[itemKey{itemType: itemType, ref: itemRef}]
	if !ok {
		return nil, provider.ErrItemNotFound
	}
	return &item, nil
}
