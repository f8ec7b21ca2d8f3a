package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/samandr77/microservices/invoice/internal/entity"
)

type Catalog struct {
	tokens AccessTokenSource
	zoho   ZohoClient
}

func NewCatalog(tokens AccessTokenSource, zoho ZohoClient) *Catalog {
	return &Catalog{tokens: tokens, zoho: zoho}
}

func (c *Catalog) items(ctx context.Context) ([]entity.CatalogItem, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}

	items, err := c.zoho.Items(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return items, nil
}

// ActiveItems returns the items with active status in catalog order.
func (c *Catalog) ActiveItems(ctx context.Context) ([]entity.CatalogItem, error) {
	items, err := c.items(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]entity.CatalogItem, 0, len(items))

	for _, item := range items {
		if item.IsActive() {
			active = append(active, item)
		}
	}

	return active, nil
}

// ResolveRates returns one rate per requested id, in request order with duplicates kept.
// If any id is unknown, nothing is returned and the error lists every missing id.
func (c *Catalog) ResolveRates(ctx context.Context, ids []string) ([]entity.ItemRate, error) {
	if len(ids) == 0 {
		return []entity.ItemRate{}, nil
	}

	items, err := c.items(ctx)
	if err != nil {
		return nil, err
	}

	rates := make(map[string]decimal.Decimal, len(items))

	for _, item := range items {
		if _, ok := rates[item.ID]; !ok {
			rates[item.ID] = item.Rate
		}
	}

	var (
		res     = make([]entity.ItemRate, 0, len(ids))
		missing []string
		seen    = make(map[string]struct{})
	)

	for _, id := range ids {
		rate, ok := rates[id]
		if !ok {
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				missing = append(missing, id)
			}

			continue
		}

		res = append(res, entity.ItemRate{ItemID: id, Rate: rate})
	}

	if len(missing) > 0 {
		return nil, &entity.MissingItemsError{IDs: missing}
	}

	return res, nil
}
