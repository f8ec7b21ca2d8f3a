package entity

import "github.com/shopspring/decimal"

const ItemStatusActive = "active"

type CatalogItem struct {
	ID          string          `json:"item_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
	Unit        string          `json:"unit"`
	Status      string          `json:"status"`
}

func (i CatalogItem) IsActive() bool {
	return i.Status == ItemStatusActive
}

type ItemRate struct {
	ItemID string
	Rate   decimal.Decimal
}
