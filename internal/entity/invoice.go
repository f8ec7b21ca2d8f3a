package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type InvoiceItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type InvoiceRequest struct {
	Customer CustomerInfo
	Items    []InvoiceItemRequest
	Notes    string
}

type LineItem struct {
	ItemID   string
	Quantity int
	Rate     decimal.Decimal
}

// InvoiceDraft is the payload submitted to the invoicing service.
type InvoiceDraft struct {
	CustomerID string
	LineItems  []LineItem
	Notes      string
}

// Invoice is the invoice object returned by the invoicing service, passed through untouched.
type Invoice = json.RawMessage

type InvoiceCreated struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	CustomerID    string `json:"customer_id"`
	Email         string `json:"email"`
	LineItems     int    `json:"line_items"`
}
