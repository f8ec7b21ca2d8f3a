package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/samandr77/microservices/invoice/internal/entity"
)

// CreateInvoice resolves the customer and item rates, then submits the invoice.
// Nothing is rolled back when a later step fails.
func (s *Service) CreateInvoice(ctx context.Context, req entity.InvoiceRequest) (entity.Invoice, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: no items", entity.ErrInvalidArgument)
	}

	customerID, err := s.customers.FindOrCreate(ctx, req.Customer)
	if err != nil {
		return nil, fmt.Errorf("resolve customer: %w", err)
	}

	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ItemID)
	}

	rates, err := s.catalog.ResolveRates(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve rates: %w", err)
	}

	rateByID := make(map[string]decimal.Decimal, len(rates))
	for _, r := range rates {
		rateByID[r.ItemID] = r.Rate
	}

	draft := entity.InvoiceDraft{
		CustomerID: customerID,
		LineItems:  make([]entity.LineItem, 0, len(req.Items)),
		Notes:      req.Notes,
	}

	for _, item := range req.Items {
		draft.LineItems = append(draft.LineItems, entity.LineItem{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			Rate:     rateByID[item.ItemID],
		})
	}

	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}

	invoice, err := s.zoho.CreateInvoice(ctx, token, draft)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	event := invoiceCreatedEvent(invoice, customerID, req.Customer.Email, len(draft.LineItems))

	slog.InfoContext(ctx, "invoice created",
		"invoice_id", event.InvoiceID,
		"customer_id", customerID,
		"line_items", len(draft.LineItems),
	)

	if s.producer != nil {
		s.producer.SendInvoiceCreated(ctx, event)
	}

	return invoice, nil
}

func invoiceCreatedEvent(invoice entity.Invoice, customerID, email string, lineItems int) entity.InvoiceCreated {
	var ids struct {
		InvoiceID     string `json:"invoice_id"`
		InvoiceNumber string `json:"invoice_number"`
	}

	// The invoice is opaque; ids are best effort.
	_ = json.Unmarshal(invoice, &ids)

	return entity.InvoiceCreated{
		InvoiceID:     ids.InvoiceID,
		InvoiceNumber: ids.InvoiceNumber,
		CustomerID:    customerID,
		Email:         email,
		LineItems:     lineItems,
	}
}
