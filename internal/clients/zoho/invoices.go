package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/samandr77/microservices/invoice/internal/entity"
)

type lineItem struct {
	ItemID   string  `json:"item_id"`
	Quantity int     `json:"quantity"`
	Rate     float64 `json:"rate"`
}

type createInvoiceRequest struct {
	CustomerID string     `json:"customer_id"`
	LineItems  []lineItem `json:"line_items"`
	Notes      string     `json:"notes,omitempty"`
}

type createInvoiceResponse struct {
	Invoice json.RawMessage `json:"invoice"`
}

// CreateInvoice submits the draft and returns the created invoice object unchanged.
func (c *Client) CreateInvoice(ctx context.Context, accessToken string, draft entity.InvoiceDraft) (entity.Invoice, error) {
	reqData := createInvoiceRequest{
		CustomerID: draft.CustomerID,
		LineItems:  make([]lineItem, 0, len(draft.LineItems)),
		Notes:      draft.Notes,
	}

	for _, li := range draft.LineItems {
		reqData.LineItems = append(reqData.LineItems, lineItem{
			ItemID:   li.ItemID,
			Quantity: li.Quantity,
			Rate:     li.Rate.InexactFloat64(),
		})
	}

	code, body, err := c.apiRequest(ctx, accessToken, http.MethodPost, "/invoices", nil, reqData)
	if err != nil {
		return nil, err
	}

	if code != http.StatusCreated {
		return nil, unexpectedStatus("create invoice", code, body)
	}

	var respData createInvoiceResponse

	err = json.Unmarshal(body, &respData)
	if err != nil {
		return nil, fmt.Errorf("%w: unmarshal invoice: %w", entity.ErrRemote, err)
	}

	if len(respData.Invoice) == 0 {
		return nil, fmt.Errorf("%w: create invoice: response without invoice: %s", entity.ErrRemote, body)
	}

	return respData.Invoice, nil
}
