package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/samandr77/microservices/invoice/internal/entity"
)

type itemsResponse struct {
	Items []entity.CatalogItem `json:"items"`
}

// Items returns the catalog as listed by Zoho, inactive items included.
func (c *Client) Items(ctx context.Context, accessToken string) ([]entity.CatalogItem, error) {
	code, body, err := c.apiRequest(ctx, accessToken, http.MethodGet, "/items", nil, nil)
	if err != nil {
		return nil, err
	}

	if code != http.StatusOK {
		return nil, unexpectedStatus("list items", code, body)
	}

	var respData itemsResponse

	err = json.Unmarshal(body, &respData)
	if err != nil {
		return nil, fmt.Errorf("%w: unmarshal items: %w", entity.ErrRemote, err)
	}

	return respData.Items, nil
}
