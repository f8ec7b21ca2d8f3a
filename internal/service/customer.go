package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samandr77/microservices/invoice/internal/entity"
)

type Customers struct {
	tokens AccessTokenSource
	zoho   ZohoClient
}

func NewCustomers(tokens AccessTokenSource, zoho ZohoClient) *Customers {
	return &Customers{tokens: tokens, zoho: zoho}
}

// FindByEmail returns the id of the first contact with the email. found is false if there is none.
func (c *Customers) FindByEmail(ctx context.Context, email string) (id string, found bool, err error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return "", false, fmt.Errorf("get access token: %w", err)
	}

	id, found, err = c.zoho.FindContactByEmail(ctx, token, email)
	if err != nil {
		return "", false, fmt.Errorf("find contact: %w", err)
	}

	return id, found, nil
}

func (c *Customers) Create(ctx context.Context, customer entity.CustomerInfo) (string, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("get access token: %w", err)
	}

	id, err := c.zoho.CreateContact(ctx, token, customer)
	if err != nil {
		return "", fmt.Errorf("create contact: %w", err)
	}

	slog.InfoContext(ctx, "contact created", "contact_id", id)

	return id, nil
}

// FindOrCreate is not atomic: concurrent calls for the same new email may create two contacts.
func (c *Customers) FindOrCreate(ctx context.Context, customer entity.CustomerInfo) (string, error) {
	id, found, err := c.FindByEmail(ctx, customer.Email)
	if err != nil {
		return "", err
	}

	if found {
		return id, nil
	}

	return c.Create(ctx, customer)
}
