package service

import (
	"context"

	"github.com/samandr77/microservices/invoice/internal/entity"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=../mocks/service.go -package=mocks

type TokenStore interface {
	Acquire(ctx context.Context) (entity.TokenSession, error)
}

type OAuthClient interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (entity.AccessToken, error)
}

type ZohoClient interface {
	Items(ctx context.Context, accessToken string) ([]entity.CatalogItem, error)
	FindContactByEmail(ctx context.Context, accessToken, email string) (string, bool, error)
	CreateContact(ctx context.Context, accessToken string, customer entity.CustomerInfo) (string, error)
	CreateInvoice(ctx context.Context, accessToken string, draft entity.InvoiceDraft) (entity.Invoice, error)
}

type AccessTokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type Producer interface {
	SendInvoiceCreated(ctx context.Context, event entity.InvoiceCreated)
}

// Service assembles invoices and serves the catalog to the API.
type Service struct {
	tokens    AccessTokenSource
	catalog   *Catalog
	customers *Customers
	zoho      ZohoClient
	producer  Producer // optional
}

// New wires the invoice assembler. producer may be nil.
func New(tokens AccessTokenSource, zoho ZohoClient, producer Producer) *Service {
	return &Service{
		tokens:    tokens,
		catalog:   NewCatalog(tokens, zoho),
		customers: NewCustomers(tokens, zoho),
		zoho:      zoho,
		producer:  producer,
	}
}

func (s *Service) ActiveItems(ctx context.Context) ([]entity.CatalogItem, error) {
	return s.catalog.ActiveItems(ctx)
}

func (s *Service) ItemRates(ctx context.Context, ids []string) ([]entity.ItemRate, error) {
	return s.catalog.ResolveRates(ctx, ids)
}
