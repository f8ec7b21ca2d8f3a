package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samandr77/microservices/invoice/internal/entity"
)

// @title Zoho Invoice API
// @version 1.0
// @description Lists catalog items and creates invoices in Zoho Invoice.
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-Api-Key

type Service interface {
	ActiveItems(ctx context.Context) ([]entity.CatalogItem, error)
	ItemRates(ctx context.Context, ids []string) ([]entity.ItemRate, error)
	CreateInvoice(ctx context.Context, req entity.InvoiceRequest) (entity.Invoice, error)
}

type Handler struct {
	s Service
}

func NewHandler(s Service) *Handler {
	return &Handler{s: s}
}

type StatusResponse struct {
	Message string `json:"message"`
}

// Root is the liveness probe.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	SendJSON(r.Context(), w, http.StatusOK, StatusResponse{Message: "Zoho Invoice API is running"})
}

type Item struct {
	ItemID      string  `json:"item_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Rate        float64 `json:"rate"`
	Unit        string  `json:"unit"`
	Status      string  `json:"status"`
}

type ItemsResponse struct {
	Items []Item `json:"items"`
}

// Items godoc
// @Summary List active items
// @Tags items
// @Produce json
// @Success 200 {object} ItemsResponse
// @Failure 500 {object} ErrorResponse "Failed to fetch items"
// @Security ApiKeyAuth
// @Router /items [get]
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.s.ActiveItems(ctx)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Failed to fetch items")
		return
	}

	resp := ItemsResponse{Items: make([]Item, 0, len(items))}

	for _, item := range items {
		resp.Items = append(resp.Items, Item{
			ItemID:      item.ID,
			Name:        item.Name,
			Description: item.Description,
			Rate:        item.Rate.InexactFloat64(),
			Unit:        item.Unit,
			Status:      item.Status,
		})
	}

	SendJSON(ctx, w, http.StatusOK, resp)
}

type ItemRate struct {
	ItemID string  `json:"item_id"`
	Rate   float64 `json:"rate"`
}

type ItemRatesResponse struct {
	Items []ItemRate `json:"items"`
}

// ItemRates godoc
// @Summary Resolve rates for item ids
// @Tags items
// @Accept json
// @Produce json
// @Param request body []string true "Item ids"
// @Success 200 {object} ItemRatesResponse
// @Failure 400 {object} ErrorResponse "Invalid JSON"
// @Failure 404 {object} ErrorResponse "Items not found"
// @Failure 500 {object} ErrorResponse "Failed to fetch item rates"
// @Security ApiKeyAuth
// @Router /item-rates [post]
func (h *Handler) ItemRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var ids []string

	err := json.NewDecoder(r.Body).Decode(&ids)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid JSON")
		return
	}

	rates, err := h.s.ItemRates(ctx, ids)
	if err != nil {
		sendServiceErr(ctx, w, err, "Failed to fetch item rates")
		return
	}

	resp := ItemRatesResponse{Items: make([]ItemRate, 0, len(rates))}
	for _, rate := range rates {
		resp.Items = append(resp.Items, ItemRate{ItemID: rate.ItemID, Rate: rate.Rate.InexactFloat64()})
	}

	SendJSON(ctx, w, http.StatusOK, resp)
}

type CreateInvoiceRequest struct {
	CustomerInfo entity.CustomerInfo         `json:"customer_info"`
	Items        []entity.InvoiceItemRequest `json:"items"`
	Notes        string                      `json:"notes,omitempty"`
}

func (r CreateInvoiceRequest) validate() error {
	var problems []string

	if strings.TrimSpace(r.CustomerInfo.FirstName) == "" {
		problems = append(problems, "customer_info.first_name is required")
	}

	if strings.TrimSpace(r.CustomerInfo.LastName) == "" {
		problems = append(problems, "customer_info.last_name is required")
	}

	if strings.TrimSpace(r.CustomerInfo.Email) == "" {
		problems = append(problems, "customer_info.email is required")
	}

	if len(r.Items) == 0 {
		problems = append(problems, "items must not be empty")
	}

	for i, item := range r.Items {
		if item.ItemID == "" {
			problems = append(problems, fmt.Sprintf("items[%d].item_id is required", i))
		}

		if item.Quantity <= 0 {
			problems = append(problems, fmt.Sprintf("items[%d].quantity must be positive", i))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", entity.ErrInvalidArgument, strings.Join(problems, "; "))
	}

	return nil
}

type CreateInvoiceResponse struct {
	Message string          `json:"message"`
	Invoice json.RawMessage `json:"invoice" swaggertype:"object"`
}

// CreateInvoice godoc
// @Summary Create invoice
// @Description Finds or creates the customer by email, prices the items from the catalog and creates the invoice.
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body CreateInvoiceRequest true "Invoice request"
// @Success 200 {object} CreateInvoiceResponse
// @Failure 400 {object} ErrorResponse "Invalid JSON"
// @Failure 404 {object} ErrorResponse "Items not found"
// @Failure 422 {object} ErrorResponse "Invalid request"
// @Failure 500 {object} ErrorResponse "Failed to create invoice"
// @Security ApiKeyAuth
// @Router /create-invoice [post]
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateInvoiceRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid JSON")
		return
	}

	err = req.validate()
	if err != nil {
		SendJSONErr(ctx, w, http.StatusUnprocessableEntity, err, "Invalid request")
		return
	}

	invoice, err := h.s.CreateInvoice(ctx, entity.InvoiceRequest{
		Customer: req.CustomerInfo,
		Items:    req.Items,
		Notes:    req.Notes,
	})
	if err != nil {
		sendServiceErr(ctx, w, err, "Failed to create invoice")
		return
	}

	SendJSON(ctx, w, http.StatusOK, CreateInvoiceResponse{
		Message: "Invoice created successfully",
		Invoice: invoice,
	})
}

// sendServiceErr maps service errors to HTTP statuses.
func sendServiceErr(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	var missing *entity.MissingItemsError

	switch {
	case errors.As(err, &missing):
		SendJSONErr(ctx, w, http.StatusNotFound, err, "Items not found: "+strings.Join(missing.IDs, ", "))
	case errors.Is(err, entity.ErrInvalidArgument):
		SendJSONErr(ctx, w, http.StatusUnprocessableEntity, err, "Invalid request")
	default:
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, msg)
	}
}
