package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/samandr77/microservices/invoice/docs" // swagger docs
)

// NewRouter mounts the liveness probe at / and the API under prefix.
func NewRouter(h *Handler, mw *Middleware, prefix string) http.Handler {
	mux := chi.NewRouter()
	mux.Use(mw.Log, mw.Recover, mw.Cors)

	mux.Get("/", h.Root)

	mux.Route(prefix, func(r chi.Router) {
		r.HandleFunc("/swagger/*", httpSwagger.Handler())

		r.Group(func(r chi.Router) {
			r.Use(mw.APIKeyAuth)
			r.Get("/items", h.Items)
			r.Post("/item-rates", h.ItemRates)
			r.Post("/create-invoice", h.CreateInvoice)
		})
	})

	return mux
}
