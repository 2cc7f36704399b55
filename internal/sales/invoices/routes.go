package invoices

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/rbac"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

func (h *Handler) MountRoutes(r chi.Router, authz rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAny(shared.PermInvoiceView))
		r.Get("/invoices", h.List)
		r.Get("/invoices/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAll(shared.PermInvoiceCreate))
		r.Post("/quotations/{id}/invoice", h.CreateFromQuotation)
		r.Post("/orders/{id}/invoice", h.CreateFromOrder)
		r.Post("/invoices/{id}/sync-payments", h.SyncPaymentStatus)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAll(shared.PermInvoiceCancel))
		r.Post("/invoices/{id}/cancel", h.Cancel)
	})
}
