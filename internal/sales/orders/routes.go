package orders

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/rbac"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

func (h *Handler) MountRoutes(r chi.Router, authz rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAny(shared.PermSalesOrderView))
		r.Get("/orders", h.List)
		r.Get("/orders/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAll(shared.PermQuotationConvert))
		r.Post("/quotations/{id}/convert", h.Convert)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAll(shared.PermSalesOrderUpdateStatus))
		r.Post("/orders/{id}/status", h.UpdateStatus)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAll(shared.PermSalesOrderRecordPayment))
		r.Post("/orders/{id}/payments", h.RecordPayment)
	})
}
