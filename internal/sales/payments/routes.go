package payments

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/rbac"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

func (h *Handler) MountRoutes(r chi.Router, authz rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAny(shared.PermPaymentView))
		r.Get("/payments", h.List)
		r.Get("/payments/{id}", h.Show)
		r.Get("/customers/{id}/statement", h.Statement)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAll(shared.PermPaymentRecord))
		r.Post("/payments", h.Record)
	})
}
