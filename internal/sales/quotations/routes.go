package quotations

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/rbac"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

func (h *Handler) MountRoutes(r chi.Router, authz rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAny(shared.PermQuotationView))
		r.Get("/quotations", h.List)
		r.Get("/quotations/{id}", h.Show)
		r.Get("/quotations/{id}/pricing", h.Pricing)
		r.Get("/quotations/{id}/validation", h.Validation)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAll(shared.PermQuotationCreate))
		r.Post("/quotations", h.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAll(shared.PermQuotationEdit))
		r.Put("/quotations/{id}", h.Update)
		r.Post("/quotations/{id}/save", h.Save)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAll(shared.PermQuotationApprove))
		r.Post("/quotations/{id}/approve", h.Approve)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAll(shared.PermQuotationDuplicate))
		r.Post("/quotations/{id}/duplicate", h.Duplicate)
	})
}

func currentUserID(r *http.Request) int64 {
	return shared.AuthFromContext(r.Context()).UserID
}
