package customers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/rbac"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

func (h *Handler) MountRoutes(r chi.Router, authz rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAny(shared.PermCustomerView))
		r.Get("/customers", h.List)
		r.Get("/customers/{id}", h.Show)
		r.Get("/customers/{id}/followups", h.ListFollowUps)
		r.Get("/dashboard/followups", h.DashboardCounts)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAll(shared.PermCustomerCreate))
		r.Post("/customers", h.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAll(shared.PermCustomerEdit))
		r.Put("/customers/{id}", h.Update)
		r.Post("/followups", h.ScheduleFollowUp)
		r.Post("/followups/{id}/complete", h.CompleteFollowUp)
	})
}

func currentUserID(r *http.Request) int64 {
	return shared.AuthFromContext(r.Context()).UserID
}
