package report

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-erp/meridian-erp/internal/platform/httpx"
	"github.com/meridian-erp/meridian-erp/internal/rbac"
	"github.com/meridian-erp/meridian-erp/internal/sales/customers"
	"github.com/meridian-erp/meridian-erp/internal/sales/invoices"
	"github.com/meridian-erp/meridian-erp/internal/sales/orders"
	"github.com/meridian-erp/meridian-erp/internal/sales/quotations"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// QuotationSource supplies priced quotations for rendering.
type QuotationSource interface {
	Get(ctx context.Context, id int64) (*quotations.Quotation, error)
	Pricing(ctx context.Context, id int64) (*quotations.QuotationPricing, error)
}

// InvoiceSource supplies invoice snapshots for rendering.
type InvoiceSource interface {
	Get(ctx context.Context, id int64) (*invoices.Invoice, error)
}

// OrderSource resolves the sales order referenced on an invoice header.
type OrderSource interface {
	Get(ctx context.Context, id int64) (*orders.SalesOrder, error)
}

// CustomerSource resolves the customer printed on the document header.
type CustomerSource interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

// Handler serves printable PDF documents.
type Handler struct {
	client     *Client
	quotations QuotationSource
	invoices   InvoiceSource
	orders     OrderSource
	customers  CustomerSource
	logger     *slog.Logger
}

// NewHandler creates a report handler.
func NewHandler(client *Client, q QuotationSource, inv InvoiceSource, ord OrderSource, cust CustomerSource, logger *slog.Logger) *Handler {
	return &Handler{client: client, quotations: q, invoices: inv, orders: ord, customers: cust, logger: logger}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router, authz rbac.Middleware) {
	r.Get("/reports/ping", h.ping)
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAny(shared.PermQuotationView))
		r.Get("/quotations/{id}/pdf", h.quotationPDF)
	})
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAny(shared.PermInvoiceView))
		r.Get("/invoices/{id}/pdf", h.invoicePDF)
	})
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Ping(r.Context()); err != nil {
		h.logger.Warn("gotenberg ping failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) quotationPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	priced, err := h.quotations.Pricing(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	cust, err := h.customers.Get(r.Context(), priced.Quotation.CustomerID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	html, err := RenderQuotationHTML(priced, cust)
	if err != nil {
		h.logger.Error("render quotation html", slog.Any("error", err), slog.Int64("quotation_id", id))
		httpx.RespondError(w, err)
		return
	}
	h.servePDF(w, r, html, quotationFilename(priced.Quotation.QuotationNumber))
}

func (h *Handler) invoicePDF(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	inv, err := h.invoices.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	cust, err := h.customers.Get(r.Context(), inv.CustomerID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	// Header references are best-effort; a missing source document does not
	// block the render.
	var refs InvoiceRefs
	if q, err := h.quotations.Get(r.Context(), inv.QuotationID); err == nil {
		refs.QuotationNumber = q.QuotationNumber
	}
	if inv.SalesOrderID != nil {
		if ord, err := h.orders.Get(r.Context(), *inv.SalesOrderID); err == nil {
			refs.OrderNumber = ord.OrderNumber
		}
	}

	html, err := RenderInvoiceHTML(inv, cust, refs)
	if err != nil {
		h.logger.Error("render invoice html", slog.Any("error", err), slog.Int64("invoice_id", id))
		httpx.RespondError(w, err)
		return
	}
	h.servePDF(w, r, html, invoiceFilename(inv.InvoiceNumber))
}

func (h *Handler) servePDF(w http.ResponseWriter, r *http.Request, html, filename string) {
	pdf, err := h.client.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render pdf", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename=`+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func documentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid document id")
		return 0, false
	}
	return id, true
}
