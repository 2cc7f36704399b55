package invoices

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-erp/meridian-erp/internal/money"
	"github.com/meridian-erp/meridian-erp/internal/sales/orders"
	"github.com/meridian-erp/meridian-erp/internal/sales/quotations"
	"github.com/meridian-erp/meridian-erp/internal/settings"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// QuotationSource exposes the quotation reads invoicing depends on.
type QuotationSource interface {
	Get(ctx context.Context, id int64) (*quotations.Quotation, error)
	Pricing(ctx context.Context, id int64) (*quotations.QuotationPricing, error)
}

// OrderSource exposes the order reads invoicing depends on.
type OrderSource interface {
	Get(ctx context.Context, id int64) (*orders.SalesOrder, error)
}

// SettingsProvider supplies the default payment terms.
type SettingsProvider interface {
	Get(ctx context.Context) (*settings.AppSettings, error)
}

// Auditor records lifecycle transitions. May be nil in tests.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles invoice issuance and lifecycle.
type Service struct {
	repo       Repository
	quotations QuotationSource
	orders     OrderSource
	settings   SettingsProvider
	audit      Auditor
	now        func() time.Time
}

// NewService builds a Service instance.
func NewService(repo Repository, quotationSource QuotationSource, orderSource OrderSource, settingsSvc SettingsProvider, audit Auditor) *Service {
	return &Service{
		repo:       repo,
		quotations: quotationSource,
		orders:     orderSource,
		settings:   settingsSvc,
		audit:      audit,
		now:        time.Now,
	}
}

// CreateFromQuotation issues an invoice for an APPROVED or CONVERTED
// quotation. All figures are recomputed from the quotation's current data;
// stale totals from earlier documents are never trusted.
func (s *Service) CreateFromQuotation(ctx context.Context, quotationID int64, req CreateInvoiceRequest) (*Invoice, error) {
	return s.create(ctx, quotationID, nil, req)
}

// CreateFromOrder issues an invoice against a sales order, pricing it from
// the order's underlying quotation.
func (s *Service) CreateFromOrder(ctx context.Context, orderID int64, req CreateInvoiceRequest) (*Invoice, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return s.create(ctx, order.QuotationID, &order.ID, req)
}

func (s *Service) create(ctx context.Context, quotationID int64, salesOrderID *int64, req CreateInvoiceRequest) (*Invoice, error) {
	auth := shared.AuthFromContext(ctx)
	if !auth.Can(shared.PermInvoiceCreate) {
		return nil, shared.ErrForbidden
	}

	q, err := s.quotations.Get(ctx, quotationID)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if q.Status != quotations.QuotationStatusApproved && q.Status != quotations.QuotationStatusConverted {
		return nil, shared.ErrInvalidStatus
	}

	priced, err := s.quotations.Pricing(ctx, quotationID)
	if err != nil {
		return nil, fmt.Errorf("price quotation: %w", err)
	}
	final := priced.Final

	issuedAt := s.now()
	dueDate := req.DueDate
	if dueDate == nil {
		defaults, err := s.settings.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("load defaults: %w", err)
		}
		if defaults.InvoicePaymentTermsDays > 0 {
			due := issuedAt.AddDate(0, 0, defaults.InvoicePaymentTermsDays)
			dueDate = &due
		}
	}

	number, err := s.repo.GenerateNumber(ctx, issuedAt)
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}

	cgst, sgst := money.SplitHalf(final.GSTAmount)
	inv := &Invoice{
		InvoiceNumber:             number,
		QuotationID:               quotationID,
		SalesOrderID:              salesOrderID,
		CustomerID:                q.CustomerID,
		Status:                    InvoiceStatusPending,
		Subtotal:                  final.ProductAccessorySubtotal,
		DiscountAmount:            final.DiscountAmount,
		TotalInstallation:         final.TotalInstallation,
		TaxableAmount:             final.TaxableAmount,
		GSTAmount:                 final.GSTAmount,
		CGSTAmount:                cgst,
		SGSTAmount:                sgst,
		GrandTotal:                final.GrandTotal,
		GrandTotalWithoutDiscount: final.GrandTotalWithoutDiscount,
		IssuedAt:                  issuedAt,
		DueDate:                   dueDate,
		Notes:                     req.Notes,
		CreatedBy:                 auth.UserID,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  auth.UserID,
			Action:   "invoice.create",
			Entity:   "invoice",
			EntityID: strconv.FormatInt(inv.ID, 10),
			Meta:     map[string]any{"quotation_id": quotationID, "grand_total": inv.GrandTotal.String()},
		})
	}
	return inv, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	return s.repo.List(ctx, req)
}

// Cancel voids an invoice. Paid invoices cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, id int64) (*Invoice, error) {
	auth := shared.AuthFromContext(ctx)
	if !auth.Can(shared.PermInvoiceCancel) {
		return nil, shared.ErrForbidden
	}

	from := []InvoiceStatus{InvoiceStatusPending, InvoiceStatusPartiallyPaid, InvoiceStatusOverdue}
	if err := s.repo.SetStatus(ctx, id, from, InvoiceStatusCancelled); err != nil {
		return nil, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  auth.UserID,
			Action:   "invoice.cancel",
			Entity:   "invoice",
			EntityID: strconv.FormatInt(id, 10),
		})
	}
	return s.repo.Get(ctx, id)
}

// SyncPaymentStatus re-derives the payment status of an order-linked
// invoice from the order's recorded payments.
func (s *Service) SyncPaymentStatus(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.SalesOrderID == nil || !inv.payable() {
		return inv, nil
	}

	order, err := s.orders.Get(ctx, *inv.SalesOrderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	var target InvoiceStatus
	switch {
	case order.AmountPaid.GreaterThanOrEqual(inv.GrandTotal):
		target = InvoiceStatusPaid
	case order.AmountPaid.GreaterThan(decimal.Zero):
		target = InvoiceStatusPartiallyPaid
	default:
		return inv, nil
	}
	if target == inv.Status {
		return inv, nil
	}

	from := []InvoiceStatus{InvoiceStatusPending, InvoiceStatusPartiallyPaid, InvoiceStatusOverdue}
	if err := s.repo.SetStatus(ctx, id, from, target); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// OverdueScan flips past-due PENDING invoices to OVERDUE and returns the
// affected IDs. The worker calls this on a schedule.
func (s *Service) OverdueScan(ctx context.Context, asOf time.Time) ([]int64, error) {
	return s.repo.MarkOverdue(ctx, asOf)
}
