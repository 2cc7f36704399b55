package orders

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-erp/meridian-erp/internal/sales/payments"
	"github.com/meridian-erp/meridian-erp/internal/sales/quotations"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// QuotationSource exposes the quotation reads conversion depends on.
type QuotationSource interface {
	Get(ctx context.Context, id int64) (*quotations.Quotation, error)
	Pricing(ctx context.Context, id int64) (*quotations.QuotationPricing, error)
}

// Auditor records lifecycle transitions. May be nil in tests.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles order conversion, fulfilment transitions and payments.
type Service struct {
	repo       Repository
	quotations QuotationSource
	audit      Auditor
	now        func() time.Time
}

// NewService builds a Service instance.
func NewService(repo Repository, quotationSource QuotationSource, audit Auditor) *Service {
	return &Service{repo: repo, quotations: quotationSource, audit: audit, now: time.Now}
}

// Convert turns an APPROVED quotation into a PENDING sales order. The order
// total is the quotation's grand total at this moment; the quotation is
// locked as CONVERTED in the same transaction.
func (s *Service) Convert(ctx context.Context, quotationID int64, req ConvertQuotationRequest) (*SalesOrder, error) {
	auth := shared.AuthFromContext(ctx)
	if !auth.Can(shared.PermQuotationConvert) {
		return nil, shared.ErrForbidden
	}

	q, err := s.quotations.Get(ctx, quotationID)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	switch q.Status {
	case quotations.QuotationStatusApproved:
	case quotations.QuotationStatusConverted:
		return nil, shared.ErrAlreadyConverted
	default:
		return nil, shared.ErrInvalidStatus
	}

	priced, err := s.quotations.Pricing(ctx, quotationID)
	if err != nil {
		return nil, fmt.Errorf("price quotation: %w", err)
	}

	number, err := s.repo.GenerateNumber(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}

	order := &SalesOrder{
		OrderNumber:          number,
		QuotationID:          quotationID,
		CustomerID:           q.CustomerID,
		Status:               OrderStatusPending,
		PaymentStatus:        PaymentStatusUnpaid,
		TotalAmount:          priced.Final.GrandTotal,
		AmountPaid:           decimal.Zero,
		AmountDue:            priced.Final.GrandTotal,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
		CreatedBy:            auth.UserID,
	}
	if err := s.repo.ConvertFromQuotation(ctx, order); err != nil {
		return nil, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  auth.UserID,
			Action:   "quotation.convert",
			Entity:   "sales_order",
			EntityID: strconv.FormatInt(order.ID, 10),
			Meta:     map[string]any{"quotation_id": quotationID, "total_amount": order.TotalAmount.String()},
		})
	}
	return order, nil
}

// UpdateStatus applies one fulfilment transition. Illegal jumps and moves
// out of terminal statuses are rejected.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*SalesOrder, error) {
	auth := shared.AuthFromContext(ctx)
	if !auth.Can(shared.PermSalesOrderUpdateStatus) {
		return nil, shared.ErrForbidden
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if !CanTransition(order.Status, req.Status) {
		return nil, shared.ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, order.Status, req.Status); err != nil {
		return nil, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  auth.UserID,
			Action:   "order.status_change",
			Entity:   "sales_order",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     map[string]any{"from": order.Status, "to": req.Status},
		})
	}
	return s.repo.Get(ctx, id)
}

// RecordPayment appends an instalment. Zero and negative amounts are
// rejected up front; overpayment is rejected atomically in the repository.
func (s *Service) RecordPayment(ctx context.Context, orderID int64, req RecordPaymentRequest) (*SalesOrder, error) {
	auth := shared.AuthFromContext(ctx)
	if !auth.Can(shared.PermSalesOrderRecordPayment) {
		return nil, shared.ErrForbidden
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", shared.ErrInvalidAmount)
	}

	receivedAt := s.now()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}
	transactionID := payments.NewTransactionID()
	if req.TransactionID != nil && *req.TransactionID != "" {
		transactionID = *req.TransactionID
	}
	payment := &OrderPayment{
		ReceiptNumber: payments.NewReceiptNumber(receivedAt),
		TransactionID: transactionID,
		Amount:        req.Amount,
		PaymentType:   req.PaymentType,
		Method:        req.Method,
		Reference:     req.Reference,
		Notes:         req.Notes,
		ReceivedBy:    auth.UserID,
		ReceivedAt:    receivedAt,
	}

	order, err := s.repo.RecordPayment(ctx, orderID, payment)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  auth.UserID,
			Action:   "order.payment_recorded",
			Entity:   "sales_order",
			EntityID: strconv.FormatInt(orderID, 10),
			Meta:     map[string]any{"amount": payment.Amount.String(), "payment_type": payment.PaymentType},
		})
	}
	return order, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*SalesOrder, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByQuotation(ctx context.Context, quotationID int64) (*SalesOrder, error) {
	return s.repo.GetByQuotation(ctx, quotationID)
}

func (s *Service) List(ctx context.Context, req ListOrdersRequest) ([]SalesOrder, int, error) {
	return s.repo.List(ctx, req)
}
