package payments

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// CustomerVerifier checks the customer exists before a payment is filed
// against them.
type CustomerVerifier interface {
	Exists(ctx context.Context, customerID int64) error
}

// Auditor records payment activity. May be nil in tests.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles direct customer payments and statements.
type Service struct {
	repo      Repository
	customers CustomerVerifier
	audit     Auditor
	now       func() time.Time
}

// NewService builds a Service instance.
func NewService(repo Repository, customers CustomerVerifier, audit Auditor) *Service {
	return &Service{repo: repo, customers: customers, audit: audit, now: time.Now}
}

// Record files a direct payment and issues a receipt. The payment is a
// standalone record; order balances are untouched.
func (s *Service) Record(ctx context.Context, req RecordPaymentRequest) (*CustomerPayment, error) {
	auth := shared.AuthFromContext(ctx)
	if !auth.Can(shared.PermPaymentRecord) {
		return nil, shared.ErrForbidden
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", shared.ErrInvalidAmount)
	}
	if s.customers != nil {
		if err := s.customers.Exists(ctx, req.CustomerID); err != nil {
			return nil, fmt.Errorf("verify customer: %w", err)
		}
	}

	receivedAt := s.now()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}
	transactionID := NewTransactionID()
	if req.TransactionID != nil && *req.TransactionID != "" {
		transactionID = *req.TransactionID
	}
	payment := &CustomerPayment{
		ReceiptNumber: NewReceiptNumber(receivedAt),
		TransactionID: transactionID,
		CustomerID:    req.CustomerID,
		Amount:        req.Amount,
		PaymentType:   req.PaymentType,
		Method:        req.Method,
		Reference:     req.Reference,
		Notes:         req.Notes,
		ReceivedBy:    auth.UserID,
		ReceivedAt:    receivedAt,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  auth.UserID,
			Action:   "payment.direct_recorded",
			Entity:   "customer_payment",
			EntityID: strconv.FormatInt(payment.ID, 10),
			Meta:     map[string]any{"amount": payment.Amount.String(), "receipt": payment.ReceiptNumber},
		})
	}
	return payment, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*CustomerPayment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListPaymentsRequest) ([]CustomerPayment, int, error) {
	return s.repo.List(ctx, req)
}

// Statement returns the consolidated money view for one customer.
func (s *Service) Statement(ctx context.Context, customerID int64) (*Statement, error) {
	if s.customers != nil {
		if err := s.customers.Exists(ctx, customerID); err != nil {
			return nil, fmt.Errorf("verify customer: %w", err)
		}
	}
	return s.repo.Statement(ctx, customerID)
}
