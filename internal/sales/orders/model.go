package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "PENDING"
	OrderStatusConfirmed         OrderStatus = "CONFIRMED"
	OrderStatusInProduction      OrderStatus = "IN_PRODUCTION"
	OrderStatusReadyForDelivery  OrderStatus = "READY_FOR_DELIVERY"
	OrderStatusDelivered         OrderStatus = "DELIVERED"
	OrderStatusCompleted         OrderStatus = "COMPLETED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "UNPAID"
	PaymentStatusPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentStatusPaid          PaymentStatus = "PAID"
)

type PaymentType string

const (
	PaymentTypeTokenAdvance       PaymentType = "TOKEN_ADVANCE"
	PaymentTypeStartingProduction PaymentType = "STARTING_PRODUCTION"
	PaymentTypeFinalPayment       PaymentType = "FINAL_PAYMENT"
	PaymentTypeOther              PaymentType = "OTHER"
)

// orderTransitions is the single source of truth for the fulfilment state
// machine. Cancellation is reachable from every non-terminal status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:          {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:        {OrderStatusInProduction, OrderStatusCancelled},
	OrderStatusInProduction:     {OrderStatusReadyForDelivery, OrderStatusCancelled},
	OrderStatusReadyForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:        {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted:        nil,
	OrderStatusCancelled:        nil,
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func IsTerminal(status OrderStatus) bool {
	return len(orderTransitions[status]) == 0
}

// DerivePaymentStatus maps the paid amount against the order total. It is
// never stored independently of the figures it derives from.
func DerivePaymentStatus(amountPaid, totalAmount decimal.Decimal) PaymentStatus {
	switch {
	case amountPaid.LessThanOrEqual(decimal.Zero):
		return PaymentStatusUnpaid
	case amountPaid.LessThan(totalAmount):
		return PaymentStatusPartiallyPaid
	default:
		return PaymentStatusPaid
	}
}

// SalesOrder is created exclusively by converting an approved quotation.
// TotalAmount is frozen at conversion time; later quotation edits (there
// are none, conversion locks the quotation) never reprice the order.
type SalesOrder struct {
	ID                   int64           `json:"id" db:"id"`
	OrderNumber          string          `json:"order_number" db:"order_number"`
	QuotationID          int64           `json:"quotation_id" db:"quotation_id"`
	CustomerID           int64           `json:"customer_id" db:"customer_id"`
	Status               OrderStatus     `json:"status" db:"status"`
	PaymentStatus        PaymentStatus   `json:"payment_status" db:"payment_status"`
	TotalAmount          decimal.Decimal `json:"total_amount" db:"total_amount"`
	AmountPaid           decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	AmountDue            decimal.Decimal `json:"amount_due" db:"amount_due"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty" db:"expected_delivery_date"`
	Notes                *string         `json:"notes,omitempty" db:"notes"`
	CreatedBy            int64           `json:"created_by" db:"created_by"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
	Payments             []OrderPayment  `json:"payments,omitempty" db:"-"`
}

// OrderPayment is one instalment against a sales order. Every instalment
// gets its own receipt, same numbering as direct customer payments.
type OrderPayment struct {
	ID            int64           `json:"id" db:"id"`
	SalesOrderID  int64           `json:"sales_order_id" db:"sales_order_id"`
	ReceiptNumber string          `json:"receipt_number" db:"receipt_number"`
	TransactionID string          `json:"transaction_id" db:"transaction_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentType   PaymentType     `json:"payment_type" db:"payment_type"`
	Method        string          `json:"method" db:"method"`
	Reference     *string         `json:"reference,omitempty" db:"reference"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`
	ReceivedBy    int64           `json:"received_by" db:"received_by"`
	ReceivedAt    time.Time       `json:"received_at" db:"received_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
