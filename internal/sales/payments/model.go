package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType classifies which stage of the engagement a payment belongs to.
type PaymentType string

const (
	PaymentTypeTokenAdvance       PaymentType = "TOKEN_ADVANCE"
	PaymentTypeStartingProduction PaymentType = "STARTING_PRODUCTION"
	PaymentTypeFinalPayment       PaymentType = "FINAL_PAYMENT"
	PaymentTypeOther              PaymentType = "OTHER"
)

// CustomerPayment is a direct payment from a customer, recorded outside any
// sales order. It never changes an order's balance.
type CustomerPayment struct {
	ID            int64           `json:"id" db:"id"`
	ReceiptNumber string          `json:"receipt_number" db:"receipt_number"`
	TransactionID string          `json:"transaction_id" db:"transaction_id"`
	CustomerID    int64           `json:"customer_id" db:"customer_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentType   PaymentType     `json:"payment_type" db:"payment_type"`
	Method        string          `json:"method" db:"method"`
	Reference     *string         `json:"reference,omitempty" db:"reference"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`
	ReceivedBy    int64           `json:"received_by" db:"received_by"`
	ReceivedAt    time.Time       `json:"received_at" db:"received_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// StatementLine is one order row on a customer statement.
type StatementLine struct {
	OrderID       int64           `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	PaymentStatus string          `json:"payment_status"`
}

// Statement is the consolidated money view for one customer.
type Statement struct {
	CustomerID          int64             `json:"customer_id"`
	Orders              []StatementLine   `json:"orders"`
	DirectPayments      []CustomerPayment `json:"direct_payments"`
	TotalOrderValue     decimal.Decimal   `json:"total_order_value"`
	TotalOrderPaid      decimal.Decimal   `json:"total_order_paid"`
	TotalOrderDue       decimal.Decimal   `json:"total_order_due"`
	TotalDirectPayments decimal.Decimal   `json:"total_direct_payments"`
}
