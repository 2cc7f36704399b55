package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordPaymentRequest files a direct payment. TransactionID is optional;
// one is generated when the gateway did not supply it.
type RecordPaymentRequest struct {
	CustomerID    int64           `json:"customer_id" validate:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentType   PaymentType     `json:"payment_type" validate:"required,oneof=TOKEN_ADVANCE STARTING_PRODUCTION FINAL_PAYMENT OTHER"`
	Method        string          `json:"method" validate:"required,max=50"`
	TransactionID *string         `json:"transaction_id,omitempty" validate:"omitempty,max=100"`
	Reference     *string         `json:"reference,omitempty" validate:"omitempty,max=100"`
	Notes         *string         `json:"notes,omitempty"`
	ReceivedAt    *time.Time      `json:"received_at,omitempty"`
}

type ListPaymentsRequest struct {
	CustomerID *int64     `json:"customer_id,omitempty"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
	Limit      int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int        `json:"offset" validate:"gte=0"`
}
