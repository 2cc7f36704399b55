package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type ConvertQuotationRequest struct {
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
}

type UpdateStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentType   PaymentType     `json:"payment_type" validate:"required,oneof=TOKEN_ADVANCE STARTING_PRODUCTION FINAL_PAYMENT OTHER"`
	Method        string          `json:"method" validate:"required,max=50"`
	TransactionID *string         `json:"transaction_id,omitempty" validate:"omitempty,max=100"`
	Reference     *string         `json:"reference,omitempty" validate:"omitempty,max=100"`
	Notes         *string         `json:"notes,omitempty"`
	ReceivedAt    *time.Time      `json:"received_at,omitempty"`
}

type ListOrdersRequest struct {
	CustomerID    *int64         `json:"customer_id,omitempty"`
	Status        *OrderStatus   `json:"status,omitempty"`
	PaymentStatus *PaymentStatus `json:"payment_status,omitempty"`
	Limit         int            `json:"limit" validate:"gte=0,lte=1000"`
	Offset        int            `json:"offset" validate:"gte=0"`
}
