package quotations

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-erp/meridian-erp/internal/pricing"
)

type CreateQuotationRequest struct {
	CustomerID            int64            `json:"customer_id" validate:"required,gt=0"`
	GlobalDiscountPercent *decimal.Decimal `json:"global_discount_percent,omitempty"`
	GSTPercent            *decimal.Decimal `json:"gst_percent,omitempty"`
	InstallationHandling  *decimal.Decimal `json:"installation_handling,omitempty"`
	ValidUntil            *time.Time       `json:"valid_until,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
	Rooms                 []CreateRoomReq  `json:"rooms" validate:"dive"`
}

type CreateRoomReq struct {
	Name                string                 `json:"name" validate:"required,max=100"`
	Position            int                    `json:"position" validate:"gte=0"`
	Products            []CreateLineItemReq    `json:"products" validate:"dive"`
	Accessories         []CreateLineItemReq    `json:"accessories" validate:"dive"`
	InstallationCharges []CreateInstallChgReq  `json:"installation_charges" validate:"dive"`
}

type CreateLineItemReq struct {
	Name            string          `json:"name" validate:"required,max=200"`
	Quantity        int             `json:"quantity" validate:"gte=0"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Position        int             `json:"position" validate:"gte=0"`
}

type CreateInstallChgReq struct {
	Name   string          `json:"name" validate:"required,max=200"`
	Amount decimal.Decimal `json:"amount"`
}

// UpdateQuotationRequest replaces the room tree when Rooms is present;
// header-only updates leave the tree untouched.
type UpdateQuotationRequest struct {
	GlobalDiscountPercent *decimal.Decimal `json:"global_discount_percent,omitempty"`
	GSTPercent            *decimal.Decimal `json:"gst_percent,omitempty"`
	InstallationHandling  *decimal.Decimal `json:"installation_handling,omitempty"`
	ValidUntil            *time.Time       `json:"valid_until,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
	Rooms                 *[]CreateRoomReq `json:"rooms,omitempty" validate:"omitempty,dive"`
}

type DuplicateQuotationRequest struct {
	TargetCustomerID *int64 `json:"target_customer_id,omitempty" validate:"omitempty,gt=0"`
}

type ListQuotationsRequest struct {
	CustomerID *int64           `json:"customer_id,omitempty"`
	Status     *QuotationStatus `json:"status,omitempty"`
	DateFrom   *time.Time       `json:"date_from,omitempty"`
	DateTo     *time.Time       `json:"date_to,omitempty"`
	Limit      int              `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int              `json:"offset" validate:"gte=0"`
}

// QuotationPricing bundles a quotation with its computed totals for views
// and rendering. Consumers format these figures; they never recompute them.
type QuotationPricing struct {
	Quotation *Quotation           `json:"quotation"`
	Breakdown pricing.Breakdown    `json:"breakdown"`
	Final     pricing.FinalPricing `json:"final"`
}

// ValidationResult mirrors the validator contract consumed before approval.
type ValidationResult struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
