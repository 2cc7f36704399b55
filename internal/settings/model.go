package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppSettings supplies the engine defaults. The pricing and lifecycle code
// never hard-codes these values.
type AppSettings struct {
	ID                            int64           `json:"id"`
	BusinessName                  string          `json:"business_name"`
	BusinessAddress               string          `json:"business_address"`
	BusinessPhone                 string          `json:"business_phone"`
	GSTIN                         string          `json:"gstin"`
	DefaultGSTPercent             decimal.Decimal `json:"default_gst_percent"`
	DefaultGlobalDiscountPercent  decimal.Decimal `json:"default_global_discount_percent"`
	DefaultInstallationHandling   decimal.Decimal `json:"default_installation_handling"`
	QuotationValidityDays         int             `json:"quotation_validity_days"`
	InvoicePaymentTermsDays       int             `json:"invoice_payment_terms_days"`
	UpdatedAt                     time.Time       `json:"updated_at"`
}

// UpdateSettingsRequest carries editable fields.
type UpdateSettingsRequest struct {
	BusinessName                 *string          `json:"business_name,omitempty" validate:"omitempty,max=200"`
	BusinessAddress              *string          `json:"business_address,omitempty"`
	BusinessPhone                *string          `json:"business_phone,omitempty" validate:"omitempty,max=50"`
	GSTIN                        *string          `json:"gstin,omitempty" validate:"omitempty,max=20"`
	DefaultGSTPercent            *decimal.Decimal `json:"default_gst_percent,omitempty"`
	DefaultGlobalDiscountPercent *decimal.Decimal `json:"default_global_discount_percent,omitempty"`
	DefaultInstallationHandling  *decimal.Decimal `json:"default_installation_handling,omitempty"`
	QuotationValidityDays        *int             `json:"quotation_validity_days,omitempty" validate:"omitempty,gte=0,lte=365"`
	InvoicePaymentTermsDays      *int             `json:"invoice_payment_terms_days,omitempty" validate:"omitempty,gte=0,lte=365"`
}
