package invoices

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "PENDING"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusOverdue       InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"
)

// Invoice snapshots the quotation's pricing at issue time. The figures are
// always recomputed from the quotation when the invoice is created, never
// copied from an earlier document.
type Invoice struct {
	ID            int64         `json:"id" db:"id"`
	InvoiceNumber string        `json:"invoice_number" db:"invoice_number"`
	QuotationID   int64         `json:"quotation_id" db:"quotation_id"`
	SalesOrderID  *int64        `json:"sales_order_id,omitempty" db:"sales_order_id"`
	CustomerID    int64         `json:"customer_id" db:"customer_id"`
	Status        InvoiceStatus `json:"status" db:"status"`

	Subtotal                  decimal.Decimal `json:"subtotal" db:"subtotal"`
	DiscountAmount            decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TotalInstallation         decimal.Decimal `json:"total_installation" db:"total_installation"`
	TaxableAmount             decimal.Decimal `json:"taxable_amount" db:"taxable_amount"`
	GSTAmount                 decimal.Decimal `json:"gst_amount" db:"gst_amount"`
	CGSTAmount                decimal.Decimal `json:"cgst_amount" db:"cgst_amount"`
	SGSTAmount                decimal.Decimal `json:"sgst_amount" db:"sgst_amount"`
	GrandTotal                decimal.Decimal `json:"grand_total" db:"grand_total"`
	GrandTotalWithoutDiscount decimal.Decimal `json:"grand_total_without_discount" db:"grand_total_without_discount"`

	IssuedAt  time.Time  `json:"issued_at" db:"issued_at"`
	DueDate   *time.Time `json:"due_date,omitempty" db:"due_date"`
	Notes     *string    `json:"notes,omitempty" db:"notes"`
	CreatedBy int64      `json:"created_by" db:"created_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// payable reports whether payment-derived statuses may overwrite the
// current one. Cancelled invoices stay cancelled.
func (i *Invoice) payable() bool {
	return i.Status != InvoiceStatusCancelled
}
