package quotations

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-erp/meridian-erp/internal/pricing"
)

type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "DRAFT"
	QuotationStatusSaved     QuotationStatus = "SAVED"
	QuotationStatusApproved  QuotationStatus = "APPROVED"
	QuotationStatusConverted QuotationStatus = "CONVERTED"
)

// LineItemKind distinguishes products from accessories. Both price
// identically; the split only matters for display.
type LineItemKind string

const (
	LineItemKindProduct   LineItemKind = "PRODUCT"
	LineItemKindAccessory LineItemKind = "ACCESSORY"
)

// Quotation is a multi-room priced proposal. It exclusively owns its rooms:
// deleting the quotation cascades through rooms, items and charges.
type Quotation struct {
	ID                    int64           `json:"id" db:"id"`
	QuotationNumber       string          `json:"quotation_number" db:"quotation_number"`
	CustomerID            int64           `json:"customer_id" db:"customer_id"`
	Status                QuotationStatus `json:"status" db:"status"`
	GlobalDiscountPercent decimal.Decimal `json:"global_discount_percent" db:"global_discount_percent"`
	GSTPercent            decimal.Decimal `json:"gst_percent" db:"gst_percent"`
	InstallationHandling  decimal.Decimal `json:"installation_handling" db:"installation_handling"`
	ValidUntil            *time.Time      `json:"valid_until,omitempty" db:"valid_until"`
	Notes                 *string         `json:"notes,omitempty" db:"notes"`
	CreatedBy             int64           `json:"created_by" db:"created_by"`
	ApprovedBy            *int64          `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt            *time.Time      `json:"approved_at,omitempty" db:"approved_at"`
	ConvertedAt           *time.Time      `json:"converted_at,omitempty" db:"converted_at"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at" db:"updated_at"`
	Rooms                 []Room          `json:"rooms,omitempty" db:"-"`
}

// Room groups line items and installation charges. Room order is
// display-relevant only; it never affects totals.
type Room struct {
	ID                  int64                `json:"id" db:"id"`
	QuotationID         int64                `json:"quotation_id" db:"quotation_id"`
	Name                string               `json:"name" db:"name"`
	Position            int                  `json:"position" db:"position"`
	Products            []LineItem           `json:"products,omitempty" db:"-"`
	Accessories         []LineItem           `json:"accessories,omitempty" db:"-"`
	InstallationCharges []InstallationCharge `json:"installation_charges,omitempty" db:"-"`
}

// LineItem is a product or accessory line within a room.
type LineItem struct {
	ID              int64           `json:"id" db:"id"`
	RoomID          int64           `json:"room_id" db:"room_id"`
	Kind            LineItemKind    `json:"kind" db:"kind"`
	Name            string          `json:"name" db:"name"`
	Quantity        int             `json:"quantity" db:"quantity"`
	SellingPrice    decimal.Decimal `json:"selling_price" db:"selling_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent" db:"discount_percent"`
	Position        int             `json:"position" db:"position"`
}

// InstallationCharge is a flat room-level charge, exempt from every discount.
type InstallationCharge struct {
	ID     int64           `json:"id" db:"id"`
	RoomID int64           `json:"room_id" db:"room_id"`
	Name   string          `json:"name" db:"name"`
	Amount decimal.Decimal `json:"amount" db:"amount"`
}

// PricingRooms converts the document tree into the pricing engine's input.
func (q *Quotation) PricingRooms() []pricing.Room {
	rooms := make([]pricing.Room, 0, len(q.Rooms))
	for _, room := range q.Rooms {
		rooms = append(rooms, pricing.Room{
			Name:                room.Name,
			Products:            pricingItems(room.Products),
			Accessories:         pricingItems(room.Accessories),
			InstallationCharges: pricingCharges(room.InstallationCharges),
		})
	}
	return rooms
}

// PricingTerms extracts the quotation-level pricing parameters.
func (q *Quotation) PricingTerms() pricing.Terms {
	return pricing.Terms{
		GlobalDiscountPercent: q.GlobalDiscountPercent,
		GSTPercent:            q.GSTPercent,
		InstallationHandling:  q.InstallationHandling,
	}
}

func pricingItems(items []LineItem) []pricing.LineItem {
	out := make([]pricing.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, pricing.LineItem{
			Name:            item.Name,
			Quantity:        item.Quantity,
			SellingPrice:    item.SellingPrice,
			DiscountPercent: item.DiscountPercent,
		})
	}
	return out
}

func pricingCharges(charges []InstallationCharge) []pricing.InstallationCharge {
	out := make([]pricing.InstallationCharge, 0, len(charges))
	for _, charge := range charges {
		out = append(out, pricing.InstallationCharge{Name: charge.Name, Amount: charge.Amount})
	}
	return out
}
