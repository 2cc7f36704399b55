// Package pricing is the single source of document totals. Quotation views,
// PDF rendering and invoice generation all consume its output; none of them
// recompute amounts on their own.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridian-erp/meridian-erp/internal/money"
)

// LineItem is a priced product or accessory within a room.
type LineItem struct {
	Name            string
	Quantity        int
	SellingPrice    decimal.Decimal
	DiscountPercent decimal.Decimal
}

// InstallationCharge is a flat per-room charge, never discounted.
type InstallationCharge struct {
	Name   string
	Amount decimal.Decimal
}

// Room groups the line items and installation charges priced together.
type Room struct {
	Name                string
	Products            []LineItem
	Accessories         []LineItem
	InstallationCharges []InstallationCharge
}

// RoomTotal is the per-room slice of a breakdown, used for room-level display.
type RoomTotal struct {
	Name              string
	ItemsTotal        decimal.Decimal
	InstallationTotal decimal.Decimal
}

// Breakdown aggregates line totals before discount and tax.
type Breakdown struct {
	ProductAccessorySubtotal decimal.Decimal
	RoomInstallationTotal    decimal.Decimal
	Rooms                    []RoomTotal
}

// Terms carries the quotation-level pricing parameters.
type Terms struct {
	GlobalDiscountPercent decimal.Decimal
	GSTPercent            decimal.Decimal
	InstallationHandling  decimal.Decimal
}

// FinalPricing is the complete set of monetary totals for a document.
type FinalPricing struct {
	ProductAccessorySubtotal decimal.Decimal
	DiscountAmount           decimal.Decimal
	DiscountedSubtotal       decimal.Decimal
	TotalInstallation        decimal.Decimal
	TaxableAmount            decimal.Decimal
	GSTAmount                decimal.Decimal
	CGSTAmount               decimal.Decimal
	SGSTAmount               decimal.Decimal
	GrandTotal               decimal.Decimal
	// GrandTotalWithoutDiscount is the comparison figure shown on invoices:
	// the same formula with the discount zeroed.
	GrandTotalWithoutDiscount decimal.Decimal
}

// ComputeRoomTotal prices a single room. Room-level figures and the document
// grand sum must agree to the unit, so both paths use the same line rounding.
func ComputeRoomTotal(room Room) (RoomTotal, error) {
	total := RoomTotal{Name: room.Name}

	for _, item := range append(append([]LineItem{}, room.Products...), room.Accessories...) {
		lineTotal, err := money.LineTotal(item.Quantity, item.SellingPrice, item.DiscountPercent)
		if err != nil {
			return RoomTotal{}, fmt.Errorf("room %q item %q: %w", room.Name, item.Name, err)
		}
		total.ItemsTotal = total.ItemsTotal.Add(lineTotal)
	}

	for _, charge := range room.InstallationCharges {
		if err := money.CheckNonNegative("installation charge", charge.Amount); err != nil {
			return RoomTotal{}, fmt.Errorf("room %q charge %q: %w", room.Name, charge.Name, err)
		}
		total.InstallationTotal = total.InstallationTotal.Add(money.Round(charge.Amount))
	}

	return total, nil
}

// ComputeBreakdown sums all rooms of a quotation. No discount or tax is
// applied at this stage.
func ComputeBreakdown(rooms []Room) (Breakdown, error) {
	var b Breakdown
	for _, room := range rooms {
		rt, err := ComputeRoomTotal(room)
		if err != nil {
			return Breakdown{}, err
		}
		b.Rooms = append(b.Rooms, rt)
		b.ProductAccessorySubtotal = b.ProductAccessorySubtotal.Add(rt.ItemsTotal)
		b.RoomInstallationTotal = b.RoomInstallationTotal.Add(rt.InstallationTotal)
	}
	return b, nil
}

// Finalize applies global discount, installation charges and GST to a
// breakdown.
//
// Two rules are load-bearing and must not change:
//   - the global discount applies only to the product/accessory subtotal;
//     installation (room-level and handling) is always charged at 100%.
//   - GST is computed on discountedSubtotal + totalInstallation, after the
//     discount and inclusive of installation.
func Finalize(b Breakdown, t Terms) (FinalPricing, error) {
	if err := money.CheckDiscountPercent(t.GlobalDiscountPercent); err != nil {
		return FinalPricing{}, fmt.Errorf("global discount: %w", err)
	}
	if t.GSTPercent.IsNegative() {
		return FinalPricing{}, fmt.Errorf("gst percent: %w", money.ErrInvalidAmount)
	}
	if err := money.CheckNonNegative("installation handling", t.InstallationHandling); err != nil {
		return FinalPricing{}, err
	}

	discountAmount, err := money.ApplyPercent(b.ProductAccessorySubtotal, t.GlobalDiscountPercent)
	if err != nil {
		return FinalPricing{}, err
	}

	fp := FinalPricing{
		ProductAccessorySubtotal: b.ProductAccessorySubtotal,
		DiscountAmount:           discountAmount,
		DiscountedSubtotal:       b.ProductAccessorySubtotal.Sub(discountAmount),
		TotalInstallation:        b.RoomInstallationTotal.Add(money.Round(t.InstallationHandling)),
	}

	fp.TaxableAmount = fp.DiscountedSubtotal.Add(fp.TotalInstallation)
	fp.GSTAmount, err = money.ApplyPercent(fp.TaxableAmount, t.GSTPercent)
	if err != nil {
		return FinalPricing{}, err
	}
	fp.CGSTAmount, fp.SGSTAmount = money.SplitHalf(fp.GSTAmount)
	fp.GrandTotal = fp.TaxableAmount.Add(fp.GSTAmount)

	// Comparison figure: identical formula with the discount zeroed.
	taxableWithout := b.ProductAccessorySubtotal.Add(fp.TotalInstallation)
	gstWithout, err := money.ApplyPercent(taxableWithout, t.GSTPercent)
	if err != nil {
		return FinalPricing{}, err
	}
	fp.GrandTotalWithoutDiscount = taxableWithout.Add(gstWithout)

	return fp, nil
}

// Quote computes the final pricing for a set of rooms in one call.
func Quote(rooms []Room, t Terms) (Breakdown, FinalPricing, error) {
	b, err := ComputeBreakdown(rooms)
	if err != nil {
		return Breakdown{}, FinalPricing{}, err
	}
	fp, err := Finalize(b, t)
	if err != nil {
		return Breakdown{}, FinalPricing{}, err
	}
	return b, fp, nil
}
