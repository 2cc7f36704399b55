package quotations

import (
	"fmt"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Validate applies the approval rule set. Errors block approval; warnings
// are surfaced to the operator but never block.
func Validate(q *Quotation) *shared.ValidationError {
	result := &shared.ValidationError{}

	if len(q.Rooms) == 0 {
		result.Errors = append(result.Errors, "quotation has no rooms")
	}

	pricedLines := 0
	for _, room := range q.Rooms {
		items := len(room.Products) + len(room.Accessories)
		if items == 0 && len(room.InstallationCharges) == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("room %q is empty", room.Name))
		}
		for _, item := range append(append([]LineItem{}, room.Products...), room.Accessories...) {
			if item.Quantity > 0 && item.SellingPrice.IsPositive() {
				pricedLines++
			} else {
				result.Warnings = append(result.Warnings, fmt.Sprintf("room %q item %q has no priced quantity", room.Name, item.Name))
			}
		}
	}
	if pricedLines == 0 {
		result.Errors = append(result.Errors, "quotation has no priced line items")
	}

	if q.GSTPercent.IsZero() {
		result.Warnings = append(result.Warnings, "GST percentage is zero")
	}

	return result
}
