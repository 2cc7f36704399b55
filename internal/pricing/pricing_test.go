package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/money"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func eq(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), "got %s want %s %v", got, want, msgAndArgs)
}

// One room, one product {qty 2, price 1000, discount 10%}, global discount 5%,
// installation handling 500, GST 18%.
func referenceRooms() []Room {
	return []Room{
		{
			Name: "Master Bedroom",
			Products: []LineItem{
				{Name: "Wardrobe", Quantity: 2, SellingPrice: d("1000"), DiscountPercent: d("10")},
			},
		},
	}
}

func referenceTerms() Terms {
	return Terms{
		GlobalDiscountPercent: d("5"),
		GSTPercent:            d("18"),
		InstallationHandling:  d("500"),
	}
}

func TestReferenceScenario(t *testing.T) {
	b, fp, err := Quote(referenceRooms(), referenceTerms())
	require.NoError(t, err)

	eq(t, "1800", b.ProductAccessorySubtotal)
	eq(t, "0", b.RoomInstallationTotal)
	eq(t, "90", fp.DiscountAmount)
	eq(t, "1710", fp.DiscountedSubtotal)
	eq(t, "500", fp.TotalInstallation)
	eq(t, "2210", fp.TaxableAmount)
	eq(t, "398", fp.GSTAmount)
	eq(t, "2608", fp.GrandTotal)
}

func TestDiscountNeverTouchesInstallation(t *testing.T) {
	rooms := []Room{
		{
			Name: "Kitchen",
			Products: []LineItem{
				{Name: "Modular unit", Quantity: 1, SellingPrice: d("50000"), DiscountPercent: d("0")},
			},
			InstallationCharges: []InstallationCharge{
				{Name: "Fitting", Amount: d("4000")},
			},
		},
	}

	base := Terms{GlobalDiscountPercent: d("10"), GSTPercent: d("0"), InstallationHandling: d("1000")}
	_, fp1, err := Quote(rooms, base)
	require.NoError(t, err)

	// Tripling installation handling must not change the discount amount.
	more := base
	more.InstallationHandling = d("3000")
	_, fp2, err := Quote(rooms, more)
	require.NoError(t, err)

	eq(t, "5000", fp1.DiscountAmount)
	assert.True(t, fp1.DiscountAmount.Equal(fp2.DiscountAmount))
	eq(t, "50000", fp1.ProductAccessorySubtotal)
	eq(t, "5000", fp1.TotalInstallation)
	eq(t, "7000", fp2.TotalInstallation)
}

func TestGSTBaseIsDiscountedSubtotalPlusInstallation(t *testing.T) {
	rooms := []Room{
		{
			Name: "Living Room",
			Products: []LineItem{
				{Name: "TV unit", Quantity: 3, SellingPrice: d("7500"), DiscountPercent: d("12")},
			},
			Accessories: []LineItem{
				{Name: "Handles", Quantity: 10, SellingPrice: d("150"), DiscountPercent: d("0")},
			},
			InstallationCharges: []InstallationCharge{
				{Name: "Carpentry", Amount: d("2500")},
			},
		},
	}
	terms := Terms{GlobalDiscountPercent: d("7"), GSTPercent: d("18"), InstallationHandling: d("800")}

	b, fp, err := Quote(rooms, terms)
	require.NoError(t, err)

	wantGST, err := money.ApplyPercent(fp.DiscountedSubtotal.Add(fp.TotalInstallation), terms.GSTPercent)
	require.NoError(t, err)
	assert.True(t, fp.GSTAmount.Equal(wantGST))

	// GST must never be computed on the pre-discount total.
	preDiscountGST, err := money.ApplyPercent(b.ProductAccessorySubtotal.Add(fp.TotalInstallation), terms.GSTPercent)
	require.NoError(t, err)
	assert.False(t, fp.GSTAmount.Equal(preDiscountGST))
}

func TestHalfSplitSumsToGST(t *testing.T) {
	// 2210 * 18% = 398 (odd) forces an uneven split.
	_, fp, err := Quote(referenceRooms(), referenceTerms())
	require.NoError(t, err)

	assert.True(t, fp.CGSTAmount.Add(fp.SGSTAmount).Equal(fp.GSTAmount))
	eq(t, "199", fp.CGSTAmount)
	eq(t, "199", fp.SGSTAmount)
}

func TestWithoutDiscountComparisonTotal(t *testing.T) {
	_, fp, err := Quote(referenceRooms(), referenceTerms())
	require.NoError(t, err)

	// taxable = 1800 + 500 = 2300, gst = 414, total = 2714
	eq(t, "2714", fp.GrandTotalWithoutDiscount)
	assert.True(t, fp.GrandTotalWithoutDiscount.GreaterThanOrEqual(fp.GrandTotal))
}

func TestPerRoomTotalsAgreeWithGrandSum(t *testing.T) {
	rooms := []Room{
		{
			Name: "Bedroom",
			Products: []LineItem{
				{Name: "Bed", Quantity: 1, SellingPrice: d("19999"), DiscountPercent: d("3")},
				{Name: "Side table", Quantity: 2, SellingPrice: d("2450"), DiscountPercent: d("0")},
			},
			InstallationCharges: []InstallationCharge{{Name: "Assembly", Amount: d("750")}},
		},
		{
			Name: "Study",
			Accessories: []LineItem{
				{Name: "Shelf brackets", Quantity: 7, SellingPrice: d("99"), DiscountPercent: d("5")},
			},
			InstallationCharges: []InstallationCharge{{Name: "Drilling", Amount: d("300")}},
		},
	}

	b, err := ComputeBreakdown(rooms)
	require.NoError(t, err)

	var items, installation decimal.Decimal
	for _, room := range rooms {
		rt, err := ComputeRoomTotal(room)
		require.NoError(t, err)
		items = items.Add(rt.ItemsTotal)
		installation = installation.Add(rt.InstallationTotal)
	}

	assert.True(t, b.ProductAccessorySubtotal.Equal(items))
	assert.True(t, b.RoomInstallationTotal.Equal(installation))
	require.Len(t, b.Rooms, 2)
}

func TestFinalizeRejectsMalformedTerms(t *testing.T) {
	b, err := ComputeBreakdown(referenceRooms())
	require.NoError(t, err)

	_, err = Finalize(b, Terms{GlobalDiscountPercent: d("101")})
	require.ErrorIs(t, err, money.ErrInvalidAmount)

	_, err = Finalize(b, Terms{GSTPercent: d("-1")})
	require.ErrorIs(t, err, money.ErrInvalidAmount)

	_, err = Finalize(b, Terms{InstallationHandling: d("-500")})
	require.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestBreakdownRejectsMalformedLines(t *testing.T) {
	_, err := ComputeBreakdown([]Room{{
		Name:     "Bad",
		Products: []LineItem{{Name: "x", Quantity: -1, SellingPrice: d("10")}},
	}})
	require.ErrorIs(t, err, money.ErrInvalidAmount)

	_, err = ComputeBreakdown([]Room{{
		Name:                "Bad",
		InstallationCharges: []InstallationCharge{{Name: "x", Amount: d("-1")}},
	}})
	require.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestZeroQuotation(t *testing.T) {
	b, fp, err := Quote(nil, Terms{})
	require.NoError(t, err)
	assert.True(t, b.ProductAccessorySubtotal.IsZero())
	assert.True(t, fp.GrandTotal.IsZero())
}
