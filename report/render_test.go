package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/pricing"
	"github.com/meridian-erp/meridian-erp/internal/sales/customers"
	"github.com/meridian-erp/meridian-erp/internal/sales/invoices"
	"github.com/meridian-erp/meridian-erp/internal/sales/quotations"
)

func TestFormatAmount_IndianGrouping(t *testing.T) {
	assert.Equal(t, "₹ 2,608", FormatAmount(decimal.NewFromInt(2608)))
	assert.Equal(t, "₹ 12,34,567", FormatAmount(decimal.NewFromInt(1234567)))
	assert.Equal(t, "₹ 500", FormatAmount(decimal.NewFromInt(500)))
	assert.Equal(t, "₹ 0", FormatAmount(decimal.Zero))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "18%", FormatPercent(decimal.NewFromInt(18)))
	assert.Equal(t, "2.5%", FormatPercent(decimal.RequireFromString("2.5")))
}

func renderFixture(t *testing.T) (*quotations.QuotationPricing, *customers.Customer) {
	t.Helper()

	q := &quotations.Quotation{
		ID:                    11,
		QuotationNumber:       "QT-202608-0001",
		CustomerID:            3,
		Status:                quotations.QuotationStatusApproved,
		GlobalDiscountPercent: decimal.NewFromInt(5),
		GSTPercent:            decimal.NewFromInt(18),
		InstallationHandling:  decimal.Zero,
		CreatedAt:             time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC),
		Rooms: []quotations.Room{
			{
				Name: "Master Bedroom",
				Products: []quotations.LineItem{
					{
						Name:            "Sliding Wardrobe",
						Kind:            quotations.LineItemKindProduct,
						Quantity:        1,
						SellingPrice:    decimal.NewFromInt(2000),
						DiscountPercent: decimal.NewFromInt(10),
					},
				},
				InstallationCharges: []quotations.InstallationCharge{
					{Name: "Wardrobe fitting", Amount: decimal.NewFromInt(500)},
				},
			},
		},
	}
	breakdown, final, err := pricing.Quote(q.PricingRooms(), q.PricingTerms())
	require.NoError(t, err)

	email := "priya@example.com"
	city := "Pune"
	cust := &customers.Customer{
		ID:    3,
		Name:  "Priya Deshmukh",
		Phone: "+91 98200 00000",
		Email: &email,
		City:  &city,
	}
	return &quotations.QuotationPricing{Quotation: q, Breakdown: breakdown, Final: final}, cust
}

func TestBuildQuotationDocument(t *testing.T) {
	priced, cust := renderFixture(t)

	doc, err := BuildQuotationDocument(priced, cust)
	require.NoError(t, err)

	assert.Equal(t, "QT-202608-0001", doc.Number)
	assert.Equal(t, "Priya Deshmukh", doc.Customer.Name)

	require.Len(t, doc.Rooms, 1)
	room := doc.Rooms[0]
	assert.Equal(t, "Master Bedroom", room.Name)
	require.Len(t, room.Lines, 2)
	assert.Equal(t, "₹ 1,800", room.Lines[0].Amount)
	assert.Equal(t, "10%", room.Lines[0].Discount)
	assert.Equal(t, "Installation", room.Lines[1].Kind)
	assert.Equal(t, "₹ 1,800", room.ItemsTotal)
	assert.Equal(t, "₹ 500", room.InstallationTotal)

	assert.Equal(t, "₹ 1,800", doc.Summary.Subtotal)
	assert.Equal(t, "₹ 90", doc.Summary.DiscountAmount)
	assert.Equal(t, "₹ 2,210", doc.Summary.TaxableAmount)
	assert.Equal(t, "₹ 199", doc.Summary.CGSTAmount)
	assert.Equal(t, "₹ 199", doc.Summary.SGSTAmount)
	assert.Equal(t, "₹ 2,608", doc.Summary.GrandTotal)
	assert.Equal(t, "₹ 2,714", doc.Summary.WithoutDiscountTotal)
	assert.True(t, doc.Summary.HasDiscount)
}

func TestRenderQuotationHTML(t *testing.T) {
	priced, cust := renderFixture(t)

	html, err := RenderQuotationHTML(priced, cust)
	require.NoError(t, err)

	assert.Contains(t, html, "Quotation QT-202608-0001")
	assert.Contains(t, html, "Master Bedroom")
	assert.Contains(t, html, "Priya Deshmukh")
	assert.Contains(t, html, "₹ 2,608")
	assert.Contains(t, html, "₹ 2,714")
}

func TestRenderQuotationHTML_EscapesUserContent(t *testing.T) {
	priced, cust := renderFixture(t)
	priced.Quotation.Rooms[0].Products[0].Name = `<script>alert("x")</script>`

	html, err := RenderQuotationHTML(priced, cust)
	require.NoError(t, err)

	assert.NotContains(t, html, `<script>alert`)
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderInvoiceHTML(t *testing.T) {
	due := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	inv := &invoices.Invoice{
		InvoiceNumber:             "INV-202608-0004",
		QuotationID:               11,
		CustomerID:                3,
		Status:                    invoices.InvoiceStatusPending,
		Subtotal:                  decimal.NewFromInt(1800),
		DiscountAmount:            decimal.NewFromInt(90),
		TotalInstallation:         decimal.NewFromInt(500),
		TaxableAmount:             decimal.NewFromInt(2210),
		GSTAmount:                 decimal.NewFromInt(398),
		CGSTAmount:                decimal.NewFromInt(199),
		SGSTAmount:                decimal.NewFromInt(199),
		GrandTotal:                decimal.NewFromInt(2608),
		GrandTotalWithoutDiscount: decimal.NewFromInt(2714),
		IssuedAt:                  time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC),
		DueDate:                   &due,
	}
	_, cust := renderFixture(t)

	html, err := RenderInvoiceHTML(inv, cust, InvoiceRefs{QuotationNumber: "QT-202608-0001", OrderNumber: "SO-202608-0002"})
	require.NoError(t, err)

	assert.Contains(t, html, "Tax Invoice INV-202608-0004")
	assert.Contains(t, html, "QT-202608-0001")
	assert.Contains(t, html, "SO-202608-0002")
	assert.Contains(t, html, "Due: 25 Aug 2026")
	assert.Contains(t, html, "₹ 2,608")
	// 2714 - 2608
	assert.Contains(t, html, "₹ 106")
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "quotation-QT-202608-0001.pdf", quotationFilename("QT-202608-0001"))
	assert.Equal(t, "invoice-INV-202608-0004.pdf", invoiceFilename("INV-202608-0004"))
}
