package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/money"
	"github.com/meridian-erp/meridian-erp/internal/sales/customers"
	"github.com/meridian-erp/meridian-erp/internal/sales/quotations"
)

// QuotationDocument is the flattened view rendered into the quotation PDF.
type QuotationDocument struct {
	Number     string
	Status     string
	Date       string
	ValidUntil string
	Customer   CustomerBlock
	Rooms      []RoomBlock
	Summary    SummaryBlock
	Notes      string
}

// CustomerBlock carries the customer header fields.
type CustomerBlock struct {
	Name    string
	Phone   string
	Email   string
	Address string
	City    string
}

// RoomBlock is one room section with its priced lines.
type RoomBlock struct {
	Name              string
	Lines             []LineBlock
	ItemsTotal        string
	InstallationTotal string
}

// LineBlock is a single printed row: a product, accessory or charge.
type LineBlock struct {
	Name     string
	Kind     string
	Quantity int
	Price    string
	Discount string
	Amount   string
}

// SummaryBlock carries the document totals.
type SummaryBlock struct {
	Subtotal             string
	DiscountPercent      string
	DiscountAmount       string
	TotalInstallation    string
	TaxableAmount        string
	GSTPercent           string
	CGSTAmount           string
	SGSTAmount           string
	GrandTotal           string
	WithoutDiscountTotal string
	Savings              string
	HasDiscount          bool
}

// BuildQuotationDocument flattens a priced quotation into the render view.
func BuildQuotationDocument(p *quotations.QuotationPricing, cust *customers.Customer) (QuotationDocument, error) {
	q := p.Quotation
	doc := QuotationDocument{
		Number:   q.QuotationNumber,
		Status:   string(q.Status),
		Date:     q.CreatedAt.Format("02 Jan 2006"),
		Customer: customerBlock(cust),
		Summary:  summaryBlock(p),
	}
	if q.ValidUntil != nil {
		doc.ValidUntil = q.ValidUntil.Format("02 Jan 2006")
	}
	if q.Notes != nil {
		doc.Notes = *q.Notes
	}

	for i, room := range q.Rooms {
		block := RoomBlock{Name: room.Name}
		for _, item := range room.Products {
			line, err := itemLine(item, "Product")
			if err != nil {
				return QuotationDocument{}, err
			}
			block.Lines = append(block.Lines, line)
		}
		for _, item := range room.Accessories {
			line, err := itemLine(item, "Accessory")
			if err != nil {
				return QuotationDocument{}, err
			}
			block.Lines = append(block.Lines, line)
		}
		for _, charge := range room.InstallationCharges {
			block.Lines = append(block.Lines, LineBlock{
				Name:   charge.Name,
				Kind:   "Installation",
				Amount: FormatAmount(money.Round(charge.Amount)),
			})
		}
		if i < len(p.Breakdown.Rooms) {
			block.ItemsTotal = FormatAmount(p.Breakdown.Rooms[i].ItemsTotal)
			block.InstallationTotal = FormatAmount(p.Breakdown.Rooms[i].InstallationTotal)
		}
		doc.Rooms = append(doc.Rooms, block)
	}
	return doc, nil
}

func itemLine(item quotations.LineItem, kind string) (LineBlock, error) {
	amount, err := money.LineTotal(item.Quantity, item.SellingPrice, item.DiscountPercent)
	if err != nil {
		return LineBlock{}, fmt.Errorf("line %q: %w", item.Name, err)
	}
	line := LineBlock{
		Name:     item.Name,
		Kind:     kind,
		Quantity: item.Quantity,
		Price:    FormatAmount(item.SellingPrice),
		Amount:   FormatAmount(amount),
	}
	if item.DiscountPercent.IsPositive() {
		line.Discount = FormatPercent(item.DiscountPercent)
	}
	return line, nil
}

func customerBlock(cust *customers.Customer) CustomerBlock {
	if cust == nil {
		return CustomerBlock{}
	}
	block := CustomerBlock{Name: cust.Name, Phone: cust.Phone}
	if cust.Email != nil {
		block.Email = *cust.Email
	}
	if cust.Address != nil {
		block.Address = *cust.Address
	}
	if cust.City != nil {
		block.City = *cust.City
	}
	return block
}

func summaryBlock(p *quotations.QuotationPricing) SummaryBlock {
	q := p.Quotation
	final := p.Final
	return SummaryBlock{
		Subtotal:             FormatAmount(final.ProductAccessorySubtotal),
		DiscountPercent:      FormatPercent(q.GlobalDiscountPercent),
		DiscountAmount:       FormatAmount(final.DiscountAmount),
		TotalInstallation:    FormatAmount(final.TotalInstallation),
		TaxableAmount:        FormatAmount(final.TaxableAmount),
		GSTPercent:           FormatPercent(q.GSTPercent),
		CGSTAmount:           FormatAmount(final.CGSTAmount),
		SGSTAmount:           FormatAmount(final.SGSTAmount),
		GrandTotal:           FormatAmount(final.GrandTotal),
		WithoutDiscountTotal: FormatAmount(final.GrandTotalWithoutDiscount),
		Savings:              FormatAmount(final.GrandTotalWithoutDiscount.Sub(final.GrandTotal)),
		HasDiscount:          final.DiscountAmount.IsPositive(),
	}
}

var quotationTemplate = template.Must(template.New("quotation").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Quotation {{.Number}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #1a1a1a; margin: 32px; }
h1 { font-size: 20px; margin-bottom: 2px; }
h2 { font-size: 14px; margin: 18px 0 6px; border-bottom: 1px solid #ccc; padding-bottom: 2px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 8px; }
th, td { text-align: left; padding: 4px 6px; border-bottom: 1px solid #eee; }
th { background: #f5f5f5; font-size: 11px; text-transform: uppercase; }
td.num, th.num { text-align: right; }
.meta { color: #555; margin-bottom: 16px; }
.summary td { border: none; padding: 2px 6px; }
.summary tr.grand td { border-top: 2px solid #1a1a1a; font-weight: bold; font-size: 14px; }
.summary tr.compare td { color: #777; font-size: 11px; }
.notes { margin-top: 16px; color: #555; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>Quotation {{.Number}}</h1>
<div class="meta">
Date: {{.Date}}{{if .ValidUntil}} &middot; Valid until: {{.ValidUntil}}{{end}} &middot; Status: {{.Status}}<br>
{{.Customer.Name}}{{if .Customer.Phone}} &middot; {{.Customer.Phone}}{{end}}{{if .Customer.Email}} &middot; {{.Customer.Email}}{{end}}<br>
{{if .Customer.Address}}{{.Customer.Address}}{{if .Customer.City}}, {{.Customer.City}}{{end}}{{end}}
</div>

{{range .Rooms}}
<h2>{{.Name}}</h2>
<table>
<tr><th>Item</th><th>Type</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Disc</th><th class="num">Amount</th></tr>
{{range .Lines}}
<tr><td>{{.Name}}</td><td>{{.Kind}}</td><td class="num">{{if .Quantity}}{{.Quantity}}{{end}}</td><td class="num">{{.Price}}</td><td class="num">{{.Discount}}</td><td class="num">{{.Amount}}</td></tr>
{{end}}
<tr><td colspan="5"><strong>Room total</strong></td><td class="num"><strong>{{.ItemsTotal}}</strong></td></tr>
{{if .InstallationTotal}}<tr><td colspan="5">Room installation</td><td class="num">{{.InstallationTotal}}</td></tr>{{end}}
</table>
{{end}}

<h2>Summary</h2>
<table class="summary">
<tr><td>Subtotal (products &amp; accessories)</td><td class="num">{{.Summary.Subtotal}}</td></tr>
{{if .Summary.HasDiscount}}<tr><td>Discount ({{.Summary.DiscountPercent}})</td><td class="num">&minus; {{.Summary.DiscountAmount}}</td></tr>{{end}}
<tr><td>Installation &amp; handling</td><td class="num">{{.Summary.TotalInstallation}}</td></tr>
<tr><td>Taxable amount</td><td class="num">{{.Summary.TaxableAmount}}</td></tr>
<tr><td>CGST ({{.Summary.GSTPercent}} total GST)</td><td class="num">{{.Summary.CGSTAmount}}</td></tr>
<tr><td>SGST</td><td class="num">{{.Summary.SGSTAmount}}</td></tr>
<tr class="grand"><td>Grand total</td><td class="num">{{.Summary.GrandTotal}}</td></tr>
{{if .Summary.HasDiscount}}<tr class="compare"><td>Total without discount</td><td class="num">{{.Summary.WithoutDiscountTotal}}</td></tr>
<tr class="compare"><td>You save</td><td class="num">{{.Summary.Savings}}</td></tr>{{end}}
</table>

{{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
</body>
</html>`))

// RenderQuotationHTML produces the printable HTML for a priced quotation.
func RenderQuotationHTML(p *quotations.QuotationPricing, cust *customers.Customer) (string, error) {
	doc, err := BuildQuotationDocument(p, cust)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := quotationTemplate.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// quotationFilename names the downloaded PDF after the document number.
func quotationFilename(number string) string {
	if number == "" {
		number = time.Now().Format("20060102")
	}
	return fmt.Sprintf("quotation-%s.pdf", number)
}
