package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/sales/customers"
	"github.com/meridian-erp/meridian-erp/internal/sales/invoices"
)

// InvoiceDocument is the flattened view rendered into the invoice PDF. Unlike
// quotations, invoices print the stored snapshot rather than repricing rooms.
type InvoiceDocument struct {
	Number          string
	Status          string
	IssuedAt        string
	DueDate         string
	QuotationNumber string
	OrderNumber     string
	Customer        CustomerBlock
	Summary         SummaryBlock
	Notes           string
}

// InvoiceRefs carries the document numbers referenced on the invoice header.
type InvoiceRefs struct {
	QuotationNumber string
	OrderNumber     string
}

// BuildInvoiceDocument flattens an invoice snapshot into the render view.
func BuildInvoiceDocument(inv *invoices.Invoice, cust *customers.Customer, refs InvoiceRefs) InvoiceDocument {
	doc := InvoiceDocument{
		Number:          inv.InvoiceNumber,
		Status:          string(inv.Status),
		IssuedAt:        inv.IssuedAt.Format("02 Jan 2006"),
		QuotationNumber: refs.QuotationNumber,
		OrderNumber:     refs.OrderNumber,
		Customer:        customerBlock(cust),
		Summary: SummaryBlock{
			Subtotal:             FormatAmount(inv.Subtotal),
			DiscountAmount:       FormatAmount(inv.DiscountAmount),
			TotalInstallation:    FormatAmount(inv.TotalInstallation),
			TaxableAmount:        FormatAmount(inv.TaxableAmount),
			CGSTAmount:           FormatAmount(inv.CGSTAmount),
			SGSTAmount:           FormatAmount(inv.SGSTAmount),
			GrandTotal:           FormatAmount(inv.GrandTotal),
			WithoutDiscountTotal: FormatAmount(inv.GrandTotalWithoutDiscount),
			Savings:              FormatAmount(inv.GrandTotalWithoutDiscount.Sub(inv.GrandTotal)),
			HasDiscount:          inv.DiscountAmount.IsPositive(),
		},
	}
	if inv.DueDate != nil {
		doc.DueDate = inv.DueDate.Format("02 Jan 2006")
	}
	if inv.Notes != nil {
		doc.Notes = *inv.Notes
	}
	return doc
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Tax Invoice {{.Number}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #1a1a1a; margin: 32px; }
h1 { font-size: 20px; margin-bottom: 2px; }
h2 { font-size: 14px; margin: 18px 0 6px; border-bottom: 1px solid #ccc; padding-bottom: 2px; }
table { width: 100%; border-collapse: collapse; }
td { padding: 2px 6px; }
td.num { text-align: right; }
.meta { color: #555; margin-bottom: 16px; }
tr.grand td { border-top: 2px solid #1a1a1a; font-weight: bold; font-size: 14px; }
tr.compare td { color: #777; font-size: 11px; }
.notes { margin-top: 16px; color: #555; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>Tax Invoice {{.Number}}</h1>
<div class="meta">
Issued: {{.IssuedAt}}{{if .DueDate}} &middot; Due: {{.DueDate}}{{end}} &middot; Status: {{.Status}}<br>
{{if .QuotationNumber}}Quotation: {{.QuotationNumber}}{{end}}{{if .OrderNumber}} &middot; Order: {{.OrderNumber}}{{end}}<br>
{{.Customer.Name}}{{if .Customer.Phone}} &middot; {{.Customer.Phone}}{{end}}{{if .Customer.Email}} &middot; {{.Customer.Email}}{{end}}<br>
{{if .Customer.Address}}{{.Customer.Address}}{{if .Customer.City}}, {{.Customer.City}}{{end}}{{end}}
</div>

<h2>Amounts</h2>
<table>
<tr><td>Subtotal (products &amp; accessories)</td><td class="num">{{.Summary.Subtotal}}</td></tr>
{{if .Summary.HasDiscount}}<tr><td>Discount</td><td class="num">&minus; {{.Summary.DiscountAmount}}</td></tr>{{end}}
<tr><td>Installation &amp; handling</td><td class="num">{{.Summary.TotalInstallation}}</td></tr>
<tr><td>Taxable amount</td><td class="num">{{.Summary.TaxableAmount}}</td></tr>
<tr><td>CGST</td><td class="num">{{.Summary.CGSTAmount}}</td></tr>
<tr><td>SGST</td><td class="num">{{.Summary.SGSTAmount}}</td></tr>
<tr class="grand"><td>Grand total</td><td class="num">{{.Summary.GrandTotal}}</td></tr>
{{if .Summary.HasDiscount}}<tr class="compare"><td>Total without discount</td><td class="num">{{.Summary.WithoutDiscountTotal}}</td></tr>
<tr class="compare"><td>You save</td><td class="num">{{.Summary.Savings}}</td></tr>{{end}}
</table>

{{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
</body>
</html>`))

// RenderInvoiceHTML produces the printable HTML for an invoice.
func RenderInvoiceHTML(inv *invoices.Invoice, cust *customers.Customer, refs InvoiceRefs) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, BuildInvoiceDocument(inv, cust, refs)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func invoiceFilename(number string) string {
	if number == "" {
		number = time.Now().Format("20060102")
	}
	return fmt.Sprintf("invoice-%s.pdf", number)
}
