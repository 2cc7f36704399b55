package invoices

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/pricing"
	"github.com/meridian-erp/meridian-erp/internal/sales/orders"
	"github.com/meridian-erp/meridian-erp/internal/sales/quotations"
	"github.com/meridian-erp/meridian-erp/internal/settings"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type stubQuotations struct {
	docs map[int64]*quotations.Quotation
}

func (s *stubQuotations) Get(_ context.Context, id int64) (*quotations.Quotation, error) {
	q, ok := s.docs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *q
	return &clone, nil
}

func (s *stubQuotations) Pricing(ctx context.Context, id int64) (*quotations.QuotationPricing, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	breakdown, final, err := pricing.Quote(q.PricingRooms(), q.PricingTerms())
	if err != nil {
		return nil, err
	}
	return &quotations.QuotationPricing{Quotation: q, Breakdown: breakdown, Final: final}, nil
}

type stubOrders struct {
	docs map[int64]*orders.SalesOrder
}

func (s *stubOrders) Get(_ context.Context, id int64) (*orders.SalesOrder, error) {
	o, ok := s.docs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *o
	return &clone, nil
}

type mockInvoiceRepo struct {
	nextID  int64
	nextSeq int64
	docs    map[int64]*Invoice
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{docs: map[int64]*Invoice{}}
}

func (m *mockInvoiceRepo) Get(_ context.Context, id int64) (*Invoice, error) {
	inv, ok := m.docs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *inv
	return &clone, nil
}

func (m *mockInvoiceRepo) List(_ context.Context, _ ListInvoicesRequest) ([]Invoice, int, error) {
	var out []Invoice
	for _, inv := range m.docs {
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (m *mockInvoiceRepo) Create(_ context.Context, inv *Invoice) error {
	m.nextID++
	inv.ID = m.nextID
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	stored := *inv
	m.docs[inv.ID] = &stored
	return nil
}

func (m *mockInvoiceRepo) SetStatus(_ context.Context, id int64, from []InvoiceStatus, to InvoiceStatus) error {
	inv, ok := m.docs[id]
	if !ok {
		return shared.ErrNotFound
	}
	for _, f := range from {
		if inv.Status == f {
			inv.Status = to
			return nil
		}
	}
	return shared.ErrInvalidStatus
}

func (m *mockInvoiceRepo) MarkOverdue(_ context.Context, asOf time.Time) ([]int64, error) {
	var ids []int64
	for _, inv := range m.docs {
		if inv.Status == InvoiceStatusPending && inv.DueDate != nil && inv.DueDate.Before(asOf) {
			inv.Status = InvoiceStatusOverdue
			ids = append(ids, inv.ID)
		}
	}
	return ids, nil
}

func (m *mockInvoiceRepo) GenerateNumber(_ context.Context, date time.Time) (string, error) {
	m.nextSeq++
	return fmt.Sprintf("INV-%s-%04d", date.Format("200601"), m.nextSeq), nil
}

type fixedSettings struct{}

func (fixedSettings) Get(context.Context) (*settings.AppSettings, error) {
	return &settings.AppSettings{InvoicePaymentTermsDays: 15}, nil
}

// referenceQuotation prices to grand total 2608 (without discount 2714):
// products 1800, discount 5% = 90, installation 500, GST 18% on 2210 = 398.
func referenceQuotation(id int64, status quotations.QuotationStatus) *quotations.Quotation {
	return &quotations.Quotation{
		ID:                    id,
		CustomerID:            1,
		Status:                status,
		GlobalDiscountPercent: decimal.NewFromInt(5),
		GSTPercent:            decimal.NewFromInt(18),
		Rooms: []quotations.Room{{
			Name: "Kitchen",
			Products: []quotations.LineItem{{
				Kind:            quotations.LineItemKindProduct,
				Name:            "Modular unit",
				Quantity:        1,
				SellingPrice:    decimal.NewFromInt(2000),
				DiscountPercent: decimal.NewFromInt(10),
			}},
			InstallationCharges: []quotations.InstallationCharge{{
				Name:   "Fitting",
				Amount: decimal.NewFromInt(500),
			}},
		}},
	}
}

func newInvoiceTestService() (*Service, *mockInvoiceRepo, *stubQuotations, *stubOrders) {
	quotes := &stubQuotations{docs: map[int64]*quotations.Quotation{
		1: referenceQuotation(1, quotations.QuotationStatusApproved),
	}}
	orderStubs := &stubOrders{docs: map[int64]*orders.SalesOrder{}}
	repo := newMockInvoiceRepo()
	return NewService(repo, quotes, orderStubs, fixedSettings{}, nil), repo, quotes, orderStubs
}

func invoiceAuthCtx() context.Context {
	return shared.ContextWithAuth(context.Background(),
		shared.NewAuthContext(7, []string{shared.PermInvoiceCreate, shared.PermInvoiceCancel}))
}

func TestCreateFromQuotationSnapshotsFreshFigures(t *testing.T) {
	svc, _, _, _ := newInvoiceTestService()

	inv, err := svc.CreateFromQuotation(invoiceAuthCtx(), 1, CreateInvoiceRequest{})
	require.NoError(t, err)

	assert.Equal(t, InvoiceStatusPending, inv.Status)
	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(1800)))
	assert.True(t, inv.DiscountAmount.Equal(decimal.NewFromInt(90)))
	assert.True(t, inv.TotalInstallation.Equal(decimal.NewFromInt(500)))
	assert.True(t, inv.TaxableAmount.Equal(decimal.NewFromInt(2210)))
	assert.True(t, inv.GSTAmount.Equal(decimal.NewFromInt(398)))
	assert.True(t, inv.CGSTAmount.Equal(decimal.NewFromInt(199)))
	assert.True(t, inv.SGSTAmount.Equal(decimal.NewFromInt(199)))
	assert.True(t, inv.CGSTAmount.Add(inv.SGSTAmount).Equal(inv.GSTAmount))
	assert.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(2608)))
	assert.True(t, inv.GrandTotalWithoutDiscount.Equal(decimal.NewFromInt(2714)))
	assert.Regexp(t, `^INV-\d{6}-0001$`, inv.InvoiceNumber)
	require.NotNil(t, inv.DueDate, "payment terms default should apply")
}

func TestCreateRecomputesAfterQuotationEdit(t *testing.T) {
	svc, _, quotes, _ := newInvoiceTestService()

	first, err := svc.CreateFromQuotation(invoiceAuthCtx(), 1, CreateInvoiceRequest{})
	require.NoError(t, err)

	quotes.docs[1].Rooms[0].Products[0].SellingPrice = decimal.NewFromInt(3000)

	second, err := svc.CreateFromQuotation(invoiceAuthCtx(), 1, CreateInvoiceRequest{})
	require.NoError(t, err)

	assert.False(t, second.GrandTotal.Equal(first.GrandTotal),
		"second invoice must reflect the current quotation, not the first snapshot")
	assert.True(t, second.Subtotal.Equal(decimal.NewFromInt(2700)))
}

func TestCreateRequiresApprovedOrConverted(t *testing.T) {
	svc, _, quotes, _ := newInvoiceTestService()
	quotes.docs[2] = referenceQuotation(2, quotations.QuotationStatusDraft)

	_, err := svc.CreateFromQuotation(invoiceAuthCtx(), 2, CreateInvoiceRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)

	quotes.docs[3] = referenceQuotation(3, quotations.QuotationStatusConverted)
	_, err = svc.CreateFromQuotation(invoiceAuthCtx(), 3, CreateInvoiceRequest{})
	assert.NoError(t, err, "converted quotations remain invoiceable")
}

func TestCreateRequiresPermission(t *testing.T) {
	svc, _, _, _ := newInvoiceTestService()
	_, err := svc.CreateFromQuotation(context.Background(), 1, CreateInvoiceRequest{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCreateFromOrderUsesUnderlyingQuotation(t *testing.T) {
	svc, _, quotes, orderStubs := newInvoiceTestService()
	quotes.docs[1].Status = quotations.QuotationStatusConverted
	orderStubs.docs[10] = &orders.SalesOrder{ID: 10, QuotationID: 1, CustomerID: 1}

	inv, err := svc.CreateFromOrder(invoiceAuthCtx(), 10, CreateInvoiceRequest{})
	require.NoError(t, err)
	require.NotNil(t, inv.SalesOrderID)
	assert.Equal(t, int64(10), *inv.SalesOrderID)
	assert.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(2608)))
}

func TestCancelPaidInvoiceRejected(t *testing.T) {
	svc, repo, _, _ := newInvoiceTestService()
	inv, err := svc.CreateFromQuotation(invoiceAuthCtx(), 1, CreateInvoiceRequest{})
	require.NoError(t, err)
	repo.docs[inv.ID].Status = InvoiceStatusPaid

	_, err = svc.Cancel(invoiceAuthCtx(), inv.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestSyncPaymentStatusFromOrder(t *testing.T) {
	svc, repo, quotes, orderStubs := newInvoiceTestService()
	quotes.docs[1].Status = quotations.QuotationStatusConverted
	orderStubs.docs[10] = &orders.SalesOrder{ID: 10, QuotationID: 1, CustomerID: 1}

	inv, err := svc.CreateFromOrder(invoiceAuthCtx(), 10, CreateInvoiceRequest{})
	require.NoError(t, err)

	orderStubs.docs[10].AmountPaid = decimal.NewFromInt(1000)
	synced, err := svc.SyncPaymentStatus(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPartiallyPaid, synced.Status)

	orderStubs.docs[10].AmountPaid = decimal.NewFromInt(2608)
	synced, err = svc.SyncPaymentStatus(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, synced.Status)

	// Cancelled invoices are left alone.
	repo.docs[inv.ID].Status = InvoiceStatusCancelled
	synced, err = svc.SyncPaymentStatus(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusCancelled, synced.Status)
}

func TestOverdueScan(t *testing.T) {
	svc, repo, _, _ := newInvoiceTestService()
	pastDue := time.Now().AddDate(0, 0, -20)
	due := &pastDue
	inv, err := svc.CreateFromQuotation(invoiceAuthCtx(), 1, CreateInvoiceRequest{DueDate: due})
	require.NoError(t, err)

	ids, err := svc.OverdueScan(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, []int64{inv.ID}, ids)
	assert.Equal(t, InvoiceStatusOverdue, repo.docs[inv.ID].Status)
}
