package quotations

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/settings"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type mockRepo struct {
	nextID  int64
	nextSeq int64
	docs    map[int64]*Quotation
}

func newMockRepo() *mockRepo {
	return &mockRepo{docs: map[int64]*Quotation{}}
}

func (m *mockRepo) Get(_ context.Context, id int64) (*Quotation, error) {
	q, ok := m.docs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *q
	clone.Rooms = copyRooms(q.Rooms)
	return &clone, nil
}

func (m *mockRepo) List(_ context.Context, _ ListQuotationsRequest) ([]Quotation, int, error) {
	var out []Quotation
	for _, q := range m.docs {
		out = append(out, *q)
	}
	return out, len(out), nil
}

func (m *mockRepo) Create(_ context.Context, q *Quotation) error {
	m.nextID++
	q.ID = m.nextID
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	stored := *q
	stored.Rooms = copyRooms(q.Rooms)
	m.docs[q.ID] = &stored
	return nil
}

func (m *mockRepo) UpdateHeader(_ context.Context, q Quotation) error {
	stored, ok := m.docs[q.ID]
	if !ok {
		return shared.ErrNotFound
	}
	stored.GlobalDiscountPercent = q.GlobalDiscountPercent
	stored.GSTPercent = q.GSTPercent
	stored.InstallationHandling = q.InstallationHandling
	stored.ValidUntil = q.ValidUntil
	stored.Notes = q.Notes
	return nil
}

func (m *mockRepo) ReplaceRooms(_ context.Context, quotationID int64, rooms []Room) error {
	stored, ok := m.docs[quotationID]
	if !ok {
		return shared.ErrNotFound
	}
	stored.Rooms = rooms
	return nil
}

func (m *mockRepo) MarkSaved(_ context.Context, id int64) error {
	stored, ok := m.docs[id]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Status != QuotationStatusDraft {
		return shared.ErrInvalidStatus
	}
	stored.Status = QuotationStatusSaved
	return nil
}

func (m *mockRepo) MarkApproved(_ context.Context, id int64, approvedBy int64, at time.Time) error {
	stored, ok := m.docs[id]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Status != QuotationStatusSaved {
		return shared.ErrInvalidStatus
	}
	stored.Status = QuotationStatusApproved
	stored.ApprovedBy = &approvedBy
	stored.ApprovedAt = &at
	return nil
}

func (m *mockRepo) GenerateNumber(_ context.Context, date time.Time) (string, error) {
	m.nextSeq++
	return fmt.Sprintf("QT-%s-%04d", date.Format("200601"), m.nextSeq), nil
}

type fixedSettings struct{}

func (fixedSettings) Get(context.Context) (*settings.AppSettings, error) {
	return &settings.AppSettings{
		DefaultGSTPercent:            decimal.NewFromInt(18),
		DefaultGlobalDiscountPercent: decimal.Zero,
		DefaultInstallationHandling:  decimal.Zero,
		QuotationValidityDays:        15,
	}, nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, fixedSettings{}, nil), repo
}

func authCtx(perms ...string) context.Context {
	return shared.ContextWithAuth(context.Background(), shared.NewAuthContext(7, perms))
}

func pricedRoomRequest() []CreateRoomReq {
	return []CreateRoomReq{{
		Name: "Kitchen",
		Products: []CreateLineItemReq{
			{Name: "Base unit", Quantity: 2, SellingPrice: decimal.NewFromInt(500)},
			{Name: "Wall unit", Quantity: 1, SellingPrice: decimal.NewFromInt(800)},
		},
		InstallationCharges: []CreateInstallChgReq{
			{Name: "Fitting", Amount: decimal.NewFromInt(500)},
		},
	}}
}

func createSavedQuotation(t *testing.T, svc *Service) *Quotation {
	t.Helper()
	q, err := svc.Create(context.Background(), CreateQuotationRequest{
		CustomerID: 1,
		Rooms:      pricedRoomRequest(),
	}, 7)
	require.NoError(t, err)
	saved, err := svc.Save(context.Background(), q.ID)
	require.NoError(t, err)
	return saved
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, _ := newTestService()

	q, err := svc.Create(context.Background(), CreateQuotationRequest{
		CustomerID: 1,
		Rooms:      pricedRoomRequest(),
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, QuotationStatusDraft, q.Status)
	assert.True(t, q.GSTPercent.Equal(decimal.NewFromInt(18)), "GST default should apply")
	require.NotNil(t, q.ValidUntil)
	assert.Regexp(t, `^QT-\d{6}-0001$`, q.QuotationNumber)
	require.Len(t, q.Rooms, 1)
	assert.Len(t, q.Rooms[0].Products, 2)
}

func TestCreateRejectsMalformedTerms(t *testing.T) {
	svc, _ := newTestService()
	discount := decimal.NewFromInt(150)

	_, err := svc.Create(context.Background(), CreateQuotationRequest{
		CustomerID:            1,
		GlobalDiscountPercent: &discount,
		Rooms:                 pricedRoomRequest(),
	}, 7)
	assert.ErrorIs(t, err, shared.ErrInvalidAmount)
}

func TestSaveOnlyFromDraft(t *testing.T) {
	svc, _ := newTestService()
	saved := createSavedQuotation(t, svc)

	_, err := svc.Save(context.Background(), saved.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestApproveRequiresPermission(t *testing.T) {
	svc, _ := newTestService()
	saved := createSavedQuotation(t, svc)

	_, err := svc.Approve(context.Background(), saved.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.Approve(authCtx(shared.PermQuotationView), saved.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestApproveOnlyFromSaved(t *testing.T) {
	svc, _ := newTestService()
	q, err := svc.Create(context.Background(), CreateQuotationRequest{
		CustomerID: 1,
		Rooms:      pricedRoomRequest(),
	}, 7)
	require.NoError(t, err)

	_, err = svc.Approve(authCtx(shared.PermQuotationApprove), q.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestApproveBlockedByValidationErrors(t *testing.T) {
	svc, _ := newTestService()
	q, err := svc.Create(context.Background(), CreateQuotationRequest{CustomerID: 1}, 7)
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), q.ID)
	require.NoError(t, err)

	_, err = svc.Approve(authCtx(shared.PermQuotationApprove), q.ID)
	var vErr *shared.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Errors, "quotation has no rooms")
}

func TestApproveStampsApprover(t *testing.T) {
	svc, _ := newTestService()
	saved := createSavedQuotation(t, svc)

	approved, err := svc.Approve(authCtx(shared.PermQuotationApprove), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, QuotationStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, int64(7), *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)
}

func TestUpdateRejectedAfterApproval(t *testing.T) {
	svc, _ := newTestService()
	saved := createSavedQuotation(t, svc)
	_, err := svc.Approve(authCtx(shared.PermQuotationApprove), saved.ID)
	require.NoError(t, err)

	notes := "late edit"
	_, err = svc.Update(context.Background(), saved.ID, UpdateQuotationRequest{Notes: &notes})
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestUpdateRejectsMalformedRooms(t *testing.T) {
	svc, _ := newTestService()
	q, err := svc.Create(context.Background(), CreateQuotationRequest{
		CustomerID: 1,
		Rooms:      pricedRoomRequest(),
	}, 7)
	require.NoError(t, err)

	badPrice := []CreateRoomReq{{
		Name: "Kitchen",
		Products: []CreateLineItemReq{
			{Name: "Base unit", Quantity: 1, SellingPrice: decimal.NewFromInt(-500)},
		},
	}}
	_, err = svc.Update(context.Background(), q.ID, UpdateQuotationRequest{Rooms: &badPrice})
	assert.ErrorIs(t, err, shared.ErrInvalidAmount)

	badDiscount := []CreateRoomReq{{
		Name: "Kitchen",
		Products: []CreateLineItemReq{
			{Name: "Base unit", Quantity: 1, SellingPrice: decimal.NewFromInt(500), DiscountPercent: decimal.NewFromInt(150)},
		},
	}}
	_, err = svc.Update(context.Background(), q.ID, UpdateQuotationRequest{Rooms: &badDiscount})
	assert.ErrorIs(t, err, shared.ErrInvalidAmount)

	// The stored document is untouched and still prices cleanly.
	priced, err := svc.Pricing(context.Background(), q.ID)
	require.NoError(t, err)
	assert.True(t, priced.Final.GrandTotal.IsPositive())
	require.Len(t, priced.Quotation.Rooms, 1)
	assert.Len(t, priced.Quotation.Rooms[0].Products, 2)
}

func TestDuplicateProducesFreshDraft(t *testing.T) {
	svc, repo := newTestService()
	saved := createSavedQuotation(t, svc)
	approved, err := svc.Approve(authCtx(shared.PermQuotationApprove), saved.ID)
	require.NoError(t, err)

	// Simulate a completed conversion; the copy must still work.
	repo.docs[approved.ID].Status = QuotationStatusConverted

	dup, err := svc.Duplicate(authCtx(shared.PermQuotationDuplicate), approved.ID, DuplicateQuotationRequest{}, 9)
	require.NoError(t, err)

	assert.Equal(t, QuotationStatusDraft, dup.Status)
	assert.NotEqual(t, approved.QuotationNumber, dup.QuotationNumber)
	assert.Nil(t, dup.ApprovedBy)
	assert.Nil(t, dup.ConvertedAt)
	assert.Equal(t, int64(9), dup.CreatedBy)

	// The copy prices identically to its source.
	sourcePricing, err := svc.Pricing(context.Background(), approved.ID)
	require.NoError(t, err)
	dupPricing, err := svc.Pricing(context.Background(), dup.ID)
	require.NoError(t, err)
	assert.True(t, sourcePricing.Final.GrandTotal.Equal(dupPricing.Final.GrandTotal))
	assert.True(t, sourcePricing.Final.GSTAmount.Equal(dupPricing.Final.GSTAmount))
}

func TestDuplicateToTargetCustomer(t *testing.T) {
	svc, _ := newTestService()
	saved := createSavedQuotation(t, svc)

	target := int64(42)
	dup, err := svc.Duplicate(authCtx(shared.PermQuotationDuplicate), saved.ID, DuplicateQuotationRequest{TargetCustomerID: &target}, 7)
	require.NoError(t, err)
	assert.Equal(t, target, dup.CustomerID)
}

func TestValidationReportsWarningsWithoutBlocking(t *testing.T) {
	svc, _ := newTestService()
	zero := decimal.Zero
	q, err := svc.Create(context.Background(), CreateQuotationRequest{
		CustomerID: 1,
		GSTPercent: &zero,
		Rooms:      pricedRoomRequest(),
	}, 7)
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), q.ID)
	require.NoError(t, err)

	result, err := svc.Validation(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Contains(t, result.Warnings, "GST percentage is zero")

	_, err = svc.Approve(authCtx(shared.PermQuotationApprove), q.ID)
	assert.NoError(t, err, "warnings alone must not block approval")
}
