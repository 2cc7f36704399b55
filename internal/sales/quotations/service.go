package quotations

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/pricing"
	"github.com/meridian-erp/meridian-erp/internal/settings"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// SettingsProvider supplies the business defaults applied when a create
// request omits pricing parameters.
type SettingsProvider interface {
	Get(ctx context.Context) (*settings.AppSettings, error)
}

// Auditor records lifecycle transitions. May be nil in tests.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles quotation lifecycle and pricing reads.
type Service struct {
	repo     Repository
	settings SettingsProvider
	audit    Auditor
	now      func() time.Time
}

// NewService builds a Service instance.
func NewService(repo Repository, settingsSvc SettingsProvider, audit Auditor) *Service {
	return &Service{repo: repo, settings: settingsSvc, audit: audit, now: time.Now}
}

// Create builds a DRAFT quotation. Missing pricing parameters fall back to
// the stored business defaults.
func (s *Service) Create(ctx context.Context, req CreateQuotationRequest, createdBy int64) (*Quotation, error) {
	defaults, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	q := &Quotation{
		CustomerID:            req.CustomerID,
		Status:                QuotationStatusDraft,
		GlobalDiscountPercent: defaults.DefaultGlobalDiscountPercent,
		GSTPercent:            defaults.DefaultGSTPercent,
		InstallationHandling:  defaults.DefaultInstallationHandling,
		Notes:                 req.Notes,
		CreatedBy:             createdBy,
		Rooms:                 roomsFromRequest(req.Rooms),
	}
	if req.GlobalDiscountPercent != nil {
		q.GlobalDiscountPercent = *req.GlobalDiscountPercent
	}
	if req.GSTPercent != nil {
		q.GSTPercent = *req.GSTPercent
	}
	if req.InstallationHandling != nil {
		q.InstallationHandling = *req.InstallationHandling
	}
	if req.ValidUntil != nil {
		q.ValidUntil = req.ValidUntil
	} else if defaults.QuotationValidityDays > 0 {
		until := s.now().AddDate(0, 0, defaults.QuotationValidityDays)
		q.ValidUntil = &until
	}

	if err := checkTerms(q); err != nil {
		return nil, err
	}

	number, err := s.repo.GenerateNumber(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	q.QuotationNumber = number

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}
	return s.repo.Get(ctx, q.ID)
}

// Update edits header fields and optionally replaces the room tree. Only
// DRAFT and SAVED quotations are editable.
func (s *Service) Update(ctx context.Context, id int64, req UpdateQuotationRequest) (*Quotation, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if existing.Status != QuotationStatusDraft && existing.Status != QuotationStatusSaved {
		return nil, shared.ErrInvalidStatus
	}

	if req.GlobalDiscountPercent != nil {
		existing.GlobalDiscountPercent = *req.GlobalDiscountPercent
	}
	if req.GSTPercent != nil {
		existing.GSTPercent = *req.GSTPercent
	}
	if req.InstallationHandling != nil {
		existing.InstallationHandling = *req.InstallationHandling
	}
	if req.ValidUntil != nil {
		existing.ValidUntil = req.ValidUntil
	}
	if req.Notes != nil {
		existing.Notes = req.Notes
	}
	// Price the document as it will be stored, incoming rooms included, so a
	// malformed line is rejected here instead of surfacing on conversion.
	if req.Rooms != nil {
		existing.Rooms = roomsFromRequest(*req.Rooms)
	}
	if err := checkTerms(existing); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateHeader(ctx, *existing); err != nil {
		return nil, fmt.Errorf("update quotation: %w", err)
	}
	if req.Rooms != nil {
		if err := s.repo.ReplaceRooms(ctx, id, existing.Rooms); err != nil {
			return nil, fmt.Errorf("replace rooms: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}

// Save moves a DRAFT quotation to SAVED.
func (s *Service) Save(ctx context.Context, id int64) (*Quotation, error) {
	if err := s.repo.MarkSaved(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Approve runs the approval rule set and moves SAVED to APPROVED. Warnings
// never block; errors do.
func (s *Service) Approve(ctx context.Context, id int64) (*Quotation, error) {
	auth := shared.AuthFromContext(ctx)
	if !auth.Can(shared.PermQuotationApprove) {
		return nil, shared.ErrForbidden
	}

	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if q.Status != QuotationStatusSaved {
		return nil, shared.ErrInvalidStatus
	}
	if result := Validate(q); result.HasErrors() {
		return nil, result
	}

	now := s.now()
	if err := s.repo.MarkApproved(ctx, id, auth.UserID, now); err != nil {
		return nil, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  auth.UserID,
			Action:   "quotation.approve",
			Entity:   "quotation",
			EntityID: strconv.FormatInt(id, 10),
			At:       now,
		})
	}
	return s.repo.Get(ctx, id)
}

// Duplicate deep-copies a quotation into a fresh DRAFT with a new number.
// Any status may be duplicated, including CONVERTED.
func (s *Service) Duplicate(ctx context.Context, id int64, req DuplicateQuotationRequest, createdBy int64) (*Quotation, error) {
	auth := shared.AuthFromContext(ctx)
	if !auth.Can(shared.PermQuotationDuplicate) {
		return nil, shared.ErrForbidden
	}

	source, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}

	copyDoc := &Quotation{
		CustomerID:            source.CustomerID,
		Status:                QuotationStatusDraft,
		GlobalDiscountPercent: source.GlobalDiscountPercent,
		GSTPercent:            source.GSTPercent,
		InstallationHandling:  source.InstallationHandling,
		Notes:                 source.Notes,
		CreatedBy:             createdBy,
		Rooms:                 copyRooms(source.Rooms),
	}
	if req.TargetCustomerID != nil {
		copyDoc.CustomerID = *req.TargetCustomerID
	}

	number, err := s.repo.GenerateNumber(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	copyDoc.QuotationNumber = number

	if err := s.repo.Create(ctx, copyDoc); err != nil {
		return nil, fmt.Errorf("create duplicate: %w", err)
	}
	return s.repo.Get(ctx, copyDoc.ID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Quotation, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
	return s.repo.List(ctx, req)
}

// Validation runs the approval rule set without changing state.
func (s *Service) Validation(ctx context.Context, id int64) (*ValidationResult, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	result := Validate(q)
	return &ValidationResult{Errors: result.Errors, Warnings: result.Warnings}, nil
}

// Pricing computes the full breakdown and final totals for a quotation.
func (s *Service) Pricing(ctx context.Context, id int64) (*QuotationPricing, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	breakdown, final, err := pricing.Quote(q.PricingRooms(), q.PricingTerms())
	if err != nil {
		return nil, fmt.Errorf("price quotation: %w", err)
	}
	return &QuotationPricing{Quotation: q, Breakdown: breakdown, Final: final}, nil
}

// checkTerms rejects malformed pricing parameters before they are stored.
func checkTerms(q *Quotation) error {
	terms := q.PricingTerms()
	if _, _, err := pricing.Quote(q.PricingRooms(), terms); err != nil {
		return err
	}
	return nil
}

func roomsFromRequest(reqs []CreateRoomReq) []Room {
	rooms := make([]Room, 0, len(reqs))
	for i, rr := range reqs {
		room := Room{Name: rr.Name, Position: rr.Position}
		if room.Position == 0 {
			room.Position = i
		}
		for j, item := range rr.Products {
			room.Products = append(room.Products, LineItem{
				Kind:            LineItemKindProduct,
				Name:            item.Name,
				Quantity:        item.Quantity,
				SellingPrice:    item.SellingPrice,
				DiscountPercent: item.DiscountPercent,
				Position:        positionOr(item.Position, j),
			})
		}
		for j, item := range rr.Accessories {
			room.Accessories = append(room.Accessories, LineItem{
				Kind:            LineItemKindAccessory,
				Name:            item.Name,
				Quantity:        item.Quantity,
				SellingPrice:    item.SellingPrice,
				DiscountPercent: item.DiscountPercent,
				Position:        positionOr(item.Position, j),
			})
		}
		for _, charge := range rr.InstallationCharges {
			room.InstallationCharges = append(room.InstallationCharges, InstallationCharge{
				Name:   charge.Name,
				Amount: charge.Amount,
			})
		}
		rooms = append(rooms, room)
	}
	return rooms
}

func positionOr(pos, fallback int) int {
	if pos > 0 {
		return pos
	}
	return fallback
}

func copyRooms(rooms []Room) []Room {
	out := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		copyRoom := Room{Name: room.Name, Position: room.Position}
		for _, item := range room.Products {
			item.ID, item.RoomID = 0, 0
			copyRoom.Products = append(copyRoom.Products, item)
		}
		for _, item := range room.Accessories {
			item.ID, item.RoomID = 0, 0
			copyRoom.Accessories = append(copyRoom.Accessories, item)
		}
		for _, charge := range room.InstallationCharges {
			charge.ID, charge.RoomID = 0, 0
			copyRoom.InstallationCharges = append(copyRoom.InstallationCharges, charge)
		}
		out = append(out, copyRoom)
	}
	return out
}
