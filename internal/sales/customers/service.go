package customers

import (
	"context"
	"fmt"
	"time"
)

// Service handles customer and follow-up business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest, createdBy int64) (*Customer, error) {
	customer := Customer{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		City:      req.City,
		Notes:     req.Notes,
		IsActive:  true,
		CreatedBy: createdBy,
	}
	id, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}
	if req.Email != nil {
		existing.Email = req.Email
	}
	if req.Address != nil {
		existing.Address = req.Address
	}
	if req.City != nil {
		existing.City = req.City
	}
	if req.Notes != nil {
		existing.Notes = req.Notes
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// Exists reports whether the customer is on file, as shared.ErrNotFound
// when they are not.
func (s *Service) Exists(ctx context.Context, id int64) error {
	_, err := s.repo.Get(ctx, id)
	return err
}

func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	return s.repo.List(ctx, req)
}

// ScheduleFollowUp records a pending follow-up for a customer.
func (s *Service) ScheduleFollowUp(ctx context.Context, req CreateFollowUpRequest) (*FollowUp, error) {
	if _, err := s.repo.Get(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("verify customer: %w", err)
	}
	f := FollowUp{
		CustomerID:       req.CustomerID,
		Notes:            req.Notes,
		NextFollowUpDate: req.NextFollowUpDate,
		Status:           FollowUpStatusPending,
	}
	id, err := s.repo.CreateFollowUp(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("create follow-up: %w", err)
	}
	f.ID = id
	return &f, nil
}

// CompleteFollowUp marks a follow-up as done, removing it from the counters.
func (s *Service) CompleteFollowUp(ctx context.Context, id int64) error {
	return s.repo.CompleteFollowUp(ctx, id)
}

// FollowUps lists a customer's follow-up history.
func (s *Service) FollowUps(ctx context.Context, customerID int64) ([]FollowUp, error) {
	return s.repo.ListFollowUpsByCustomer(ctx, customerID)
}

// DashboardCounts computes the CRM dashboard follow-up counters as of now.
func (s *Service) DashboardCounts(ctx context.Context, now time.Time) (FollowUpCounts, error) {
	pending, err := s.repo.ListPendingFollowUps(ctx)
	if err != nil {
		return FollowUpCounts{}, fmt.Errorf("list pending follow-ups: %w", err)
	}
	return CountPendingFollowUps(pending, now), nil
}
