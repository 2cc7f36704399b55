package customers

import "time"

type Customer struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Phone     string     `json:"phone" db:"phone"`
	Email     *string    `json:"email,omitempty" db:"email"`
	Address   *string    `json:"address,omitempty" db:"address"`
	City      *string    `json:"city,omitempty" db:"city"`
	Notes     *string    `json:"notes,omitempty" db:"notes"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedBy int64      `json:"created_by" db:"created_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

type FollowUpStatus string

const (
	FollowUpStatusPending   FollowUpStatus = "PENDING"
	FollowUpStatusCompleted FollowUpStatus = "COMPLETED"
)

// FollowUp is a scheduled call-back against a customer, feeding the CRM
// dashboard counters.
type FollowUp struct {
	ID               int64          `json:"id" db:"id"`
	CustomerID       int64          `json:"customer_id" db:"customer_id"`
	Notes            *string        `json:"notes,omitempty" db:"notes"`
	NextFollowUpDate time.Time      `json:"next_follow_up_date" db:"next_follow_up_date"`
	Status           FollowUpStatus `json:"status" db:"status"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

type CreateCustomerRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Phone   string  `json:"phone" validate:"required,max=50"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	City    *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Notes   *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
	City     *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Notes    *string `json:"notes,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type CreateFollowUpRequest struct {
	CustomerID       int64     `json:"customer_id" validate:"required,gt=0"`
	Notes            *string   `json:"notes,omitempty"`
	NextFollowUpDate time.Time `json:"next_follow_up_date" validate:"required"`
}

type ListCustomersRequest struct {
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
