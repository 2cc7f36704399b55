package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Repository provides PostgreSQL backed persistence for customers and
// their follow-ups.
type Repository interface {
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error)
	Create(ctx context.Context, c Customer) (int64, error)
	Update(ctx context.Context, c Customer) error

	CreateFollowUp(ctx context.Context, f FollowUp) (int64, error)
	CompleteFollowUp(ctx context.Context, id int64) error
	ListPendingFollowUps(ctx context.Context) ([]FollowUp, error)
	ListFollowUpsByCustomer(ctx context.Context, customerID int64) ([]FollowUp, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, phone, email, address, city, notes, is_active, created_by, created_at, updated_at
		FROM customers WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.City, &c.Notes,
		&c.IsActive, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if req.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *req.IsActive)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR phone ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+*req.Search+"%")
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM customers "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT id, name, phone, email, address, city, notes, is_active, created_by, created_at, updated_at
		FROM customers %s ORDER BY name LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.City, &c.Notes,
			&c.IsActive, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, c Customer) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customers (name, phone, email, address, city, notes, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING id`,
		c.Name, c.Phone, c.Email, c.Address, c.City, c.Notes, c.IsActive, c.CreatedBy,
	).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, c Customer) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE customers SET name = $1, phone = $2, email = $3, address = $4, city = $5,
			notes = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8`,
		c.Name, c.Phone, c.Email, c.Address, c.City, c.Notes, c.IsActive, c.ID,
	)
	return err
}

func (r *repository) CreateFollowUp(ctx context.Context, f FollowUp) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customer_followups (customer_id, notes, next_follow_up_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING id`,
		f.CustomerID, f.Notes, f.NextFollowUpDate, f.Status,
	).Scan(&id)
	return id, err
}

func (r *repository) CompleteFollowUp(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customer_followups SET status = $1, updated_at = NOW() WHERE id = $2`,
		FollowUpStatusCompleted, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ListPendingFollowUps(ctx context.Context) ([]FollowUp, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, notes, next_follow_up_date, status, created_at, updated_at
		FROM customer_followups WHERE status = $1 ORDER BY next_follow_up_date`,
		FollowUpStatusPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFollowUps(rows)
}

func (r *repository) ListFollowUpsByCustomer(ctx context.Context, customerID int64) ([]FollowUp, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, notes, next_follow_up_date, status, created_at, updated_at
		FROM customer_followups WHERE customer_id = $1 ORDER BY next_follow_up_date DESC`,
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFollowUps(rows)
}

func scanFollowUps(rows pgx.Rows) ([]FollowUp, error) {
	var result []FollowUp
	for rows.Next() {
		var f FollowUp
		if err := rows.Scan(&f.ID, &f.CustomerID, &f.Notes, &f.NextFollowUpDate, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}
