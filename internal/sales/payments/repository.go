package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Repository provides PostgreSQL backed persistence for direct customer
// payments and the statement read side.
type Repository interface {
	Get(ctx context.Context, id int64) (*CustomerPayment, error)
	List(ctx context.Context, req ListPaymentsRequest) ([]CustomerPayment, int, error)
	Create(ctx context.Context, p *CustomerPayment) error
	Statement(ctx context.Context, customerID int64) (*Statement, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const paymentColumns = `id, receipt_number, transaction_id, customer_id, amount, payment_type,
	method, reference, notes, received_by, received_at, created_at`

func scanPayment(row pgx.Row) (*CustomerPayment, error) {
	var p CustomerPayment
	err := row.Scan(
		&p.ID, &p.ReceiptNumber, &p.TransactionID, &p.CustomerID, &p.Amount, &p.PaymentType,
		&p.Method, &p.Reference, &p.Notes, &p.ReceivedBy, &p.ReceivedAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*CustomerPayment, error) {
	return scanPayment(r.pool.QueryRow(ctx,
		"SELECT "+paymentColumns+" FROM customer_payments WHERE id = $1", id))
}

func (r *repository) List(ctx context.Context, req ListPaymentsRequest) ([]CustomerPayment, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("received_at >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("received_at <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM customer_payments "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT "+paymentColumns+" FROM customer_payments %s ORDER BY received_at DESC LIMIT $%d OFFSET $%d",
		whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []CustomerPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, p *CustomerPayment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO customer_payments (receipt_number, transaction_id, customer_id, amount, payment_type,
			method, reference, notes, received_by, received_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at`,
		p.ReceiptNumber, p.TransactionID, p.CustomerID, p.Amount, p.PaymentType,
		p.Method, p.Reference, p.Notes, p.ReceivedBy, p.ReceivedAt,
	).Scan(&p.ID, &p.CreatedAt)
}

// Statement assembles the consolidated money view from the order and direct
// payment tables. Pure read side; nothing is mutated.
func (r *repository) Statement(ctx context.Context, customerID int64) (*Statement, error) {
	st := &Statement{
		CustomerID:          customerID,
		TotalOrderValue:     decimal.Zero,
		TotalOrderPaid:      decimal.Zero,
		TotalOrderDue:       decimal.Zero,
		TotalDirectPayments: decimal.Zero,
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_number, total_amount, amount_paid, amount_due, payment_status
		FROM sales_orders WHERE customer_id = $1 ORDER BY created_at`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var line StatementLine
		if err := rows.Scan(&line.OrderID, &line.OrderNumber, &line.TotalAmount,
			&line.AmountPaid, &line.AmountDue, &line.PaymentStatus); err != nil {
			return nil, err
		}
		st.Orders = append(st.Orders, line)
		st.TotalOrderValue = st.TotalOrderValue.Add(line.TotalAmount)
		st.TotalOrderPaid = st.TotalOrderPaid.Add(line.AmountPaid)
		st.TotalOrderDue = st.TotalOrderDue.Add(line.AmountDue)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	payRows, err := r.pool.Query(ctx,
		"SELECT "+paymentColumns+" FROM customer_payments WHERE customer_id = $1 ORDER BY received_at", customerID)
	if err != nil {
		return nil, err
	}
	defer payRows.Close()
	for payRows.Next() {
		p, err := scanPayment(payRows)
		if err != nil {
			return nil, err
		}
		st.DirectPayments = append(st.DirectPayments, *p)
		st.TotalDirectPayments = st.TotalDirectPayments.Add(p.Amount)
	}
	return st, payRows.Err()
}
