package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/meridian-erp/meridian-erp/internal/platform/db"
	"github.com/meridian-erp/meridian-erp/internal/sales/quotations"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Repository provides PostgreSQL backed persistence for sales orders and
// their payments.
type Repository interface {
	Get(ctx context.Context, id int64) (*SalesOrder, error)
	GetByQuotation(ctx context.Context, quotationID int64) (*SalesOrder, error)
	List(ctx context.Context, req ListOrdersRequest) ([]SalesOrder, int, error)
	ConvertFromQuotation(ctx context.Context, order *SalesOrder) error
	UpdateStatus(ctx context.Context, id int64, from, to OrderStatus) error
	RecordPayment(ctx context.Context, orderID int64, payment *OrderPayment) (*SalesOrder, error)
	GenerateNumber(ctx context.Context, date time.Time) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `id, order_number, quotation_id, customer_id, status, payment_status,
	total_amount, amount_paid, amount_due, expected_delivery_date, notes,
	created_by, created_at, updated_at`

func scanOrder(row pgx.Row) (*SalesOrder, error) {
	var o SalesOrder
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.QuotationID, &o.CustomerID, &o.Status, &o.PaymentStatus,
		&o.TotalAmount, &o.AmountPaid, &o.AmountDue, &o.ExpectedDeliveryDate, &o.Notes,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*SalesOrder, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM sales_orders WHERE id = $1", id))
	if err != nil {
		return nil, err
	}
	payments, err := r.listPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Payments = payments
	return o, nil
}

func (r *repository) GetByQuotation(ctx context.Context, quotationID int64) (*SalesOrder, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM sales_orders WHERE quotation_id = $1", quotationID))
	if err != nil {
		return nil, err
	}
	payments, err := r.listPayments(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Payments = payments
	return o, nil
}

func (r *repository) listPayments(ctx context.Context, orderID int64) ([]OrderPayment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, sales_order_id, receipt_number, transaction_id, amount, payment_type, method,
			reference, notes, received_by, received_at, created_at
		FROM order_payments WHERE sales_order_id = $1 ORDER BY received_at, id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OrderPayment
	for rows.Next() {
		var p OrderPayment
		if err := rows.Scan(&p.ID, &p.SalesOrderID, &p.ReceiptNumber, &p.TransactionID, &p.Amount,
			&p.PaymentType, &p.Method, &p.Reference, &p.Notes, &p.ReceivedBy, &p.ReceivedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListOrdersRequest) ([]SalesOrder, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.PaymentStatus != nil {
		conditions = append(conditions, fmt.Sprintf("payment_status = $%d", argPos))
		args = append(args, *req.PaymentStatus)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM sales_orders "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT "+orderColumns+" FROM sales_orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []SalesOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *o)
	}
	return result, total, rows.Err()
}

// ConvertFromQuotation flips the quotation to CONVERTED and inserts the
// order in one transaction. Two guards close the double-conversion race:
// the conditional UPDATE on the quotation status, and the unique index on
// sales_orders.quotation_id.
func (r *repository) ConvertFromQuotation(ctx context.Context, order *SalesOrder) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE quotations SET status = $1, converted_at = NOW(), updated_at = NOW()
			WHERE id = $2 AND status = $3`,
			quotations.QuotationStatusConverted, order.QuotationID, quotations.QuotationStatusApproved,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var status quotations.QuotationStatus
			err := tx.QueryRow(ctx, `SELECT status FROM quotations WHERE id = $1`, order.QuotationID).Scan(&status)
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			if err != nil {
				return err
			}
			if status == quotations.QuotationStatusConverted {
				return shared.ErrAlreadyConverted
			}
			return shared.ErrInvalidStatus
		}

		return tx.QueryRow(ctx, `
			INSERT INTO sales_orders (order_number, quotation_id, customer_id, status, payment_status,
				total_amount, amount_paid, amount_due, expected_delivery_date, notes, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
			RETURNING id, created_at, updated_at`,
			order.OrderNumber, order.QuotationID, order.CustomerID, order.Status, order.PaymentStatus,
			order.TotalAmount, order.AmountPaid, order.AmountDue, order.ExpectedDeliveryDate, order.Notes, order.CreatedBy,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrAlreadyConverted
		}
		return err
	}
	return nil
}

// UpdateStatus moves the order with a conditional UPDATE so concurrent
// transitions cannot leapfrog each other.
func (r *repository) UpdateStatus(ctx context.Context, id int64, from, to OrderStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sales_orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM sales_orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}
		return shared.ErrInvalidStatus
	}
	return nil
}

// RecordPayment appends an instalment and recomputes the payment figures
// inside one transaction. The row lock serialises concurrent payments so
// the overpayment check always sees the latest balance.
func (r *repository) RecordPayment(ctx context.Context, orderID int64, payment *OrderPayment) (*SalesOrder, error) {
	var updated *SalesOrder
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		order, err := scanOrder(tx.QueryRow(ctx,
			"SELECT "+orderColumns+" FROM sales_orders WHERE id = $1 FOR UPDATE", orderID))
		if err != nil {
			return err
		}
		if order.Status == OrderStatusCancelled {
			return shared.ErrInvalidStatus
		}
		if payment.Amount.GreaterThan(order.AmountDue) {
			return shared.ErrOverpayment
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO order_payments (sales_order_id, receipt_number, transaction_id, amount, payment_type,
				method, reference, notes, received_by, received_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
			RETURNING id, created_at`,
			orderID, payment.ReceiptNumber, payment.TransactionID, payment.Amount, payment.PaymentType,
			payment.Method, payment.Reference, payment.Notes, payment.ReceivedBy, payment.ReceivedAt,
		).Scan(&payment.ID, &payment.CreatedAt)
		if err != nil {
			return err
		}
		payment.SalesOrderID = orderID

		var amountPaid decimal.Decimal
		err = tx.QueryRow(ctx,
			`SELECT COALESCE(SUM(amount), 0) FROM order_payments WHERE sales_order_id = $1`,
			orderID).Scan(&amountPaid)
		if err != nil {
			return err
		}

		amountDue := order.TotalAmount.Sub(amountPaid)
		if amountDue.IsNegative() {
			amountDue = decimal.Zero
		}
		status := DerivePaymentStatus(amountPaid, order.TotalAmount)

		updated, err = scanOrder(tx.QueryRow(ctx, `
			UPDATE sales_orders SET amount_paid = $1, amount_due = $2, payment_status = $3, updated_at = NOW()
			WHERE id = $4 RETURNING `+orderColumns,
			amountPaid, amountDue, status, orderID))
		return err
	})
	if err != nil {
		return nil, err
	}
	payments, err := r.listPayments(ctx, orderID)
	if err != nil {
		return nil, err
	}
	updated.Payments = payments
	return updated, nil
}

// GenerateNumber allocates the next SO-{YYYYMM}-{SEQ} number.
func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	var seq int64
	period := date.Format("200601")
	err := r.pool.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_type, period, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, period)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq`, "SO", period).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SO-%s-%04d", period, seq), nil
}
