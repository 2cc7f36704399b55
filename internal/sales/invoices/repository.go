package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Repository provides PostgreSQL backed persistence for invoices.
type Repository interface {
	Get(ctx context.Context, id int64) (*Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error)
	Create(ctx context.Context, inv *Invoice) error
	SetStatus(ctx context.Context, id int64, from []InvoiceStatus, to InvoiceStatus) error
	MarkOverdue(ctx context.Context, asOf time.Time) ([]int64, error)
	GenerateNumber(ctx context.Context, date time.Time) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const invoiceColumns = `id, invoice_number, quotation_id, sales_order_id, customer_id, status,
	subtotal, discount_amount, total_installation, taxable_amount, gst_amount,
	cgst_amount, sgst_amount, grand_total, grand_total_without_discount,
	issued_at, due_date, notes, created_by, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.QuotationID, &inv.SalesOrderID, &inv.CustomerID, &inv.Status,
		&inv.Subtotal, &inv.DiscountAmount, &inv.TotalInstallation, &inv.TaxableAmount, &inv.GSTAmount,
		&inv.CGSTAmount, &inv.SGSTAmount, &inv.GrandTotal, &inv.GrandTotalWithoutDiscount,
		&inv.IssuedAt, &inv.DueDate, &inv.Notes, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Invoice, error) {
	return scanInvoice(r.pool.QueryRow(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = $1", id))
}

func (r *repository) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
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

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM invoices "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT "+invoiceColumns+" FROM invoices %s ORDER BY issued_at DESC LIMIT $%d OFFSET $%d",
		whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *inv)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, inv *Invoice) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO invoices (invoice_number, quotation_id, sales_order_id, customer_id, status,
			subtotal, discount_amount, total_installation, taxable_amount, gst_amount,
			cgst_amount, sgst_amount, grand_total, grand_total_without_discount,
			issued_at, due_date, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		inv.InvoiceNumber, inv.QuotationID, inv.SalesOrderID, inv.CustomerID, inv.Status,
		inv.Subtotal, inv.DiscountAmount, inv.TotalInstallation, inv.TaxableAmount, inv.GSTAmount,
		inv.CGSTAmount, inv.SGSTAmount, inv.GrandTotal, inv.GrandTotalWithoutDiscount,
		inv.IssuedAt, inv.DueDate, inv.Notes, inv.CreatedBy,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
}

// SetStatus moves the invoice only when its current status is in the
// allowed set.
func (r *repository) SetStatus(ctx context.Context, id int64, from []InvoiceStatus, to InvoiceStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = ANY($3)`, to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM invoices WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}
		return shared.ErrInvalidStatus
	}
	return nil
}

// MarkOverdue flips every PENDING invoice whose due date has passed and
// returns the affected IDs for the notification job.
func (r *repository) MarkOverdue(ctx context.Context, asOf time.Time) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE invoices SET status = $1, updated_at = NOW()
		WHERE status = $2 AND due_date IS NOT NULL AND due_date < $3
		RETURNING id`,
		InvoiceStatusOverdue, InvoiceStatusPending, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GenerateNumber allocates the next INV-{YYYYMM}-{SEQ} number.
func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	var seq int64
	period := date.Format("200601")
	err := r.pool.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_type, period, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, period)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq`, "INV", period).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%04d", period, seq), nil
}
