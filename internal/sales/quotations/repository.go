package quotations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/platform/db"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Repository provides PostgreSQL backed persistence for quotations and
// their room trees.
type Repository interface {
	Get(ctx context.Context, id int64) (*Quotation, error)
	List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error)
	Create(ctx context.Context, q *Quotation) error
	UpdateHeader(ctx context.Context, q Quotation) error
	ReplaceRooms(ctx context.Context, quotationID int64, rooms []Room) error
	MarkSaved(ctx context.Context, id int64) error
	MarkApproved(ctx context.Context, id int64, approvedBy int64, at time.Time) error
	GenerateNumber(ctx context.Context, date time.Time) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const quotationColumns = `id, quotation_number, customer_id, status, global_discount_percent,
	gst_percent, installation_handling, valid_until, notes, created_by,
	approved_by, approved_at, converted_at, created_at, updated_at`

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var q Quotation
	err := row.Scan(
		&q.ID, &q.QuotationNumber, &q.CustomerID, &q.Status, &q.GlobalDiscountPercent,
		&q.GSTPercent, &q.InstallationHandling, &q.ValidUntil, &q.Notes, &q.CreatedBy,
		&q.ApprovedBy, &q.ApprovedAt, &q.ConvertedAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Quotation, error) {
	q, err := scanQuotation(r.pool.QueryRow(ctx,
		"SELECT "+quotationColumns+" FROM quotations WHERE id = $1", id))
	if err != nil {
		return nil, err
	}
	if err := r.loadRooms(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (r *repository) loadRooms(ctx context.Context, q *Quotation) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quotation_id, name, position
		FROM quotation_rooms WHERE quotation_id = $1 ORDER BY position, id`, q.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	roomIndex := map[int64]int{}
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.ID, &room.QuotationID, &room.Name, &room.Position); err != nil {
			return err
		}
		roomIndex[room.ID] = len(q.Rooms)
		q.Rooms = append(q.Rooms, room)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(q.Rooms) == 0 {
		return nil
	}

	itemRows, err := r.pool.Query(ctx, `
		SELECT li.id, li.room_id, li.kind, li.name, li.quantity, li.selling_price, li.discount_percent, li.position
		FROM quotation_line_items li
		JOIN quotation_rooms qr ON qr.id = li.room_id
		WHERE qr.quotation_id = $1 ORDER BY li.position, li.id`, q.ID)
	if err != nil {
		return err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var item LineItem
		if err := itemRows.Scan(&item.ID, &item.RoomID, &item.Kind, &item.Name,
			&item.Quantity, &item.SellingPrice, &item.DiscountPercent, &item.Position); err != nil {
			return err
		}
		idx, ok := roomIndex[item.RoomID]
		if !ok {
			continue
		}
		if item.Kind == LineItemKindAccessory {
			q.Rooms[idx].Accessories = append(q.Rooms[idx].Accessories, item)
		} else {
			q.Rooms[idx].Products = append(q.Rooms[idx].Products, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return err
	}

	chargeRows, err := r.pool.Query(ctx, `
		SELECT ic.id, ic.room_id, ic.name, ic.amount
		FROM quotation_installation_charges ic
		JOIN quotation_rooms qr ON qr.id = ic.room_id
		WHERE qr.quotation_id = $1 ORDER BY ic.id`, q.ID)
	if err != nil {
		return err
	}
	defer chargeRows.Close()
	for chargeRows.Next() {
		var charge InstallationCharge
		if err := chargeRows.Scan(&charge.ID, &charge.RoomID, &charge.Name, &charge.Amount); err != nil {
			return err
		}
		if idx, ok := roomIndex[charge.RoomID]; ok {
			q.Rooms[idx].InstallationCharges = append(q.Rooms[idx].InstallationCharges, charge)
		}
	}
	return chargeRows.Err()
}

func (r *repository) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
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
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM quotations "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT "+quotationColumns+" FROM quotations %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *q)
	}
	return result, total, rows.Err()
}

// Create persists the header and full room tree in one transaction and
// fills in the generated IDs.
func (r *repository) Create(ctx context.Context, q *Quotation) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO quotations (quotation_number, customer_id, status, global_discount_percent,
				gst_percent, installation_handling, valid_until, notes, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			RETURNING id, created_at, updated_at`,
			q.QuotationNumber, q.CustomerID, q.Status, q.GlobalDiscountPercent,
			q.GSTPercent, q.InstallationHandling, q.ValidUntil, q.Notes, q.CreatedBy,
		).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
		if err != nil {
			return err
		}
		return insertRooms(ctx, tx, q.ID, q.Rooms)
	})
}

func (r *repository) UpdateHeader(ctx context.Context, q Quotation) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE quotations SET global_discount_percent = $1, gst_percent = $2,
			installation_handling = $3, valid_until = $4, notes = $5, updated_at = NOW()
		WHERE id = $6`,
		q.GlobalDiscountPercent, q.GSTPercent, q.InstallationHandling, q.ValidUntil, q.Notes, q.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ReplaceRooms swaps the full room tree. Line items and charges cascade
// on room deletion.
func (r *repository) ReplaceRooms(ctx context.Context, quotationID int64, rooms []Room) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM quotation_rooms WHERE quotation_id = $1`, quotationID); err != nil {
			return err
		}
		if err := insertRooms(ctx, tx, quotationID, rooms); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE quotations SET updated_at = NOW() WHERE id = $1`, quotationID)
		return err
	})
}

func insertRooms(ctx context.Context, tx pgx.Tx, quotationID int64, rooms []Room) error {
	for ri := range rooms {
		room := &rooms[ri]
		err := tx.QueryRow(ctx, `
			INSERT INTO quotation_rooms (quotation_id, name, position)
			VALUES ($1, $2, $3) RETURNING id`,
			quotationID, room.Name, room.Position,
		).Scan(&room.ID)
		if err != nil {
			return err
		}
		room.QuotationID = quotationID

		for ii := range room.Products {
			if err := insertLineItem(ctx, tx, room.ID, LineItemKindProduct, &room.Products[ii]); err != nil {
				return err
			}
		}
		for ii := range room.Accessories {
			if err := insertLineItem(ctx, tx, room.ID, LineItemKindAccessory, &room.Accessories[ii]); err != nil {
				return err
			}
		}
		for ci := range room.InstallationCharges {
			charge := &room.InstallationCharges[ci]
			err := tx.QueryRow(ctx, `
				INSERT INTO quotation_installation_charges (room_id, name, amount)
				VALUES ($1, $2, $3) RETURNING id`,
				room.ID, charge.Name, charge.Amount,
			).Scan(&charge.ID)
			if err != nil {
				return err
			}
			charge.RoomID = room.ID
		}
	}
	return nil
}

func insertLineItem(ctx context.Context, tx pgx.Tx, roomID int64, kind LineItemKind, item *LineItem) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO quotation_line_items (room_id, kind, name, quantity, selling_price, discount_percent, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		roomID, kind, item.Name, item.Quantity, item.SellingPrice, item.DiscountPercent, item.Position,
	).Scan(&item.ID)
	if err != nil {
		return err
	}
	item.RoomID = roomID
	item.Kind = kind
	return nil
}

// MarkSaved moves DRAFT to SAVED. The WHERE clause is the guard: a stale
// caller loses the race and gets ErrInvalidStatus back.
func (r *repository) MarkSaved(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE quotations SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`,
		QuotationStatusSaved, id, QuotationStatusDraft,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.statusConflict(ctx, id)
	}
	return nil
}

// MarkApproved moves SAVED to APPROVED, stamping the approver.
func (r *repository) MarkApproved(ctx context.Context, id int64, approvedBy int64, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE quotations SET status = $1, approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5`,
		QuotationStatusApproved, approvedBy, at, id, QuotationStatusSaved,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.statusConflict(ctx, id)
	}
	return nil
}

func (r *repository) statusConflict(ctx context.Context, id int64) error {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM quotations WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}
	return shared.ErrInvalidStatus
}

// GenerateNumber allocates the next QT-{YYYYMM}-{SEQ} number from the
// monthly sequence table.
func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	var seq int64
	period := date.Format("200601")
	err := r.pool.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_type, period, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, period)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq`, "QT", period).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("QT-%s-%04d", period, seq), nil
}
