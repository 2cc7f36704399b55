package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Repository provides PostgreSQL backed persistence for app settings.
// Settings live in a single row keyed id=1.
type Repository interface {
	Get(ctx context.Context) (*AppSettings, error)
	Update(ctx context.Context, s AppSettings) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context) (*AppSettings, error) {
	var s AppSettings
	err := r.pool.QueryRow(ctx, `
		SELECT id, business_name, business_address, business_phone, gstin,
		       default_gst_percent, default_global_discount_percent, default_installation_handling,
		       quotation_validity_days, invoice_payment_terms_days, updated_at
		FROM app_settings WHERE id = 1`).Scan(
		&s.ID, &s.BusinessName, &s.BusinessAddress, &s.BusinessPhone, &s.GSTIN,
		&s.DefaultGSTPercent, &s.DefaultGlobalDiscountPercent, &s.DefaultInstallationHandling,
		&s.QuotationValidityDays, &s.InvoicePaymentTermsDays, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s AppSettings) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE app_settings SET
			business_name = $1, business_address = $2, business_phone = $3, gstin = $4,
			default_gst_percent = $5, default_global_discount_percent = $6,
			default_installation_handling = $7, quotation_validity_days = $8,
			invoice_payment_terms_days = $9, updated_at = NOW()
		WHERE id = 1`,
		s.BusinessName, s.BusinessAddress, s.BusinessPhone, s.GSTIN,
		s.DefaultGSTPercent, s.DefaultGlobalDiscountPercent, s.DefaultInstallationHandling,
		s.QuotationValidityDays, s.InvoicePaymentTermsDays,
	)
	return err
}
