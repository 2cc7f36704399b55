package settings

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	settings AppSettings
	reads    int
}

func (r *memoryRepo) Get(ctx context.Context) (*AppSettings, error) {
	r.reads++
	s := r.settings
	return &s, nil
}

func (r *memoryRepo) Update(ctx context.Context, s AppSettings) error {
	r.settings = s
	return nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &memoryRepo{settings: AppSettings{
		ID:                          1,
		BusinessName:                "Meridian Interiors",
		DefaultGSTPercent:           decimal.RequireFromString("18"),
		DefaultInstallationHandling: decimal.RequireFromString("500"),
		QuotationValidityDays:       30,
	}}
	return NewService(repo, client), repo
}

func TestGetCachesSecondRead(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	first, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Meridian Interiors", first.BusinessName)

	second, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, second.DefaultGSTPercent.Equal(first.DefaultGSTPercent))
	assert.Equal(t, 1, repo.reads, "second read must come from cache")
}

func TestUpdateInvalidatesCache(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx)
	require.NoError(t, err)

	name := "Meridian Studio"
	gst := decimal.RequireFromString("12")
	updated, err := svc.Update(ctx, UpdateSettingsRequest{BusinessName: &name, DefaultGSTPercent: &gst})
	require.NoError(t, err)
	assert.Equal(t, "Meridian Studio", updated.BusinessName)

	fresh, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Meridian Studio", fresh.BusinessName)
	assert.True(t, fresh.DefaultGSTPercent.Equal(gst))
	assert.Equal(t, repo.settings.BusinessName, fresh.BusinessName)
}

func TestUpdateRejectsNegativeDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	bad := decimal.RequireFromString("-1")
	_, err := svc.Update(context.Background(), UpdateSettingsRequest{DefaultGSTPercent: &bad})
	require.Error(t, err)

	_, err = svc.Update(context.Background(), UpdateSettingsRequest{DefaultInstallationHandling: &bad})
	require.Error(t, err)
}
