package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"validade-backend/internal/model"
	"validade-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackupFixture(t *testing.T) (*fixture, BackupService) {
	t.Helper()
	fx := newFixture(t, "")
	return fx, NewBackupService(fx.products, fx.settings, fx.notifier, fx.svc)
}

func TestExportImportRoundTrip(t *testing.T) {
	fx, backup := newBackupFixture(t)

	_, err := fx.svc.Create(SaveProductRequest{Name: "Arroz", Barcode: "789", ExpiryDate: brDate(time.Now().AddDate(0, 0, 45)), Quantity: 3})
	require.NoError(t, err)
	cfg, err := fx.settings.Get()
	require.NoError(t, err)
	cfg.LeadDays = 5
	require.NoError(t, fx.settings.Update(cfg))

	payload, err := backup.Export()
	require.NoError(t, err)
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	// Wipe and restore.
	require.NoError(t, fx.products.ReplaceAll(nil, nil))
	require.NoError(t, backup.Import(raw))

	all, err := fx.products.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Arroz", all[0].Name)
	assert.Equal(t, "789", all[0].Barcode)
	assert.Equal(t, 3, all[0].Quantity)

	got, err := fx.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, got.LeadDays)
}

func TestImportReplacesDatasetAtomically(t *testing.T) {
	fx, backup := newBackupFixture(t)

	view, err := fx.svc.Create(SaveProductRequest{Name: "Existente", ExpiryDate: brDate(time.Now().AddDate(0, 0, 10))})
	require.NoError(t, err)
	require.NotNil(t, view.NotificationID)
	oldHandle := *view.NotificationID

	raw := fmt.Sprintf(`{"records":[{"name":"Novo","expiry_date":"%s","quantity":2}],"configuration":[{"lead_days":4,"alert_hour":8,"alert_minute":15}]}`,
		brDate(time.Now().AddDate(0, 0, 30)))
	require.NoError(t, backup.Import([]byte(raw)))

	all, err := fx.products.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Novo", all[0].Name)
	assert.NotNil(t, all[0].NotificationID, "restored future-dated record gets a live reminder")
	assert.Equal(t, 1, fx.notifier.cancelCount(oldHandle), "outgoing dataset's reminder dies with it")

	cfg, err := fx.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.LeadDays)
	assert.Equal(t, 8, cfg.AlertHour)
	assert.Equal(t, 15, cfg.AlertMinute)
}

// failingReplaceRepo makes the dataset swap itself fail.
type failingReplaceRepo struct {
	repository.ProductRepository
}

func (f *failingReplaceRepo) ReplaceAll(products []model.Product, settings *model.Settings) error {
	return errors.New("disk full")
}

func TestImportFailureKeepsExistingReminders(t *testing.T) {
	fx, _ := newBackupFixture(t)

	view, err := fx.svc.Create(SaveProductRequest{Name: "Sobrevivente", ExpiryDate: brDate(time.Now().AddDate(0, 0, 10))})
	require.NoError(t, err)
	require.NotNil(t, view.NotificationID)
	handle := *view.NotificationID

	backup := NewBackupService(&failingReplaceRepo{fx.products}, fx.settings, fx.notifier, fx.svc)
	raw := fmt.Sprintf(`{"records":[{"name":"Novo","expiry_date":"%s"}]}`, brDate(time.Now().AddDate(0, 0, 30)))
	require.Error(t, backup.Import([]byte(raw)))

	assert.Equal(t, 0, fx.notifier.cancelCount(handle), "surviving records keep their timers")

	all, err := fx.products.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Sobrevivente", all[0].Name)
}

func TestImportRejectsMalformedPayloadWithoutTouchingStore(t *testing.T) {
	fx, backup := newBackupFixture(t)

	_, err := fx.svc.Create(SaveProductRequest{Name: "Intocado", ExpiryDate: brDate(time.Now().AddDate(0, 0, 10))})
	require.NoError(t, err)

	cases := []string{
		`not json at all`,
		`{"configuration":[]}`,
		`{"records":[{"name":"","expiry_date":"10/03/2026"}]}`,
		`{"records":[{"name":"X","expiry_date":"30/02/2026"}]}`,
		`{"records":[{"name":"X","expiry_date":"2026-03-10"}]}`,
		`{"records":[],"configuration":[{"lead_days":-1,"alert_hour":9,"alert_minute":0}]}`,
		`{"records":[],"configuration":[{"lead_days":3,"alert_hour":24,"alert_minute":0}]}`,
	}
	for _, raw := range cases {
		err := backup.Import([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidBackup, "payload: %s", raw)
	}

	all, err := fx.products.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Intocado", all[0].Name)
}

func TestImportWithoutConfigurationUsesDefaults(t *testing.T) {
	fx, backup := newBackupFixture(t)

	cfg, err := fx.settings.Get()
	require.NoError(t, err)
	cfg.LeadDays = 10
	cfg.AlertHour = 20
	require.NoError(t, fx.settings.Update(cfg))

	raw := fmt.Sprintf(`{"records":[{"name":"Antigo","expiry_date":"%s"}]}`, brDate(time.Now().AddDate(0, 0, 20)))
	require.NoError(t, backup.Import([]byte(raw)))

	got, err := fx.settings.Get()
	require.NoError(t, err)
	defaults := model.DefaultSettings()
	assert.Equal(t, defaults.LeadDays, got.LeadDays)
	assert.Equal(t, defaults.AlertHour, got.AlertHour)
	assert.Equal(t, defaults.AlertMinute, got.AlertMinute)
}

func TestImportDefaultsQuantityAndDropsStaleHandles(t *testing.T) {
	fx, backup := newBackupFixture(t)

	staleHandle := "b7a2f1c0-0000-4000-8000-000000000000"
	raw := fmt.Sprintf(`{"records":[{"name":"Feijão","expiry_date":"%s","notification_id":%q}],"configuration":[{"lead_days":3,"alert_hour":9,"alert_minute":0}]}`,
		brDate(time.Now().AddDate(0, 0, -2)), staleHandle)
	require.NoError(t, backup.Import([]byte(raw)))

	all, err := fx.products.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 1, all[0].Quantity)
	assert.Nil(t, all[0].NotificationID, "handles from another process never survive a restore")
}
