package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"validade-backend/internal/expiry"
	"validade-backend/internal/model"
	"validade-backend/internal/notify"
	"validade-backend/internal/repository"
)

var ErrInvalidBackup = errors.New("invalid backup file")

// BackupPayload is the on-disk backup shape: all records plus the
// configuration row wrapped in a single-element array, exactly as the
// app has always written it.
type BackupPayload struct {
	Records       []model.Product  `json:"records"`
	Configuration []model.Settings `json:"configuration"`
}

type BackupService interface {
	Export() (*BackupPayload, error)
	Import(raw []byte) error
}

type backupService struct {
	products  repository.ProductRepository
	settings  repository.SettingsRepository
	notifier  notify.Notifier
	lifecycle ProductService
}

func NewBackupService(
	products repository.ProductRepository,
	settings repository.SettingsRepository,
	notifier notify.Notifier,
	lifecycle ProductService,
) BackupService {
	return &backupService{
		products:  products,
		settings:  settings,
		notifier:  notifier,
		lifecycle: lifecycle,
	}
}

func (s *backupService) Export() (*BackupPayload, error) {
	records, err := s.products.ListAll()
	if err != nil {
		return nil, err
	}

	cfg, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	return &BackupPayload{
		Records:       records,
		Configuration: []model.Settings{*cfg},
	}, nil
}

// Import wholesale-replaces the dataset with the payload. The payload
// is fully validated and staged in memory first; only then does the
// store swap datasets inside one transaction, so a malformed file can
// never leave the store half-overwritten.
func (s *backupService) Import(raw []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if _, ok := probe["records"]; !ok {
		return fmt.Errorf("%w: missing records field", ErrInvalidBackup)
	}

	var payload BackupPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	staged := make([]model.Product, 0, len(payload.Records))
	for i := range payload.Records {
		p := payload.Records[i]
		if p.Name == "" {
			return fmt.Errorf("%w: record %d has no name", ErrInvalidBackup, i)
		}
		d, err := expiry.ParseBRDate(p.ExpiryDate)
		if err != nil {
			return fmt.Errorf("%w: record %d has malformed expiry date %q", ErrInvalidBackup, i, p.ExpiryDate)
		}
		p.ExpiryISO = d.ISO()
		if p.Quantity <= 0 {
			p.Quantity = 1
		}
		// Reminder handles never survive a restore; they belong to the
		// process that scheduled them.
		p.NotificationID = nil
		staged = append(staged, p)
	}

	// A backup written before the settings screen existed has no
	// configuration block; restoring one falls back to the defaults.
	var cfg model.Settings
	if len(payload.Configuration) > 0 {
		cfg = payload.Configuration[0]
		if cfg.LeadDays < 0 || cfg.AlertHour < 0 || cfg.AlertHour > 23 || cfg.AlertMinute < 0 || cfg.AlertMinute > 59 {
			return fmt.Errorf("%w: configuration out of range", ErrInvalidBackup)
		}
	} else {
		cfg = model.DefaultSettings()
	}

	existing, err := s.products.ListAll()
	if err != nil {
		return err
	}

	if err := s.products.ReplaceAll(staged, &cfg); err != nil {
		return err
	}

	// The outgoing dataset's reminders die with it, but only once the
	// swap has committed: a failed transaction leaves the old records in
	// place and their timers must keep running.
	for i := range existing {
		if existing[i].NotificationID != nil {
			s.notifier.Cancel(*existing[i].NotificationID)
		}
	}

	return s.lifecycle.RescheduleAll()
}
