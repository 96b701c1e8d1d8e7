package repository

import (
	"errors"

	"validade-backend/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	Get() (*model.Settings, error)
	Update(settings *model.Settings) error
}

type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db}
}

// Get returns the configuration row, creating the defaults when none
// exists yet. There is never zero and never more than one.
func (r *settingsRepo) Get() (*model.Settings, error) {
	var settings model.Settings
	err := r.db.First(&settings, "id = ?", model.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = model.DefaultSettings()
		if err := r.db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepo) Update(settings *model.Settings) error {
	settings.ID = model.SettingsID
	return r.db.Save(settings).Error
}
