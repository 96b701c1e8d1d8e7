package repository

import (
	"validade-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeviceRepository interface {
	Get() (*model.Device, error)
	FindByID(id uuid.UUID) (*model.Device, error)
	Create(device *model.Device) error
	Update(device *model.Device) error
}

type deviceRepo struct {
	db *gorm.DB
}

func NewDeviceRepo(db *gorm.DB) DeviceRepository {
	return &deviceRepo{db}
}

// Get returns the single paired device row.
func (r *deviceRepo) Get() (*model.Device, error) {
	var device model.Device
	err := r.db.First(&device).Error
	return &device, err
}

func (r *deviceRepo) FindByID(id uuid.UUID) (*model.Device, error) {
	var device model.Device
	err := r.db.First(&device, "id = ?", id).Error
	return &device, err
}

func (r *deviceRepo) Create(device *model.Device) error {
	return r.db.Create(device).Error
}

func (r *deviceRepo) Update(device *model.Device) error {
	return r.db.Save(device).Error
}
