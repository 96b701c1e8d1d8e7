package service

import (
	"errors"
	"log"
	"time"

	"validade-backend/internal/model"
	"validade-backend/internal/repository"
	"validade-backend/pkg/jwt"

	"gorm.io/gorm"
)

var ErrInvalidPIN = errors.New("invalid pairing PIN")

// AuthService pairs the single phone with this backend: a PIN check in
// exchange for a bearer token.
type AuthService interface {
	EnsureDevice(defaultPIN string) error
	Pair(pin string) (string, error)
}

type authService struct {
	devices repository.DeviceRepository
}

func NewAuthService(devices repository.DeviceRepository) AuthService {
	return &authService{devices: devices}
}

// EnsureDevice seeds the device row on first run.
func (s *authService) EnsureDevice(defaultPIN string) error {
	_, err := s.devices.Get()
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	device := &model.Device{Name: "primary"}
	if err := device.SetPIN(defaultPIN); err != nil {
		return err
	}
	if err := s.devices.Create(device); err != nil {
		return err
	}
	log.Println("Paired-device row created (default PIN in effect, set DEVICE_PIN to change)")
	return nil
}

func (s *authService) Pair(pin string) (string, error) {
	device, err := s.devices.Get()
	if err != nil {
		return "", err
	}

	if !device.CheckPIN(pin) {
		return "", ErrInvalidPIN
	}

	now := time.Now()
	device.PairedAt = &now
	if err := s.devices.Update(device); err != nil {
		return "", err
	}

	return jwt.GenerateToken(device.ID, device.Name)
}
