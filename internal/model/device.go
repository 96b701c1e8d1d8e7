package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Device represents the single paired phone. The app is strictly
// single-user: one device row, created at first run, holding the PIN
// hash the pairing endpoint checks before issuing a token.
type Device struct {
	BaseModel
	Name     string     `gorm:"type:varchar(255)" json:"name"`
	PINHash  string     `gorm:"type:varchar(255);not null" json:"-"`
	PairedAt *time.Time `json:"paired_at,omitempty"`
}

// SetPIN hashes and sets the pairing PIN.
func (d *Device) SetPIN(pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	d.PINHash = string(hash)
	return nil
}

// CheckPIN verifies a pairing attempt against the stored hash.
func (d *Device) CheckPIN(pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(d.PINHash), []byte(pin)) == nil
}
