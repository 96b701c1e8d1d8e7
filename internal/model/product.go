package model

import (
	"github.com/google/uuid"
)

// Product is a registered perishable item being watched for expiry.
type Product struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`

	// Barcode (EAN) is deliberately not unique: buying the same product
	// again creates a new record, and the history is what barcode prefill
	// draws from.
	Barcode string `gorm:"type:varchar(64);index" json:"barcode,omitempty"`

	// ExpiryDate keeps the exact DD/MM/YYYY text the user entered.
	// It is a calendar date, never a timestamp.
	ExpiryDate string `gorm:"type:varchar(10);not null" json:"expiry_date" validate:"required,br_date"`

	// ExpiryISO mirrors ExpiryDate as YYYY-MM-DD for sorting and range
	// queries; empty when ExpiryDate cannot be parsed. Maintained by the
	// service on every write, never user supplied.
	ExpiryISO string `gorm:"type:varchar(10);index" json:"-"`

	// PhotoPath points at an image file owned by the photo store. The
	// database only carries the reference, never image bytes.
	PhotoPath string `gorm:"type:varchar(512)" json:"photo_path,omitempty"`

	Quantity int `gorm:"default:1" json:"quantity" validate:"omitempty,min=1"`

	// Archived records are hidden from the active list but kept for the
	// retention window so an accidental removal can be restored.
	Archived bool `gorm:"default:false;index" json:"archived"`

	// NotificationID is the handle of the scheduled reminder, if any.
	// Replacing or deleting the product must cancel it first.
	NotificationID *uuid.UUID `gorm:"type:uuid" json:"notification_id,omitempty"`
}
