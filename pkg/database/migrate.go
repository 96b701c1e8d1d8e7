package database

import (
	"fmt"
	"log"
	"time"

	"validade-backend/internal/model"

	"gorm.io/gorm"
)

// SchemaMigration records which migration steps have been applied.
type SchemaMigration struct {
	Version   int    `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255)"`
	AppliedAt time.Time
}

type migration struct {
	version int
	name    string
	run     func(tx *gorm.DB) error
}

// Ordered, idempotent migration steps. Column presence is checked by
// inspection via the Migrator, never by running an ALTER and swallowing
// the duplicate-column error. Earlier shapes of the products table (name
// and expiry date only) are upgraded in place; nothing is ever dropped.
var migrations = []migration{
	{
		version: 1,
		name:    "create core tables",
		run: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&model.Product{}, &model.Settings{}, &model.Device{})
		},
	},
	{
		version: 2,
		name:    "add barcode, photo, quantity, archived, notification columns",
		run: func(tx *gorm.DB) error {
			m := tx.Migrator()
			for _, col := range []string{"barcode", "photo_path", "quantity", "archived", "notification_id"} {
				if m.HasColumn(&model.Product{}, col) {
					continue
				}
				if err := m.AddColumn(&model.Product{}, col); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		version: 3,
		name:    "add sortable expiry_iso column",
		run: func(tx *gorm.DB) error {
			m := tx.Migrator()
			if !m.HasColumn(&model.Product{}, "expiry_iso") {
				if err := m.AddColumn(&model.Product{}, "expiry_iso"); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

// Migrate brings the schema up to date, applying each pending step in
// its own transaction and recording it in schema_migrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var applied int64
		if err := db.Model(&SchemaMigration{}).Where("version = ?", m.version).Count(&applied).Error; err != nil {
			return err
		}
		if applied > 0 {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.run(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: m.version, Name: m.name, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		log.Printf("Applied migration %d: %s", m.version, m.name)
	}

	return nil
}
