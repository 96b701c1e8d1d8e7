package repository

import (
	"validade-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sort orders for the active list: the shelf view wants soonest-expiring
// first, the history view wants newest entries first.
const (
	SortByExpiry = "expiry"
	SortByRecent = "recent"
)

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByBarcode(barcode string) (*model.Product, error)
	ListActive(sort string) ([]model.Product, error)
	ListArchived() ([]model.Product, error)
	ListAll() ([]model.Product, error)
	ListExpiredBefore(cutoffISO string) ([]model.Product, error)
	ArchiveMany(ids []uuid.UUID) error
	SetArchived(id uuid.UUID, archived bool) error
	Delete(id uuid.UUID) error
	ReplaceAll(products []model.Product, settings *model.Settings) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	return &product, err
}

// FindByBarcode returns the most recent record carrying the barcode,
// archived or not: the purchase history is exactly what prefill wants.
func (r *productRepo) FindByBarcode(barcode string) (*model.Product, error) {
	var product model.Product
	err := r.db.Where("barcode = ?", barcode).Order("created_at desc").First(&product).Error
	return &product, err
}

func (r *productRepo) ListActive(sort string) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Where("archived = ?", false)
	switch sort {
	case SortByRecent:
		q = q.Order("created_at desc")
	default:
		// Unparseable dates have an empty expiry_iso; keep them at the
		// bottom instead of letting them float above real dates.
		q = q.Order("expiry_iso = ''").Order("expiry_iso asc")
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) ListArchived() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("archived = ?", true).Order("updated_at desc").Find(&products).Error
	return products, err
}

func (r *productRepo) ListAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("created_at asc").Find(&products).Error
	return products, err
}

// ListExpiredBefore returns every record, archived or not, whose expiry
// day predates the cutoff. Records without a parseable date never match.
func (r *productRepo) ListExpiredBefore(cutoffISO string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("expiry_iso <> '' AND expiry_iso < ?", cutoffISO).Find(&products).Error
	return products, err
}

func (r *productRepo) ArchiveMany(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&model.Product{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"archived": true, "notification_id": nil}).Error
}

func (r *productRepo) SetArchived(id uuid.UUID, archived bool) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Update("archived", archived).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

// ReplaceAll swaps the entire dataset for the imported one inside a
// single transaction. The caller validates the payload first; by the
// time we are here the only remaining failure mode is the store itself,
// and the transaction guarantees the old data survives it.
func (r *productRepo) ReplaceAll(products []model.Product, settings *model.Settings) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Product{}).Error; err != nil {
			return err
		}
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
		}
		if settings != nil {
			settings.ID = model.SettingsID
			if err := tx.Save(settings).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
