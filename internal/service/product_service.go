package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"validade-backend/internal/catalog"
	"validade-backend/internal/expiry"
	"validade-backend/internal/i18n"
	"validade-backend/internal/model"
	"validade-backend/internal/notify"
	"validade-backend/internal/repository"
	"validade-backend/internal/storage"
	"validade-backend/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("product not found")
)

// Broadcaster pushes events to the connected app. The websocket hub
// implements it; tests plug in a recorder.
type Broadcaster interface {
	BroadcastEvent(eventType string, data interface{})
}

// SaveProductRequest is the payload for both create and edit.
type SaveProductRequest struct {
	Name       string `json:"name" validate:"required"`
	Barcode    string `json:"barcode"`
	ExpiryDate string `json:"expiry_date" validate:"required,br_date"`
	PhotoPath  string `json:"photo_path"`
	Quantity   int    `json:"quantity" validate:"omitempty,min=1"`
}

// ProductView is a record plus its computed classification.
type ProductView struct {
	model.Product
	Status   expiry.Status `json:"status"`
	DaysLeft *int          `json:"days_left,omitempty"`
}

// DashboardStats are the counters shown above the list. Archived
// records are excluded entirely.
type DashboardStats struct {
	Total        int `json:"total"`
	Ok           int `json:"ok"`
	ExpiringSoon int `json:"expiring_soon"`
	Expired      int `json:"expired"`
	Unparseable  int `json:"unparseable"`
}

// PrefillSuggestion is what a barcode scan resolves to before the user
// fills in the rest. Source is "history", "catalog" or "new".
type PrefillSuggestion struct {
	Barcode   string `json:"barcode"`
	Name      string `json:"name,omitempty"`
	PhotoPath string `json:"photo_path,omitempty"`
	Source    string `json:"source"`
}

type ProductService interface {
	Create(req SaveProductRequest) (*ProductView, error)
	Update(id uuid.UUID, req SaveProductRequest) (*ProductView, error)
	Delete(id uuid.UUID) error
	ArchiveMany(ids []uuid.UUID) error
	Restore(id uuid.UUID) (*ProductView, error)
	ListActive(sort string) ([]ProductView, error)
	ListArchived() ([]ProductView, error)
	DashboardStats() (*DashboardStats, error)
	Prefill(ctx context.Context, barcode string) (*PrefillSuggestion, error)
	RescheduleAll() error
	RetentionSweep(retentionDays int) (int, error)
}

type productService struct {
	products repository.ProductRepository
	settings repository.SettingsRepository
	notifier notify.Notifier
	photos   *storage.PhotoStore
	catalog  *catalog.Client
	msgs     *i18n.Catalog
	hub      Broadcaster
}

func NewProductService(
	products repository.ProductRepository,
	settings repository.SettingsRepository,
	notifier notify.Notifier,
	photos *storage.PhotoStore,
	catalogClient *catalog.Client,
	msgs *i18n.Catalog,
	hub Broadcaster,
) ProductService {
	return &productService{
		products: products,
		settings: settings,
		notifier: notifier,
		photos:   photos,
		catalog:  catalogClient,
		msgs:     msgs,
		hub:      hub,
	}
}

func (s *productService) Create(req SaveProductRequest) (*ProductView, error) {
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, errs[0].FailedField, errs[0].Tag)
	}

	cfg, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	photoPath, err := s.photos.Promote(req.PhotoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	product := &model.Product{
		Name:       req.Name,
		Barcode:    req.Barcode,
		ExpiryDate: req.ExpiryDate,
		PhotoPath:  photoPath,
		Quantity:   req.Quantity,
	}
	s.refreshDerived(product, cfg)

	if err := s.products.Create(product); err != nil {
		return nil, err
	}

	view := s.view(product, cfg)
	go s.hub.BroadcastEvent("product_created", view)

	// Help the next user of this barcode; never block or fail the save.
	if product.Barcode != "" {
		go func(barcode, name string) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.catalog.Contribute(ctx, barcode, name)
		}(product.Barcode, product.Name)
	}

	return view, nil
}

func (s *productService) Update(id uuid.UUID, req SaveProductRequest) (*ProductView, error) {
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, errs[0].FailedField, errs[0].Tag)
	}

	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	cfg, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	photoPath, err := s.photos.Promote(req.PhotoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if product.PhotoPath != "" && photoPath != product.PhotoPath {
		s.photos.Remove(product.PhotoPath)
	}

	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	// Cancel before rescheduling so no orphaned reminder survives even
	// if the new schedule fails.
	s.cancelReminder(product)

	product.Name = req.Name
	product.Barcode = req.Barcode
	product.ExpiryDate = req.ExpiryDate
	product.PhotoPath = photoPath
	product.Quantity = req.Quantity
	s.refreshDerived(product, cfg)

	if err := s.products.Update(product); err != nil {
		return nil, err
	}

	view := s.view(product, cfg)
	go s.hub.BroadcastEvent("product_updated", view)
	return view, nil
}

func (s *productService) Delete(id uuid.UUID) error {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.cancelReminder(product)
	s.photos.Remove(product.PhotoPath)

	if err := s.products.Delete(id); err != nil {
		return err
	}

	go s.hub.BroadcastEvent("product_deleted", map[string]interface{}{"id": id})
	return nil
}

// ArchiveMany soft-deletes a batch of records. Archived records carry
// no live reminder, so each handle is cancelled before the flag flips.
func (s *productService) ArchiveMany(ids []uuid.UUID) error {
	for _, id := range ids {
		product, err := s.products.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		s.cancelReminder(product)
	}

	if err := s.products.ArchiveMany(ids); err != nil {
		return err
	}

	go s.hub.BroadcastEvent("products_archived", map[string]interface{}{"ids": ids})
	return nil
}

// Restore un-archives a record. Only the archived flag and the reminder
// handle change; name, date, photo and quantity come back exactly as
// they were.
func (s *productService) Restore(id uuid.UUID) (*ProductView, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	cfg, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	product.Archived = false
	s.scheduleReminder(product, cfg)
	if err := s.products.Update(product); err != nil {
		return nil, err
	}

	view := s.view(product, cfg)
	go s.hub.BroadcastEvent("product_restored", view)
	return view, nil
}

func (s *productService) ListActive(sort string) ([]ProductView, error) {
	products, err := s.products.ListActive(sort)
	if err != nil {
		return nil, err
	}
	return s.views(products)
}

func (s *productService) ListArchived() ([]ProductView, error) {
	products, err := s.products.ListArchived()
	if err != nil {
		return nil, err
	}
	return s.views(products)
}

func (s *productService) DashboardStats() (*DashboardStats, error) {
	views, err := s.ListActive(repository.SortByExpiry)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{Total: len(views)}
	for _, v := range views {
		switch v.Status {
		case expiry.StatusOk:
			stats.Ok++
		case expiry.StatusExpiringSoon:
			stats.ExpiringSoon++
		case expiry.StatusExpired:
			stats.Expired++
		case expiry.StatusUnparseable:
			stats.Unparseable++
		}
	}
	return stats, nil
}

// Prefill resolves a scanned barcode: local purchase history first
// (name and photo), then the shared catalog (name only). Both lookups
// are a convenience; any failure degrades to an empty suggestion.
func (s *productService) Prefill(ctx context.Context, barcode string) (*PrefillSuggestion, error) {
	local, err := s.products.FindByBarcode(barcode)
	if err == nil {
		return &PrefillSuggestion{
			Barcode:   barcode,
			Name:      local.Name,
			PhotoPath: local.PhotoPath,
			Source:    "history",
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if entry, _ := s.catalog.Lookup(ctx, barcode); entry != nil {
		return &PrefillSuggestion{Barcode: barcode, Name: entry.Name, Source: "catalog"}, nil
	}

	return &PrefillSuggestion{Barcode: barcode, Source: "new"}, nil
}

// RescheduleAll rebuilds reminder timers for every active record. Runs
// at startup because timers live in process memory only.
func (s *productService) RescheduleAll() error {
	cfg, err := s.settings.Get()
	if err != nil {
		return err
	}

	products, err := s.products.ListActive(repository.SortByExpiry)
	if err != nil {
		return err
	}

	for i := range products {
		p := &products[i]
		s.cancelReminder(p)
		s.scheduleReminder(p, cfg)
		if err := s.products.Update(p); err != nil {
			return err
		}
	}
	return nil
}

// RetentionSweep hard-deletes every record, archived or not, expired
// more than retentionDays days ago. Runs synchronously at startup,
// before the first list is served.
func (s *productService) RetentionSweep(retentionDays int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	cutoffISO := fmt.Sprintf("%04d-%02d-%02d", cutoff.Year(), cutoff.Month(), cutoff.Day())

	stale, err := s.products.ListExpiredBefore(cutoffISO)
	if err != nil {
		return 0, err
	}

	for i := range stale {
		p := &stale[i]
		s.cancelReminder(p)
		s.photos.Remove(p.PhotoPath)
		if err := s.products.Delete(p.ID); err != nil {
			return 0, err
		}
	}

	if len(stale) > 0 {
		log.Printf("Retention sweep removed %d record(s) expired over %d days ago", len(stale), retentionDays)
	}
	return len(stale), nil
}

// refreshDerived recomputes the sortable date and replaces the reminder.
func (s *productService) refreshDerived(p *model.Product, cfg *model.Settings) {
	if d, err := expiry.ParseBRDate(p.ExpiryDate); err == nil {
		p.ExpiryISO = d.ISO()
	} else {
		p.ExpiryISO = ""
	}
	s.scheduleReminder(p, cfg)
}

// scheduleReminder computes the trigger and registers it. A reminder
// that cannot be scheduled (date past, unparseable, scheduler failure)
// leaves the record with no handle; that is never fatal to the save.
func (s *productService) scheduleReminder(p *model.Product, cfg *model.Settings) {
	p.NotificationID = nil

	trigger, ok := expiry.TriggerAt(p.ExpiryDate, cfg.LeadDays, cfg.AlertHour, cfg.AlertMinute, time.Now())
	if !ok {
		return
	}

	id, err := s.notifier.Schedule(
		s.msgs.ReminderTitle(),
		s.msgs.ReminderBody(p.Name, cfg.LeadDays, p.ExpiryDate),
		trigger,
	)
	if err != nil {
		log.Printf("reminder for %q not scheduled: %v", p.Name, err)
		return
	}
	p.NotificationID = &id
}

func (s *productService) cancelReminder(p *model.Product) {
	if p.NotificationID == nil {
		return
	}
	s.notifier.Cancel(*p.NotificationID)
	p.NotificationID = nil
}

func (s *productService) view(p *model.Product, cfg *model.Settings) *ProductView {
	v := &ProductView{
		Product: *p,
		Status:  expiry.Classify(p.ExpiryDate, cfg.LeadDays, time.Now()),
	}
	if d, err := expiry.ParseBRDate(p.ExpiryDate); err == nil {
		days := expiry.DaysUntil(d, time.Now())
		v.DaysLeft = &days
	}
	return v
}

func (s *productService) views(products []model.Product) ([]ProductView, error) {
	cfg, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, *s.view(&products[i], cfg))
	}
	return views, nil
}
