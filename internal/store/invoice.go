package store

import (
	"errors"
	"fmt"
	"math/rand"

	"gorm.io/gorm"

	"invoice-app/internal/models"
)

var (
	ErrNotFound      = errors.New("invoice not found")
	ErrPaidImmutable = errors.New("paid invoices cannot be edited")
	ErrNotPending    = errors.New("only pending invoices can be marked as paid")
	ErrIDExhausted   = errors.New("could not allocate a unique invoice id")
)

// maxIDAttempts bounds id generation so a pathological collision streak
// surfaces as ErrIDExhausted instead of overwriting an existing record.
const maxIDAttempts = 100

// InvoiceStore persists invoices keyed by their generated 6-character id.
type InvoiceStore struct {
	db *gorm.DB
}

func NewInvoiceStore(db *gorm.DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

// GenerateID produces a fresh invoice id: two random uppercase letters
// followed by four zero-padded digits, retried until it does not collide
// with a stored record. This is the only id-assignment path and runs only
// at creation.
func (s *InvoiceStore) GenerateID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := randomID()
		var count int64
		if err := s.db.Model(&models.Invoice{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

func randomID() string {
	letters := [2]byte{byte('A' + rand.Intn(26)), byte('A' + rand.Intn(26))}
	return fmt.Sprintf("%s%04d", letters[:], rand.Intn(10000))
}

// Create assigns a generated id to the invoice and inserts it.
func (s *InvoiceStore) Create(inv *models.Invoice) error {
	id, err := s.GenerateID()
	if err != nil {
		return err
	}
	inv.ID = id
	return s.db.Create(inv).Error
}

func (s *InvoiceStore) Find(id string) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.db.First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// Update merges the given column changes into the stored invoice and returns
// the refreshed record. Paid invoices are immutable.
func (s *InvoiceStore) Update(id string, changes map[string]any) (*models.Invoice, error) {
	inv, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	if inv.Status == models.StatusPaid {
		return nil, ErrPaidImmutable
	}
	if len(changes) > 0 {
		if err := s.db.Model(inv).Updates(changes).Error; err != nil {
			return nil, err
		}
	}
	return s.Find(id)
}

// Delete removes the invoice regardless of status.
func (s *InvoiceStore) Delete(id string) error {
	res := s.db.Delete(&models.Invoice{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid transitions a pending invoice to paid. This is the only path by
// which an invoice reaches the paid state.
func (s *InvoiceStore) MarkPaid(id string) (*models.Invoice, error) {
	inv, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.StatusPending {
		return nil, ErrNotPending
	}
	if err := s.db.Model(inv).Update("status", models.StatusPaid).Error; err != nil {
		return nil, err
	}
	return s.Find(id)
}

// List returns every invoice, most recently created first.
func (s *InvoiceStore) List() ([]models.Invoice, error) {
	invoices := []models.Invoice{}
	if err := s.db.Order("created_at desc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}
