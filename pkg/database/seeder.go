package database

import (
	"encoding/json"
	"os"

	"gorm.io/gorm"

	"invoice-app/internal/logger"
	"invoice-app/internal/models"
)

// SeedInvoices bulk-loads a JSON fixture of invoices into the store. Records
// whose id already exists are left untouched, so reseeding is safe.
func SeedInvoices(db *gorm.DB, path string) error {
	log := logger.WithComponent("seeder")

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var invoices []models.Invoice
	if err := json.Unmarshal(data, &invoices); err != nil {
		return err
	}

	seeded := 0
	for _, inv := range invoices {
		var count int64
		if err := db.Model(&models.Invoice{}).Where("id = ?", inv.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&inv).Error; err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID).Msg("Failed to seed invoice")
			continue
		}
		seeded++
	}

	log.Info().Int("seeded", seeded).Int("fixture_records", len(invoices)).Msg("Invoice seeding completed")
	return nil
}
