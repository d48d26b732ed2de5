package infra

import (
	"fmt"

	"github.com/Vebses/GeoAdmin-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for all invoicing tables, and ensures the invoice-number sequence exists.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates the schema. Called by NewDatabase.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Company{},
		&model.Partner{},
		&model.Case{},
		&model.CaseAction{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.SendEvent{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	// Invoice numbers come from a dedicated sequence so that concurrent
	// creations never collide. Assigned once, immutable thereafter.
	if err := db.Exec("CREATE SEQUENCE IF NOT EXISTS invoice_number_seq START 1").Error; err != nil {
		return fmt.Errorf("invoice number sequence: %w", err)
	}
	return nil
}
