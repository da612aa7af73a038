package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/aquagate/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "10032026_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Warehouse{}, &models.User{})
			},
		},
		{
			ID: "10032026_create_staging_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.DeliveryChallanStaging{},
					&models.InvoiceStaging{}, &models.TransferOrderStaging{})
			},
		},
		{
			ID: "10032026_create_documents_table",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Document{})
			},
		},
		{
			ID: "12032026_create_gate_movements",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.GateMovement{})
			},
		},
		{
			ID: "18032026_create_sync_runs",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.SyncRun{})
			},
		},
		{
			ID: "22042026_index_movements_vehicle_date",
			Migrate: func(tx *gorm.DB) error {
				// Sequencing validation reads the latest movement per
				// vehicle on every gate entry.
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_gate_movements_vehicle_date
					ON gate_movements (vehicle_no, date DESC, time DESC)`).Error
			},
		},
	})

	return m.Migrate()
}
