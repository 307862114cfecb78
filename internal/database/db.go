package database

import (
	"kiosko-backend/internal/config"
	"kiosko-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config, log *zap.Logger) error {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := Migrate(db); err != nil {
		return err
	}

	DB = db
	log.Info("conexión a base de datos establecida, migración completa")
	return nil
}

// Migrate corre AutoMigrate sobre todos los modelos. Separado de Init para que
// los tests puedan migrarlo sobre su propia base.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Product{},
		&models.Vendor{},
		&models.InventoryAssignment{},
		&models.VendorSale{},
		&models.VendorSaleItem{},
		&models.Rental{},
		&models.RentalItem{},
		&models.RentalModification{},
	)
}
