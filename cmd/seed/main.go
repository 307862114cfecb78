package main

import (
	"kiosko-backend/internal/config"
	"kiosko-backend/internal/database"
	"kiosko-backend/internal/models"
	"kiosko-backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Carga datos de demostración: una empresa, un admin, un operador y el catálogo
// básico de playa. Borra todo lo anterior, solo para ambientes de desarrollo.
func main() {
	log := logger.Must(logger.New())
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuración inválida", zap.Error(err))
	}

	if err := database.Init(cfg, log); err != nil {
		log.Fatal("no se pudo inicializar la base de datos", zap.Error(err))
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Limpiar en orden de dependencias
		for _, m := range []interface{}{
			&models.VendorSaleItem{},
			&models.VendorSale{},
			&models.InventoryAssignment{},
			&models.Vendor{},
			&models.RentalModification{},
			&models.RentalItem{},
			&models.Rental{},
			&models.Product{},
			&models.User{},
			&models.Company{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}

		company := models.Company{
			Code:     "BK-001",
			Name:     "Kiosko Playa Reñaca",
			Location: "Reñaca, Viña del Mar, Chile",
		}
		if err := tx.Create(&company).Error; err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		users := []models.User{
			{CompanyID: company.ID, Username: "admin", PasswordHash: string(hash), FullName: "Juan Pérez (Admin)", Role: models.RoleAdmin, IsActive: true},
			{CompanyID: company.ID, Username: "operator", PasswordHash: string(hash), FullName: "María González (Operador)", Role: models.RoleOperator, IsActive: true},
		}
		if err := tx.Create(&users).Error; err != nil {
			return err
		}

		products := []models.Product{
			{CompanyID: company.ID, Name: "Silla de Playa", Price: 5000, Category: models.CategoryRental, IsActive: true},
			{CompanyID: company.ID, Name: "Sombrilla", Price: 10000, Category: models.CategoryRental, IsActive: true},
			{CompanyID: company.ID, Name: "Carpa Familiar", Price: 20000, Category: models.CategoryRental, IsActive: true},
			{CompanyID: company.ID, Name: "Tabla Bodyboard", Price: 8000, Category: models.CategoryRental, IsActive: true},
			{CompanyID: company.ID, Name: "Helado Artesanal", Price: 2500, Category: models.CategoryVendor, IsActive: true},
			{CompanyID: company.ID, Name: "Bebida Fría", Price: 1500, Category: models.CategoryVendor, IsActive: true},
			{CompanyID: company.ID, Name: "Empanada", Price: 2000, Category: models.CategoryVendor, IsActive: true},
			{CompanyID: company.ID, Name: "Palmera de Coco", Price: 3000, Category: models.CategoryVendor, IsActive: true},
		}
		if err := tx.Create(&products).Error; err != nil {
			return err
		}

		vendors := []models.Vendor{
			{CompanyID: company.ID, Name: "Pedro Soto", Phone: "+56 9 1111 1111", Status: models.VendorInactive},
			{CompanyID: company.ID, Name: "Carla Díaz", Phone: "+56 9 2222 2222", Status: models.VendorInactive},
		}
		return tx.Create(&vendors).Error
	})
	if err != nil {
		log.Fatal("el seed falló", zap.Error(err))
	}

	log.Info("seed completado", zap.String("empresa", "BK-001"), zap.String("credenciales", "admin/demo123, operator/demo123"))
}
