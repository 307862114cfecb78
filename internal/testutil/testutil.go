// Package testutil arma una API completa sobre una base sqlite en memoria para
// los tests de los handlers.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"kiosko-backend/internal/auth"
	"kiosko-backend/internal/config"
	"kiosko-backend/internal/database"
	"kiosko-backend/internal/models"
	"kiosko-backend/internal/server"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const JWTSecret = "secreto-solo-para-tests-0123456789abcdef"

func Config() *config.Config {
	return &config.Config{
		HTTPPort:    "0",
		JWTSecret:   JWTSecret,
		CORSOrigins: "http://localhost:5173",
	}
}

// SetupApp abre una base en memoria, migra los modelos y monta la API real.
func SetupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// una sola conexión para que :memory: no se fragmente entre conexiones del pool
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db

	cfg := Config()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error interno del servidor"})
		},
	})
	server.RegisterRoutes(app, cfg)
	return app
}

func CreateCompany(t *testing.T, code string) models.Company {
	t.Helper()
	company := models.Company{Code: code, Name: "Kiosko " + code, Location: "Playa"}
	require.NoError(t, database.DB.Create(&company).Error)
	return company
}

func CreateUser(t *testing.T, companyID uint, username string, role models.UserRole) (models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		CompanyID:    companyID,
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Test " + username,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	token, err := auth.GenerateToken(JWTSecret, &user)
	require.NoError(t, err)
	return user, token
}

func CreateProduct(t *testing.T, companyID uint, name string, price float64, category models.ProductCategory) models.Product {
	t.Helper()
	product := models.Product{
		CompanyID: companyID,
		Name:      name,
		Price:     price,
		Category:  category,
		IsActive:  true,
	}
	require.NoError(t, database.DB.Create(&product).Error)
	return product
}

func CreateVendor(t *testing.T, companyID uint, name string) models.Vendor {
	t.Helper()
	vendor := models.Vendor{
		CompanyID: companyID,
		Name:      name,
		Status:    models.VendorInactive,
	}
	require.NoError(t, database.DB.Create(&vendor).Error)
	return vendor
}

// DoJSON ejecuta una request contra la app y devuelve la respuesta.
func DoJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func DecodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
