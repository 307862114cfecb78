package catalog_test

import (
	"net/http"
	"strconv"
	"testing"

	"kiosko-backend/internal/database"
	"kiosko-backend/internal/models"
	"kiosko-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productPath(id uint) string {
	return "/api/products/" + strconv.FormatUint(uint64(id), 10)
}

type productListEnvelope struct {
	Count    int `json:"count"`
	Products []struct {
		ID       uint    `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Category string  `json:"category"`
		IsActive bool    `json:"isActive"`
	} `json:"products"`
}

func TestProductCRUD(t *testing.T) {
	app := testutil.SetupApp(t)
	company := testutil.CreateCompany(t, "BK-001")
	_, adminToken := testutil.CreateUser(t, company.ID, "admin", models.RoleAdmin)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/products", adminToken, map[string]interface{}{
		"name":        "Sombrilla",
		"description": "Sombrilla grande",
		"price":       10000,
		"category":    "RENTAL",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Product struct {
			ID uint `json:"id"`
		} `json:"product"`
	}
	testutil.DecodeBody(t, resp, &created)

	// Precio inválido
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/products", adminToken, map[string]interface{}{
		"name": "Gratis", "price": 0, "category": "RENTAL",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Categoría inválida
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/products", adminToken, map[string]interface{}{
		"name": "Raro", "price": 100, "category": "OTRA",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Actualización parcial
	resp = testutil.DoJSON(t, app, http.MethodPut, productPath(created.Product.ID), adminToken, map[string]interface{}{
		"price": 12000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p models.Product
	require.NoError(t, database.DB.First(&p, created.Product.ID).Error)
	assert.Equal(t, 12000.0, p.Price)
	assert.Equal(t, "Sombrilla", p.Name)
}

func TestProductSoftDelete(t *testing.T) {
	app := testutil.SetupApp(t)
	company := testutil.CreateCompany(t, "BK-001")
	_, adminToken := testutil.CreateUser(t, company.ID, "admin", models.RoleAdmin)
	p := testutil.CreateProduct(t, company.ID, "Helado", 2500, models.CategoryVendor)

	resp := testutil.DoJSON(t, app, http.MethodDelete, productPath(p.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// La fila sigue existiendo, solo queda inactiva
	var after models.Product
	require.NoError(t, database.DB.First(&after, p.ID).Error)
	assert.False(t, after.IsActive)
}

func TestProductFilters(t *testing.T) {
	app := testutil.SetupApp(t)
	company := testutil.CreateCompany(t, "BK-001")
	_, token := testutil.CreateUser(t, company.ID, "operator", models.RoleOperator)
	testutil.CreateProduct(t, company.ID, "Silla", 5000, models.CategoryRental)
	helado := testutil.CreateProduct(t, company.ID, "Helado", 2500, models.CategoryVendor)
	inactivo := testutil.CreateProduct(t, company.ID, "Viejo", 1000, models.CategoryVendor)
	require.NoError(t, database.DB.Model(&inactivo).Update("is_active", false).Error)

	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/products?category=VENDOR&isActive=true", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body productListEnvelope
	testutil.DecodeBody(t, resp, &body)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, helado.ID, body.Products[0].ID)
}

func TestProductTenantIsolation(t *testing.T) {
	app := testutil.SetupApp(t)
	companyA := testutil.CreateCompany(t, "BK-001")
	companyB := testutil.CreateCompany(t, "BK-002")
	_, tokenB := testutil.CreateUser(t, companyB.ID, "intruso", models.RoleAdmin)
	p := testutil.CreateProduct(t, companyA.ID, "Silla", 5000, models.CategoryRental)

	// Listar desde otra empresa no lo muestra
	resp := testutil.DoJSON(t, app, http.MethodGet, "/api/products", tokenB, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body productListEnvelope
	testutil.DecodeBody(t, resp, &body)
	assert.Equal(t, 0, body.Count)

	// Y acceder directo responde 404, igual que si no existiera
	resp = testutil.DoJSON(t, app, http.MethodGet, productPath(p.ID), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
