package rental_test

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

func rentalPath(id uint, suffix string) string {
	return "/api/rentals/" + strconv.FormatUint(uint64(id), 10) + suffix
}

func itemsTotal(t *testing.T, rentalID uint) float64 {
	t.Helper()
	var total float64
	require.NoError(t, database.DB.Model(&models.RentalItem{}).
		Where("rental_id = ?", rentalID).
		Select("COALESCE(SUM(subtotal), 0)").
		Scan(&total).Error)
	return total
}

func reloadRental(t *testing.T, id uint) models.Rental {
	t.Helper()
	var r models.Rental
	require.NoError(t, database.DB.Preload("Items").First(&r, id).Error)
	return r
}

type rentalEnvelope struct {
	Rental struct {
		ID          uint    `json:"id"`
		ReceiptCode string  `json:"receiptCode"`
		TotalAmount float64 `json:"totalAmount"`
		Status      string  `json:"status"`
	} `json:"rental"`
}

func TestCreateRentalComputesTotal(t *testing.T) {
	app := testutil.SetupApp(t)
	company := testutil.CreateCompany(t, "BK-001")
	_, token := testutil.CreateUser(t, company.ID, "operator", models.RoleOperator)
	silla := testutil.CreateProduct(t, company.ID, "Silla", 5000, models.CategoryRental)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/rentals", token, map[string]interface{}{
		"customerName": "Cliente Uno",
		"items": []map[string]interface{}{
			{"productId": silla.ID, "quantity": 2, "unitPrice": 5000},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body rentalEnvelope
	testutil.DecodeBody(t, resp, &body)
	assert.Equal(t, 10000.0, body.Rental.TotalAmount)
	assert.Equal(t, "ACTIVE", body.Rental.Status)
	assert.NotEmpty(t, body.Rental.ReceiptCode)

	// El total persistido coincide con la suma exacta de los subtotales
	assert.Equal(t, itemsTotal(t, body.Rental.ID), reloadRental(t, body.Rental.ID).TotalAmount)
}

func TestCreateRentalValidations(t *testing.T) {
	app := testutil.SetupApp(t)
	company := testutil.CreateCompany(t, "BK-001")
	_, token := testutil.CreateUser(t, company.ID, "operator", models.RoleOperator)

	// Sin items
	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/rentals", token, map[string]interface{}{
		"customerName": "Cliente",
		"items":        []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Cantidad negativa
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/rentals", token, map[string]interface{}{
		"customerName": "Cliente",
		"items": []map[string]interface{}{
			{"productId": 1, "quantity": -1, "unitPrice": 5000},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	database.DB.Model(&models.Rental{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAddItemsRecomputesTotal(t *testing.T) {
	app := testutil.SetupApp(t)
	company := testutil.CreateCompany(t, "BK-001")
	_, token := testutil.CreateUser(t, company.ID, "operator", models.RoleOperator)
	silla := testutil.CreateProduct(t, company.ID, "Silla", 5000, models.CategoryRental)
	sombrilla := testutil.CreateProduct(t, company.ID, "Sombrilla", 10000, models.CategoryRental)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/rentals", token, map[string]interface{}{
		"customerName": "Cliente",
		"items": []map[string]interface{}{
			{"productId": silla.ID, "quantity": 2, "unitPrice": 5000},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created rentalEnvelope
	testutil.DecodeBody(t, resp, &created)
	require.Equal(t, 10000.0, created.Rental.TotalAmount)

	resp = testutil.DoJSON(t, app, http.MethodPut, rentalPath(created.Rental.ID, "/add-items"), token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"productId": sombrilla.ID, "quantity": 1, "unitPrice": 10000},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated rentalEnvelope
	testutil.DecodeBody(t, resp, &updated)
	assert.Equal(t, 20000.0, updated.Rental.TotalAmount)

	// Quedó registrada la modificación
	var mods []models.RentalModification
	require.NoError(t, database.DB.Where("rental_id = ?", created.Rental.ID).Find(&mods).Error)
	require.Len(t, mods, 1)
	assert.Equal(t, 1, mods[0].ItemsAdded)
	assert.Equal(t, 10000.0, mods[0].PreviousTotal)
	assert.Equal(t, 20000.0, mods[0].NewTotal)
}

func TestModifyRentalAddAndRemove(t *testing.T) {
	app := testutil.SetupApp(t)
	company := testutil.CreateCompany(t, "BK-001")
	_, token := testutil.CreateUser(t, company.ID, "operator", models.RoleOperator)
	silla := testutil.CreateProduct(t, company.ID, "Silla", 5000, models.CategoryRental)
	carpa := testutil.CreateProduct(t, company.ID, "Carpa", 20000, models.CategoryRental)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/rentals", token, map[string]interface{}{
		"customerName": "Cliente",
		"items": []map[string]interface{}{
			{"productId": silla.ID, "quantity": 2, "unitPrice": 5000},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created rentalEnvelope
	testutil.DecodeBody(t, resp, &created)

	r := reloadRental(t, created.Rental.ID)
	require.Len(t, r.Items, 1)
	sillaItemID := r.Items[0].ID

	resp = testutil.DoJSON(t, app, http.MethodPut, rentalPath(r.ID, "/modify"), token, map[string]interface{}{
		"itemsToAdd": []map[string]interface{}{
			{"productId": carpa.ID, "quantity": 1, "unitPrice": 20000},
		},
		"itemsToRemove": []uint{sillaItemID},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	after := reloadRental(t, r.ID)
	require.Len(t, after.Items, 1)
	assert.Equal(t, carpa.ID, after.Items[0].ProductID)
	assert.Equal(t, 20000.0, after.TotalAmount)
	assert.Equal(t, itemsTotal(t, r.ID), after.TotalAmount)

	// Quitar un item ajeno rechaza toda la operación
	resp = testutil.DoJSON(t, app, http.MethodPut, rentalPath(r.ID, "/modify"), token, map[string]interface{}{
		"itemsToRemove": []uint{99999},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 20000.0, reloadRental(t, r.ID).TotalAmount)
}

func TestCloseRentalBlocksMutation(t *testing.T) {
	app := testutil.SetupApp(t)
	company := testutil.CreateCompany(t, "BK-001")
	_, token := testutil.CreateUser(t, company.ID, "operator", models.RoleOperator)
	silla := testutil.CreateProduct(t, company.ID, "Silla", 5000, models.CategoryRental)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/rentals", token, map[string]interface{}{
		"customerName": "Cliente",
		"items": []map[string]interface{}{
			{"productId": silla.ID, "quantity": 1, "unitPrice": 5000},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created rentalEnvelope
	testutil.DecodeBody(t, resp, &created)

	resp = testutil.DoJSON(t, app, http.MethodPost, rentalPath(created.Rental.ID, "/close"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := reloadRental(t, created.Rental.ID)
	assert.Equal(t, models.RentalClosed, r.Status)
	assert.NotNil(t, r.EndTime)

	// Cerrado: agregar items responde como si el arriendo activo no existiera
	resp = testutil.DoJSON(t, app, http.MethodPut, rentalPath(r.ID, "/add-items"), token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"productId": silla.ID, "quantity": 1, "unitPrice": 5000},
		},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Y cerrarlo de nuevo tampoco se puede
	resp = testutil.DoJSON(t, app, http.MethodPost, rentalPath(r.ID, "/close"), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVoidRentalOnlyFromActive(t *testing.T) {
	app := testutil.SetupApp(t)
	company := testutil.CreateCompany(t, "BK-001")
	_, token := testutil.CreateUser(t, company.ID, "operator", models.RoleOperator)
	silla := testutil.CreateProduct(t, company.ID, "Silla", 5000, models.CategoryRental)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/rentals", token, map[string]interface{}{
		"customerName": "Cliente",
		"items": []map[string]interface{}{
			{"productId": silla.ID, "quantity": 1, "unitPrice": 5000},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created rentalEnvelope
	testutil.DecodeBody(t, resp, &created)

	resp = testutil.DoJSON(t, app, http.MethodDelete, rentalPath(created.Rental.ID, ""), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := reloadRental(t, created.Rental.ID)
	assert.Equal(t, models.RentalVoided, r.Status)
	assert.Nil(t, r.EndTime) // anular no define hora de término

	// Un arriendo anulado no se puede anular de nuevo
	resp = testutil.DoJSON(t, app, http.MethodDelete, rentalPath(r.ID, ""), token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRentalStats(t *testing.T) {
	app := testutil.SetupApp(t)
	company := testutil.CreateCompany(t, "BK-001")
	_, token := testutil.CreateUser(t, company.ID, "operator", models.RoleOperator)
	silla := testutil.CreateProduct(t, company.ID, "Silla", 5000, models.CategoryRental)

	mkRental := func() rentalEnvelope {
		resp := testutil.DoJSON(t, app, http.MethodPost, "/api/rentals", token, map[string]interface{}{
			"customerName": "Cliente",
			"items": []map[string]interface{}{
				{"productId": silla.ID, "quantity": 1, "unitPrice": 5000},
			},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var env rentalEnvelope
		testutil.DecodeBody(t, resp, &env)
		return env
	}

	first := mkRental()
	mkRental() // queda activo

	resp := testutil.DoJSON(t, app, http.MethodPost, rentalPath(first.Rental.ID, "/close"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/rentals/stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Stats struct {
			ActiveRentals int     `json:"activeRentals"`
			TodayRentals  int     `json:"todayRentals"`
			TodayRevenue  float64 `json:"todayRevenue"`
		} `json:"stats"`
	}
	testutil.DecodeBody(t, resp, &body)
	assert.Equal(t, 1, body.Stats.ActiveRentals)
	assert.Equal(t, 2, body.Stats.TodayRentals)
	assert.Equal(t, 5000.0, body.Stats.TodayRevenue)
}

func TestRentalCrossTenantIsNotFound(t *testing.T) {
	app := testutil.SetupApp(t)
	companyA := testutil.CreateCompany(t, "BK-001")
	companyB := testutil.CreateCompany(t, "BK-002")
	_, tokenA := testutil.CreateUser(t, companyA.ID, "dueno", models.RoleOperator)
	_, tokenB := testutil.CreateUser(t, companyB.ID, "intruso", models.RoleOperator)
	silla := testutil.CreateProduct(t, companyA.ID, "Silla", 5000, models.CategoryRental)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/rentals", tokenA, map[string]interface{}{
		"customerName": "Cliente",
		"items": []map[string]interface{}{
			{"productId": silla.ID, "quantity": 1, "unitPrice": 5000},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created rentalEnvelope
	testutil.DecodeBody(t, resp, &created)

	resp = testutil.DoJSON(t, app, http.MethodGet, rentalPath(created.Rental.ID, ""), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
