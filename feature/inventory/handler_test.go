package inventory_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-manager/core/database"
	"inventory-manager/feature/inventory"
	"inventory-manager/feature/inventory/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestApp builds a Fiber app over a fresh in-memory database seeded
// with ward "P", medical 1 and lot "LOT-1".
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive across queries.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Inventory{},
		&models.InventoryRow{},
		&models.Ward{},
		&models.Medical{},
		&models.Lot{},
	))
	require.NoError(t, db.Create(&models.Ward{Code: "P", Name: "Pharmacy"}).Error)
	require.NoError(t, db.Create(&models.Medical{ID: 1, Code: "PARA500", Description: "Paracetamol 500mg"}).Error)
	require.NoError(t, db.Create(&models.Lot{Code: "LOT-1", MedicalID: 1}).Error)

	feature := inventory.NewFeature(db, nil, zap.NewNop())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func createInventory(t *testing.T, app *fiber.App, reference, ward string) int {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/inventories", fiber.Map{"reference": reference, "ward": ward})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return int(body["id"].(float64))
}

func TestCreateAndCancelInventory(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, "POST", "/inventories", fiber.Map{"reference": "INV-1", "ward": "P"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotZero(t, body["id"])
	assert.Equal(t, "draft", body["status"])
	id := int(body["id"].(float64))

	resp, body = doJSON(t, app, "GET", fmt.Sprintf("/inventories/%d", id), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "draft", body["status"])

	resp, body = doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/cancel", id), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "canceled", body["status"])

	resp, body = doJSON(t, app, "GET", fmt.Sprintf("/inventories/%d", id), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "canceled", body["status"])
}

func TestDuplicateReference(t *testing.T) {
	app := setupTestApp(t)

	createInventory(t, app, "INV-1", "P")

	resp, _ := doJSON(t, app, "POST", "/inventories", fiber.Map{"reference": "INV-1", "ward": "P"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, body := doJSON(t, app, "GET", "/inventories/references/INV-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["exists"])

	resp, body = doJSON(t, app, "GET", "/inventories/references/INV-9", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["exists"])
}

func TestRowCountLifecycle(t *testing.T) {
	app := setupTestApp(t)
	id := createInventory(t, app, "INV-1", "P")

	resp, body := doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/rows", id), fiber.Map{
		"medical_id":      1,
		"lot":             "LOT-1",
		"theoretical_qty": 0,
		"real_qty":        0,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	rowID := int(body["id"].(float64))
	assert.Equal(t, "LOT-1", body["lot"])

	resp, body = doJSON(t, app, "PUT", fmt.Sprintf("/inventories/%d/rows/%d", id, rowID), fiber.Map{
		"real_qty": 100.0,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	realQty, err := decimal.NewFromString(fmt.Sprint(body["real_qty"]))
	require.NoError(t, err)
	assert.True(t, realQty.Equal(decimal.NewFromInt(100)))
	discrepancy, err := decimal.NewFromString(fmt.Sprint(body["discrepancy"]))
	require.NoError(t, err)
	assert.True(t, discrepancy.Equal(decimal.NewFromInt(100)))

	// A row is addressed through its own inventory only
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/inventories/%d/rows/%d", id+1, rowID), fiber.Map{
		"real_qty": 1,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/validate", id), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Counts can still be corrected after validation, structure cannot
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/inventories/%d/rows/%d", id, rowID), fiber.Map{
		"real_qty": 99,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/rows", id), fiber.Map{
		"medical_id":      1,
		"theoretical_qty": 0,
		"real_qty":        0,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/cancel", id), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/inventories/%d/rows/%d", id, rowID), fiber.Map{
		"real_qty": 1,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestListByStatusAndWard(t *testing.T) {
	app := setupTestApp(t)

	first := createInventory(t, app, "INV-1", "P")
	second := createInventory(t, app, "INV-2", "P")

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/validate", first), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/cancel", second), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req := httptest.NewRequest("GET", "/inventories?status=validated&ward=P", nil)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var out []models.Inventory
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, first, out[0].ID)
	assert.Equal(t, models.StatusValidated, out[0].Status)
	assert.Equal(t, "P", out[0].WardCode)
}

func TestCascadeDelete(t *testing.T) {
	app := setupTestApp(t)
	id := createInventory(t, app, "INV-1", "P")

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/rows", id), fiber.Map{
		"medical_id":      1,
		"lot":             "LOT-1",
		"theoretical_qty": 10,
		"real_qty":        10,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/inventories/%d", id), nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", fmt.Sprintf("/inventories/%d", id), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", fmt.Sprintf("/inventories/%d/rows", id), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Deleting again is a NotFound failure, not a silent success
	resp, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/inventories/%d", id), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRejections(t *testing.T) {
	app := setupTestApp(t)
	id := createInventory(t, app, "INV-1", "P")

	t.Run("UnknownWard", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/inventories", fiber.Map{"reference": "INV-2", "ward": "X"})
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("NegativeQuantity", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/rows", id), fiber.Map{
			"medical_id":      1,
			"theoretical_qty": 0,
			"real_qty":        -1,
		})
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("DuplicateRow", func(t *testing.T) {
		body := fiber.Map{"medical_id": 1, "lot": "LOT-1", "theoretical_qty": 0, "real_qty": 0}
		resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/rows", id), body)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/rows", id), body)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("ImmutableTheoreticalQty", func(t *testing.T) {
		resp, created := doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/rows", id), fiber.Map{
			"medical_id":      1,
			"theoretical_qty": 5,
			"real_qty":        5,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		rowID := int(created["id"].(float64))

		resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/inventories/%d/rows/%d", id, rowID), fiber.Map{
			"theoretical_qty": 7,
			"real_qty":        5,
		})
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("IllegalTransition", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/cancel", id), nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/validate", id), nil)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("RowOnFrozenInventory", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/inventories/%d/rows", id), fiber.Map{
			"medical_id":      1,
			"theoretical_qty": 0,
			"real_qty":        0,
		})
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})
}

func TestFeatureLoader(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	feature := inventory.NewFeature(db, nil, zap.NewNop())
	assert.Equal(t, "inventory", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NotNil(t, feature.Engine())
}
