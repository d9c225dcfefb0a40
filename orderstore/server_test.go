package orderstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/paint-queue/database"
	"github.com/yeremiapane/paint-queue/models"
)

func setupTestStore(t *testing.T) (*gin.Engine, *Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.MigrateStore(db))

	repo := NewRepository(db)
	require.NoError(t, repo.SeedEmployees(DefaultEmployees))

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewRouter(repo, log), repo
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newOrder(id, name string, cat models.Category) models.NewOrder {
	return models.NewOrder{
		TransactionID: id,
		CustomerName:  name,
		ClientContact: "0821234567",
		PaintType:     "Signal Red",
		Category:      cat,
		ColourCode:    models.ColourCodePending,
		PaintQuantity: "5L",
		OrderType:     models.OrderTypeWalkIn,
		CurrentStatus: models.StatusWaiting,
		StartTime:     time.Date(2025, 1, 28, 9, 0, 0, 0, time.UTC),
	}
}

func TestCreateAndListOrders(t *testing.T) {
	r, _ := setupTestStore(t)

	w := doJSON(t, r, http.MethodPost, "/orders", newOrder("28012025-0001", "Jane", models.CategoryNewMix))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.StatusWaiting, created.CurrentStatus)
	assert.Equal(t, models.Unassigned, created.AssignedEmployee)

	w = doJSON(t, r, http.MethodPost, "/orders", newOrder("28012025-0001", "Bob", models.CategoryReorderMix))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/orders", newOrder("2801-1", "Bob", models.CategoryReorderMix))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/orders", newOrder("28012025-0002", "Bob", models.CategoryReorderMix))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, "28012025-0001", orders[0].TransactionID)
	assert.Equal(t, "28012025-0002", orders[1].TransactionID)
}

func TestUpdateOrderPatchRoundTrip(t *testing.T) {
	r, repo := setupTestStore(t)
	w := doJSON(t, r, http.MethodPost, "/orders", newOrder("28012025-0001", "Jane", models.CategoryNewMix))
	require.Equal(t, http.StatusCreated, w.Code)
	before, err := repo.Get("28012025-0001")
	require.NoError(t, err)

	update := models.StatusUpdate{CurrentStatus: models.StatusMixing, AssignedEmployee: "Thabo Nkosi", ColourCode: models.ColourCodePending}
	w = doJSON(t, r, http.MethodPut, "/orders/28012025-0001", update.Patch(models.RoleUser))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	after, err := repo.Get("28012025-0001")
	require.NoError(t, err)
	assert.Equal(t, update.CurrentStatus, after.CurrentStatus)
	assert.Equal(t, update.AssignedEmployee, after.AssignedEmployee)
	assert.Equal(t, update.ColourCode, after.ColourCode)
	assert.Equal(t, before.CustomerName, after.CustomerName)
	assert.Equal(t, before.PaintQuantity, after.PaintQuantity)
	assert.True(t, before.StartTime.Equal(after.StartTime))
}

func TestUpdateOrderGuards(t *testing.T) {
	r, repo := setupTestStore(t)
	order := newOrder("28012025-0001", "Jane", models.CategoryReorderMix).ToOrder()
	order.CurrentStatus = models.StatusReady
	order.ColourCode = "VW-1234"
	_, err := repo.Create(order)
	require.NoError(t, err)

	complete := models.StatusPatch{CurrentStatus: models.StatusComplete, Role: models.RoleUser}
	w := doJSON(t, r, http.MethodPut, "/orders/28012025-0001", complete)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPut, "/orders/28012025-0001", models.StatusPatch{CurrentStatus: models.StatusMixing, Role: models.RoleAdmin})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPut, "/orders/28012025-0404", complete)
	assert.Equal(t, http.StatusNotFound, w.Code)

	complete.Role = models.RoleAdmin
	w = doJSON(t, r, http.MethodPut, "/orders/28012025-0001", complete)
	require.Equal(t, http.StatusOK, w.Code)
	var done models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &done))
	assert.Equal(t, models.StatusComplete, done.CurrentStatus)
	assert.Equal(t, "VW-1234", done.ColourCode)
}

func TestUpdateOrderReadyNeedsColourCode(t *testing.T) {
	r, repo := setupTestStore(t)
	order := newOrder("28012025-0001", "Jane", models.CategoryNewMix).ToOrder()
	order.CurrentStatus = models.StatusSpraying
	_, err := repo.Create(order)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPut, "/orders/28012025-0001", models.StatusPatch{CurrentStatus: models.StatusReady, Role: models.RoleUser})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	code := "VW-1234"
	w = doJSON(t, r, http.MethodPut, "/orders/28012025-0001", models.StatusPatch{CurrentStatus: models.StatusReady, ColourCode: &code, Role: models.RoleUser})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestActiveOrders(t *testing.T) {
	r, repo := setupTestStore(t)
	for i, st := range []models.OrderStatus{models.StatusWaiting, models.StatusReady, models.StatusSpraying, models.StatusComplete} {
		o := newOrder(fmt.Sprintf("28012025-%04d", i+1), "Jane", models.CategoryNewMix).ToOrder()
		o.CurrentStatus = st
		_, err := repo.Create(o)
		require.NoError(t, err)
	}

	w := doJSON(t, r, http.MethodGet, "/orders/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, models.StatusWaiting, orders[0].CurrentStatus)
	assert.Equal(t, models.StatusSpraying, orders[1].CurrentStatus)
}

func TestLookupEmployee(t *testing.T) {
	r, _ := setupTestStore(t)

	w := doJSON(t, r, http.MethodGet, "/employees?code=EMP001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"employee_name":"Thabo Nkosi"}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/employees?code=EMP999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/employees", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckDuplicate(t *testing.T) {
	r, repo := setupTestStore(t)
	_, err := repo.Create(newOrder("28012025-0001", "Jane", models.CategoryNewMix).ToOrder())
	require.NoError(t, err)
	done := newOrder("28012025-0002", "Bob", models.CategoryNewMix).ToOrder()
	done.CurrentStatus = models.StatusComplete
	_, err = repo.Create(done)
	require.NoError(t, err)

	tests := []struct {
		query string
		want  string
	}{
		{"customer_name=Jane&client_contact=0821234567&paint_type=Signal+Red&category=New+Mix", `{"exists":true}`},
		{"customer_name=Jane&client_contact=0821234567&paint_type=Signal+Red&category=Colour+Code", `{"exists":false}`},
		{"customer_name=Bob&client_contact=0821234567&paint_type=Signal+Red&category=New+Mix", `{"exists":false}`},
	}
	for _, tt := range tests {
		w := doJSON(t, r, http.MethodGet, "/orders/check-duplicate?"+tt.query, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, tt.want, w.Body.String(), tt.query)
	}
}

func TestSeedEmployeesIsIdempotent(t *testing.T) {
	_, repo := setupTestStore(t)
	require.NoError(t, repo.SeedEmployees(DefaultEmployees))
	var count int64
	require.NoError(t, repo.DB.Model(&models.Employee{}).Count(&count).Error)
	assert.Equal(t, int64(len(DefaultEmployees)), count)
}
