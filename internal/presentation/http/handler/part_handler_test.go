package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eraycetin/autoparts-api/internal/application/service"
	"github.com/eraycetin/autoparts-api/internal/domain/entity"
	infrarepo "github.com/eraycetin/autoparts-api/internal/infrastructure/repository"
)

var handlerDBCounter int

func newPartRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handlerDBCounter++
	dsn := fmt.Sprintf("file:handler_test_%d?mode=memory&cache=shared", handlerDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Part{}))

	h := NewPartHandler(service.NewInventoryService(infrarepo.NewPartRepository(db), 2))

	router := gin.New()
	parts := router.Group("/api/v1/parts")
	parts.GET("", h.List)
	parts.POST("", h.Create)
	parts.POST("/resolve-new", h.ResolveNew)
	parts.GET("/by-code/:code", h.GetByCode)
	parts.GET("/:id", h.Get)
	parts.GET("/:id/label", h.Label)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func brakePadBody() map[string]any {
	return map[string]any{
		"company":      "Toyota",
		"product_code": "TYT-2023-BRK",
		"part_name":    "Brake Pad",
		"car_model":    "Camry",
		"model_year":   "2023",
		"quantity":     10,
		"buy_price":    25.50,
		"sell_price":   45.99,
	}
}

func TestCreatePartEndpoint(t *testing.T) {
	router := newPartRouter(t)

	w := postJSON(t, router, "/api/v1/parts", brakePadBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID        uint    `json:"id"`
			SellPrice float64 `json:"sell_price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotZero(t, resp.Data.ID)
	assert.InDelta(t, 45.99, resp.Data.SellPrice, 0.001)
}

func TestCreatePartDuplicateFlow(t *testing.T) {
	router := newPartRouter(t)

	w := postJSON(t, router, "/api/v1/parts", brakePadBody())
	require.Equal(t, http.StatusCreated, w.Code)

	// second create with the same code answers 409 with both sides
	w = postJSON(t, router, "/api/v1/parts", brakePadBody())
	require.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Duplicate bool            `json:"duplicate"`
			Existing  json.RawMessage `json:"existing"`
			Candidate json.RawMessage `json:"candidate"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.True(t, resp.Data.Duplicate)
	assert.NotEmpty(t, resp.Data.Existing)
	assert.NotEmpty(t, resp.Data.Candidate)

	// keep-both resolution persists a second part under the same code
	w = postJSON(t, router, "/api/v1/parts/resolve-new", brakePadBody())
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/parts", nil)
	list := httptest.NewRecorder()
	router.ServeHTTP(list, req)
	require.Equal(t, http.StatusOK, list.Code)

	var listResp struct {
		Data struct {
			Items []json.RawMessage `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data.Items, 2)
}

func TestCreatePartValidationEndpoint(t *testing.T) {
	router := newPartRouter(t)

	body := brakePadBody()
	body["buy_price"] = 50.0
	body["sell_price"] = 40.0

	w := postJSON(t, router, "/api/v1/parts", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetPartByCodeEndpoint(t *testing.T) {
	router := newPartRouter(t)

	w := postJSON(t, router, "/api/v1/parts", brakePadBody())
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/parts/by-code/TYT-2023-BRK", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/parts/by-code/NOPE", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPartLabelEndpoint(t *testing.T) {
	router := newPartRouter(t)

	w := postJSON(t, router, "/api/v1/parts", brakePadBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/parts/%d/label", resp.Data.ID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/parts/%d/label?format=text", resp.Data.ID), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "TYT-2023-BRK|Brake Pad|Camry|2023|45.99", rec.Body.String())
}
