package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pekmah/fua-laundry-api/controllers"
	"github.com/pekmah/fua-laundry-api/models"
	"github.com/pekmah/fua-laundry-api/utils"
)

func setupTestDBForCategories(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:categories_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.LaundryCategory{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db.Exec("DELETE FROM laundry_categories")
	return db
}

func setupCategoryRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	categoryCtrl := controllers.NewCategoryController(db)
	router.GET("/laundry/categories", categoryCtrl.GetAllCategories)
	router.POST("/laundry/categories", categoryCtrl.CreateCategory)
	router.GET("/laundry/categories/:cat_id", categoryCtrl.GetCategoryByID)
	router.PATCH("/laundry/categories/:cat_id", categoryCtrl.UpdateCategory)
	router.DELETE("/laundry/categories/:cat_id", categoryCtrl.DeleteCategory)
	return router
}

func TestCategoryCRUD(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCategories(t)
	router := setupCategoryRouter(db)

	payload := map[string]interface{}{
		"name":       "Duvet",
		"unit":       "piece",
		"unit_price": 500.0,
	}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/laundry/categories", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var createResp map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &createResp)
	assert.NoError(t, err)

	data, ok := createResp["data"].(map[string]interface{})
	assert.True(t, ok, "data response must be a map")
	idFloat, ok := data["id"].(float64)
	assert.True(t, ok, "category id must be a number")
	catID := int(idFloat)

	// Duplicate name -> 409
	req, _ = http.NewRequest("POST", "/laundry/categories", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Get by ID
	url := "/laundry/categories/" + strconv.Itoa(catID)
	req, _ = http.NewRequest("GET", url, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Unknown id -> 404
	req, _ = http.NewRequest("GET", "/laundry/categories/9999", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Empty patch -> 422
	req, _ = http.NewRequest("PATCH", url, bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Valid patch
	updateBytes, _ := json.Marshal(map[string]interface{}{
		"unit_price": 650.0,
	})
	req, _ = http.NewRequest("PATCH", url, bytes.NewBuffer(updateBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var category models.LaundryCategory
	assert.NoError(t, db.First(&category, catID).Error)
	assert.Equal(t, 650.0, category.UnitPrice)
	assert.Equal(t, "Duvet", category.Name)

	// Patch on a missing id -> 404
	req, _ = http.NewRequest("PATCH", "/laundry/categories/9999", bytes.NewBuffer(updateBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Delete
	req, _ = http.NewRequest("DELETE", url, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Delete again -> 404
	req, _ = http.NewRequest("DELETE", url, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoryCreateValidation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCategories(t)
	router := setupCategoryRouter(db)

	// Missing unit_price
	payloadBytes, _ := json.Marshal(map[string]interface{}{
		"name": "Blanket",
		"unit": "piece",
	})
	req, _ := http.NewRequest("POST", "/laundry/categories", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
