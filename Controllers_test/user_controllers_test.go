package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pekmah/fua-laundry-api/controllers"
	"github.com/pekmah/fua-laundry-api/middlewares"
	"github.com/pekmah/fua-laundry-api/models"
	"github.com/pekmah/fua-laundry-api/utils"
)

func setupTestDBForUsers(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:users_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	// Fresh table per run, the shared-cache DB survives between tests
	db.Exec("DELETE FROM users")
	return db
}

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	userCtrl := controllers.NewUserController(db)
	router.POST("/auth/signup", userCtrl.Signup)
	router.POST("/auth/login", userCtrl.Login)

	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	auth.GET("/profile", userCtrl.GetProfile)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, url string, payload interface{}, token string) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignupAndLogin(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	signup := map[string]string{
		"name":     "Test Staff",
		"email":    "staff@fualaundry.com",
		"password": "Secret123",
	}

	w := postJSON(t, router, "/auth/signup", signup, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	// Duplicate email -> conflict
	w = postJSON(t, router, "/auth/signup", signup, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown user -> 404
	w = postJSON(t, router, "/auth/login", map[string]string{
		"email":    "nobody@fualaundry.com",
		"password": "Secret123",
	}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Wrong password -> 401
	w = postJSON(t, router, "/auth/login", map[string]string{
		"email":    "staff@fualaundry.com",
		"password": "WrongPass1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid credentials -> token
	w = postJSON(t, router, "/auth/login", map[string]string{
		"email":    "staff@fualaundry.com",
		"password": "Secret123",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data = resp["data"].(map[string]interface{})
	token := data["token"].(string)
	assert.NotEmpty(t, token)

	// Token grants access to the profile endpoint
	req, _ := http.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// No token -> 401
	req, _ = http.NewRequest("GET", "/profile", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupValidation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	// Missing email
	w := postJSON(t, router, "/auth/signup", map[string]string{
		"name":     "Test Staff",
		"password": "Secret123",
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Short password
	w = postJSON(t, router, "/auth/signup", map[string]string{
		"name":     "Test Staff",
		"email":    "short@fualaundry.com",
		"password": "short",
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
