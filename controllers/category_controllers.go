package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pekmah/fua-laundry-api/models"
	"github.com/pekmah/fua-laundry-api/utils"
	"gorm.io/gorm"
)

type CategoryController struct {
	DB *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

// GetAllCategories
func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	var categories []models.LaundryCategory
	if err := cc.DB.Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All laundry categories", categories)
}

// CreateCategory rejects duplicate names before touching the table so
// the caller gets a conflict instead of a bare constraint error.
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var body struct {
		Name      string   `json:"name" binding:"required"`
		Unit      string   `json:"unit" binding:"required"`
		UnitPrice *float64 `json:"unit_price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	var existing models.LaundryCategory
	if err := cc.DB.Where("name = ?", body.Name).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("category already exists"))
		return
	}

	category := models.LaundryCategory{
		Name:      body.Name,
		Unit:      body.Unit,
		UnitPrice: *body.UnitPrice,
	}
	if err := cc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// GetCategoryByID
func (cc *CategoryController) GetCategoryByID(c *gin.Context) {
	idStr := c.Param("cat_id")
	id, _ := strconv.Atoi(idStr)

	var category models.LaundryCategory
	if err := cc.DB.First(&category, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category detail", category)
}

// UpdateCategory applies a partial patch. An empty patch is rejected
// rather than silently accepted as a no-op.
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	idStr := c.Param("cat_id")
	id, _ := strconv.Atoi(idStr)

	var body struct {
		Name      *string  `json:"name"`
		Unit      *string  `json:"unit"`
		UnitPrice *float64 `json:"unit_price"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	if body.Name == nil && body.Unit == nil && body.UnitPrice == nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, errors.New("no updates provided"))
		return
	}

	var category models.LaundryCategory
	if err := cc.DB.First(&category, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.Name != nil {
		category.Name = *body.Name
	}
	if body.Unit != nil {
		category.Unit = *body.Unit
	}
	if body.UnitPrice != nil {
		category.UnitPrice = *body.UnitPrice
	}

	if err := cc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	idStr := c.Param("cat_id")
	id, _ := strconv.Atoi(idStr)

	result := cc.DB.Delete(&models.LaundryCategory{}, id)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": id})
}
