package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pekmah/fua-laundry-api/models"
	"github.com/pekmah/fua-laundry-api/services"
	"github.com/pekmah/fua-laundry-api/utils"
)

// DefaultPageSize bounds the report page when the caller does not ask
// for a specific limit.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Orders are promised for pickup four days after drop-off.
const pickupLeadTime = 4 * 24 * time.Hour

type OrderController struct {
	DB *gorm.DB
	// WA is swappable so tests can point it at a stub server.
	WA      *services.WhatsAppService
	Numbers utils.OrderNumberGenerator
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		DB:      db,
		WA:      services.GetWhatsAppService(),
		Numbers: utils.NewOrderNumberGenerator(),
	}
}

func (oc *OrderController) withRelations() *gorm.DB {
	return oc.DB.
		Preload("LaundryItems.LaundryCategory").
		Preload("Payments").
		Preload("Logs").
		Preload("Images")
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// CreateOrder captures a new order with its items and images in one
// transaction, then notifies the customer best-effort after commit.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type ItemReq struct {
		LaundryCategoryID uint `json:"laundry_category_id" binding:"required"`
		Quantity          int  `json:"quantity" binding:"required,gt=0"`
	}
	type ImageReq struct {
		URL      string `json:"url" binding:"required"`
		PublicID string `json:"public_id" binding:"required"`
	}
	type ReqBody struct {
		CustomerName  string     `json:"customer_name" binding:"required"`
		CustomerPhone string     `json:"customer_phone" binding:"required"`
		TotalAmount   *float64   `json:"total_amount" binding:"required,gte=0"`
		PaymentAmount float64    `json:"payment_amount"`
		LaundryItems  []ItemReq  `json:"laundry_items" binding:"required,min=1,dive"`
		Images        []ImageReq `json:"images" binding:"omitempty,dive"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	phone, err := utils.NormalizePhone(body.CustomerPhone)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order := models.Order{
		OrderNumber:   utils.GenerateOrderNumber(oc.Numbers),
		CustomerName:  body.CustomerName,
		CustomerPhone: phone,
		TotalAmount:   *body.TotalAmount,
		PaymentAmount: body.PaymentAmount,
		Status:        models.OrderCreated,
	}

	// Storage writes are atomic; notification happens after commit and
	// never holds the transaction open.
	txErr := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		log := models.OrderLog{
			OrderID:     order.ID,
			Stage:       models.OrderCreated,
			Description: "Order created",
		}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}

		for _, item := range body.LaundryItems {
			laundryItem := models.LaundryItem{
				OrderID:           order.ID,
				LaundryCategoryID: item.LaundryCategoryID,
				Quantity:          item.Quantity,
			}
			if err := tx.Create(&laundryItem).Error; err != nil {
				return err
			}
		}

		for _, img := range body.Images {
			image := models.OrderImage{
				OrderID:  order.ID,
				URL:      img.URL,
				PublicID: img.PublicID,
			}
			if err := tx.Create(&image).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		if isDuplicateKeyError(txErr) {
			utils.RespondError(c, http.StatusConflict, errors.New("order number already in use, please retry"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, txErr)
		return
	}

	imageURLs := make([]string, 0, len(body.Images))
	for _, img := range body.Images {
		imageURLs = append(imageURLs, img.URL)
	}
	oc.notifyOrderCreated(&order, imageURLs)

	var created models.Order
	if err := oc.withRelations().First(&created, order.ID).Error; err != nil {
		// The order is committed; the caller must treat this response
		// as authoritative even without the expanded relations.
		utils.ErrorLogger.Printf("failed to reload order %s: %v", order.OrderNumber, err)
		utils.RespondJSON(c, http.StatusCreated, "Order created, details unavailable", order)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", created)
}

func (oc *OrderController) notifyOrderCreated(order *models.Order, imageURLs []string) {
	params := services.OrderCreatedParams{
		CustomerName: order.CustomerName,
		OrderNumber:  order.OrderNumber,
		PickupDate:   time.Now().Add(pickupLeadTime).Format("02/01/2006"),
		TotalAmount:  utils.FormatCurrency(order.TotalAmount),
	}

	payload, _ := json.Marshal(params)
	resp, err := oc.WA.SendOrderCreated(order.CustomerPhone, params)
	services.RecordMessage(oc.DB, order.ID, services.TemplateOrderCreated, order.CustomerPhone, string(payload), resp, err)

	for _, url := range imageURLs {
		imgResp, imgErr := oc.WA.SendOrderImage(order.CustomerPhone, url)
		services.RecordMessage(oc.DB, order.ID, services.TemplateOrderImage, order.CustomerPhone, url, imgResp, imgErr)
	}
}

// MakePayment records a payment against the order's derived balance.
// The first payment moves the order to processing; an order whose
// pre-payment balance is already settled rejects further payments.
func (oc *OrderController) MakePayment(c *gin.Context) {
	orderNumber := c.Param("order_number")

	var body struct {
		Amount        *float64 `json:"amount" binding:"required,gt=0"`
		PaymentMethod string   `json:"payment_method" binding:"required"`
		OtherDetails  string   `json:"other_details"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	var order models.Order
	if err := oc.DB.Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	var payment models.Payment

	txErr := oc.DB.Transaction(func(tx *gorm.DB) error {
		var priorCount int64
		if err := tx.Model(&models.Payment{}).
			Where("order_id = ?", order.ID).
			Count(&priorCount).Error; err != nil {
			return err
		}

		var paid float64
		if err := tx.Model(&models.Payment{}).
			Where("order_id = ?", order.ID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&paid).Error; err != nil {
			return err
		}

		// The guard uses the balance as it stood before this payment;
		// an overpayment from a positive balance is accepted unclamped.
		balance := order.TotalAmount - paid
		if balance <= 0 {
			return errAlreadyPaid
		}

		if priorCount == 0 {
			log := models.OrderLog{
				OrderID:     order.ID,
				Stage:       models.OrderProcessing,
				Description: fmt.Sprintf("Payment of %s received, order processing", utils.FormatCurrency(*body.Amount)),
			}
			if err := tx.Create(&log).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Order{}).
				Where("id = ?", order.ID).
				Update("status", models.OrderProcessing).Error; err != nil {
				return err
			}
		}

		payment = models.Payment{
			OrderID:       order.ID,
			Amount:        *body.Amount,
			PaymentMethod: body.PaymentMethod,
			OtherDetails:  body.OtherDetails,
			Balance:       balance,
		}
		return tx.Create(&payment).Error
	})
	if txErr != nil {
		if errors.Is(txErr, errAlreadyPaid) {
			utils.RespondError(c, http.StatusBadRequest, txErr)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, txErr)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment recorded", payment)
}

var errAlreadyPaid = errors.New("order already paid")

// UpdateStatus moves an order to completed or collected, logs the
// transition and notifies the customer.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	orderNumber := c.Param("order_number")

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	status := models.OrderStatus(body.Status)
	if !status.IsUpdatable() {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("status must be %q or %q", models.OrderCompleted, models.OrderCollected))
		return
	}

	var order models.Order
	if err := oc.DB.Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	txErr := oc.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("order_number = ?", orderNumber).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNoRowsUpdated
		}

		log := models.OrderLog{
			OrderID:     order.ID,
			Stage:       status,
			Description: fmt.Sprintf("Order marked %s", status),
		}
		return tx.Create(&log).Error
	})
	if txErr != nil {
		if errors.Is(txErr, errNoRowsUpdated) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("order status was not updated"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, txErr)
		return
	}

	oc.notifyStatusChange(&order, status)

	var updated models.Order
	if err := oc.withRelations().First(&updated, order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", updated)
}

var errNoRowsUpdated = errors.New("no rows updated")

func (oc *OrderController) notifyStatusChange(order *models.Order, status models.OrderStatus) {
	params := services.OrderStageParams{
		CustomerName: order.CustomerName,
		OrderNumber:  order.OrderNumber,
		Date:         time.Now().Format("02/01/2006"),
	}
	payload, _ := json.Marshal(params)

	var (
		resp     *services.MessageResponse
		err      error
		template string
	)
	if status == models.OrderCompleted {
		template = services.TemplateOrderCompleted
		resp, err = oc.WA.SendOrderCompleted(order.CustomerPhone, params)
	} else {
		template = services.TemplateOrderCollected
		resp, err = oc.WA.SendOrderCollected(order.CustomerPhone, params)
	}
	services.RecordMessage(oc.DB, order.ID, template, order.CustomerPhone, string(payload), resp, err)
}

// GetAllOrders -> newest first with all relations
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.withRelations().Order("created_at desc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByNumber -> detail of one order
func (oc *OrderController) GetOrderByNumber(c *gin.Context) {
	orderNumber := c.Param("order_number")

	var order models.Order
	if err := oc.withRelations().Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetLaundryItems lists one order's items with their categories. The
// projection endpoints are addressed by the numeric row id, not the
// order number; the param name only matches the shared route prefix.
func (oc *OrderController) GetLaundryItems(c *gin.Context) {
	idStr := c.Param("order_number")
	id, _ := strconv.Atoi(idStr)

	var items []models.LaundryItem
	if err := oc.DB.Preload("LaundryCategory").
		Where("order_id = ?", id).
		Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order laundry items", items)
}

// GetOrderPayments lists one order's payments, addressed by row id.
func (oc *OrderController) GetOrderPayments(c *gin.Context) {
	idStr := c.Param("order_number")
	id, _ := strconv.Atoi(idStr)

	var payments []models.Payment
	if err := oc.DB.Where("order_id = ?", id).Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order payments", payments)
}

func parseReportDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// GetOrderReport returns one page of orders in a date range together
// with the count and monetary total over the whole filtered set.
func (oc *OrderController) GetOrderReport(c *gin.Context) {
	var from, to time.Time
	var err error

	if v := c.Query("from"); v != "" {
		from, err = parseReportDate(v)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid 'from' date"))
			return
		}
	}
	if v := c.Query("to"); v != "" {
		to, err = parseReportDate(v)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid 'to' date"))
			return
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("'from' date must not be after 'to' date"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("limit must not exceed %d", MaxPageSize))
		return
	}

	// Fresh query per aggregate, gorm chains are not reusable across
	// finishers.
	filtered := func() *gorm.DB {
		q := oc.DB.Model(&models.Order{})
		if !from.IsZero() {
			q = q.Where("created_at >= ?", from)
		}
		if !to.IsZero() {
			q = q.Where("created_at <= ?", to)
		}
		return q
	}

	var totalCount int64
	if err := filtered().Count(&totalCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// The monetary total covers every matching order, not just the page.
	var totalAmount float64
	if err := filtered().Select("COALESCE(SUM(total_amount), 0)").Scan(&totalAmount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var orders []models.Order
	if err := filtered().
		Order("created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(limit)))

	utils.RespondJSON(c, http.StatusOK, "Order report", gin.H{
		"orders":       orders,
		"total_amount": totalAmount,
		"meta": gin.H{
			"page_size":    limit,
			"current_page": page,
			"total_pages":  totalPages,
			"total_count":  totalCount,
		},
	})
}
