package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/pekmah/fua-laundry-api/models"
	"github.com/pekmah/fua-laundry-api/utils"
	"gorm.io/gorm"
)

// WhatsApp Cloud API template names, must match the templates approved
// for the sender account.
const (
	TemplateOrderCreated   = "laundry_order"
	TemplateOrderCompleted = "laundry_order_complete"
	TemplateOrderCollected = "laundry_order_collected"
	TemplateOrderImage     = "laundry_order_image"
)

// WhatsAppConfig holds the Meta messaging configuration
type WhatsAppConfig struct {
	BaseURL  string
	Version  string
	SenderID string
	APIKey   string
}

// WhatsAppService sends templated customer notifications through the
// WhatsApp Cloud API. It never calls back into the order workflow.
type WhatsAppService struct {
	config     *WhatsAppConfig
	httpClient *http.Client
}

var (
	whatsappService *WhatsAppService
	whatsappOnce    sync.Once
)

// GetWhatsAppService returns the shared instance configured from the
// environment.
func GetWhatsAppService() *WhatsAppService {
	whatsappOnce.Do(func() {
		baseURL := os.Getenv("META_API_URL")
		if baseURL == "" {
			baseURL = "https://graph.facebook.com"
		}
		version := os.Getenv("META_API_VERSION")
		if version == "" {
			version = "v17.0"
		}

		whatsappService = NewWhatsAppService(&WhatsAppConfig{
			BaseURL:  baseURL,
			Version:  version,
			SenderID: os.Getenv("META_SENDER_ID"),
			APIKey:   os.Getenv("META_API_KEY"),
		})
	})
	return whatsappService
}

// NewWhatsAppService builds a service around an explicit configuration.
func NewWhatsAppService(config *WhatsAppConfig) *WhatsAppService {
	return &WhatsAppService{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WhatsAppError is a structured provider failure. The body is kept for
// server logs only and must not be echoed to API clients.
type WhatsAppError struct {
	StatusCode int
	Body       string
}

func (e *WhatsAppError) Error() string {
	return fmt.Sprintf("whatsapp api error: status %d", e.StatusCode)
}

type messageStatus struct {
	ID            string `json:"id"`
	MessageStatus string `json:"message_status"`
}

type contact struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

// MessageResponse is the provider's reply to a successful send.
type MessageResponse struct {
	MessagingProduct string          `json:"messaging_product"`
	Contacts         []contact       `json:"contacts"`
	Messages         []messageStatus `json:"messages"`
}

// DeliveryStatus returns the provider-reported status of the first
// message, defaulting to "accepted" when the field is omitted.
func (r *MessageResponse) DeliveryStatus() string {
	if len(r.Messages) > 0 && r.Messages[0].MessageStatus != "" {
		return r.Messages[0].MessageStatus
	}
	return "accepted"
}

// MessageID returns the provider-assigned id of the first message.
func (r *MessageResponse) MessageID() string {
	if len(r.Messages) > 0 {
		return r.Messages[0].ID
	}
	return ""
}

type textParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type component struct {
	Type       string          `json:"type"`
	SubType    string          `json:"sub_type,omitempty"`
	Index      *int            `json:"index,omitempty"`
	Parameters []textParameter `json:"parameters"`
}

func textParam(value string) textParameter {
	return textParameter{Type: "text", Text: value}
}

func (ws *WhatsAppService) messagesURL() string {
	return fmt.Sprintf("%s/%s/%s/messages", ws.config.BaseURL, ws.config.Version, ws.config.SenderID)
}

func (ws *WhatsAppService) send(payload interface{}) (*MessageResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, ws.messagesURL(), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ws.config.APIKey)

	resp, err := ws.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &WhatsAppError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var result MessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (ws *WhatsAppService) sendTemplate(recipientPhone, templateName string, components []component) (*MessageResponse, error) {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                recipientPhone,
		"type":              "template",
		"template": map[string]interface{}{
			"name":       templateName,
			"language":   map[string]string{"code": "en"},
			"components": components,
		},
	}
	return ws.send(payload)
}

// OrderCreatedParams fills the order-created template body.
type OrderCreatedParams struct {
	CustomerName string
	OrderNumber  string
	PickupDate   string
	TotalAmount  string
}

// SendOrderCreated notifies the customer that their order was received.
func (ws *WhatsAppService) SendOrderCreated(recipientPhone string, params OrderCreatedParams) (*MessageResponse, error) {
	buttonIndex := 0
	components := []component{
		{
			Type: "body",
			Parameters: []textParameter{
				textParam(params.CustomerName),
				textParam(params.OrderNumber),
				textParam(params.PickupDate),
				textParam(params.TotalAmount),
			},
		},
		{
			Type:    "button",
			SubType: "url",
			Index:   &buttonIndex,
			Parameters: []textParameter{
				textParam("track-package"),
			},
		},
	}
	return ws.sendTemplate(recipientPhone, TemplateOrderCreated, components)
}

// OrderStageParams fills the completed/collected template bodies.
type OrderStageParams struct {
	CustomerName string
	OrderNumber  string
	Date         string
}

func (ws *WhatsAppService) sendStageTemplate(recipientPhone, templateName string, params OrderStageParams) (*MessageResponse, error) {
	components := []component{
		{
			Type: "body",
			Parameters: []textParameter{
				textParam(params.CustomerName),
				textParam(params.OrderNumber),
				textParam(params.Date),
			},
		},
	}
	return ws.sendTemplate(recipientPhone, templateName, components)
}

// SendOrderCompleted notifies the customer that their laundry is ready.
func (ws *WhatsAppService) SendOrderCompleted(recipientPhone string, params OrderStageParams) (*MessageResponse, error) {
	return ws.sendStageTemplate(recipientPhone, TemplateOrderCompleted, params)
}

// SendOrderCollected confirms the customer picked the laundry up.
func (ws *WhatsAppService) SendOrderCollected(recipientPhone string, params OrderStageParams) (*MessageResponse, error) {
	return ws.sendStageTemplate(recipientPhone, TemplateOrderCollected, params)
}

// SendOrderImage delivers one already-hosted order photo.
func (ws *WhatsAppService) SendOrderImage(recipientPhone, imageURL string) (*MessageResponse, error) {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                recipientPhone,
		"type":              "image",
		"image":             map[string]string{"link": imageURL},
	}
	return ws.send(payload)
}

// RecordMessage persists one Message row per send attempt so deliveries
// stay auditable whatever the provider did. It never returns an error
// to the workflow; persistence problems are only logged.
func RecordMessage(db *gorm.DB, orderID uint, templateName, recipient, payload string, resp *MessageResponse, sendErr error) {
	msg := models.Message{
		OrderID:      orderID,
		Recipient:    recipient,
		TemplateName: templateName,
		Payload:      payload,
	}

	if sendErr != nil {
		msg.Status = "failed"
		if waErr, ok := sendErr.(*WhatsAppError); ok {
			utils.ErrorLogger.Printf("whatsapp send failed for order %d: status %d body %s",
				orderID, waErr.StatusCode, waErr.Body)
		} else {
			utils.ErrorLogger.Printf("whatsapp send failed for order %d: %v", orderID, sendErr)
		}
	} else {
		msg.Status = resp.DeliveryStatus()
		msg.WhatsappID = resp.MessageID()
	}

	if err := db.Create(&msg).Error; err != nil {
		utils.ErrorLogger.Printf("failed to record message for order %d: %v", orderID, err)
	}
}
