package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/transitlink-ussd/internal/services"
	"github.com/Ananth-NQI/transitlink-ussd/internal/utils"
)

// CallbackProcessor produces the response for one aggregator callback
type CallbackProcessor interface {
	ProcessCallback(ctx context.Context, cb services.Callback) (services.Response, error)
}

// USSDHandler handles USSD aggregator callbacks
type USSDHandler struct {
	processor CallbackProcessor
}

// NewUSSDHandler creates a new USSD handler
func NewUSSDHandler(processor CallbackProcessor) *USSDHandler {
	return &USSDHandler{
		processor: processor,
	}
}

// USSDCallbackPayload represents the form-encoded aggregator callback
type USSDCallbackPayload struct {
	SessionID   string `form:"sessionId"`
	ServiceCode string `form:"serviceCode"`
	PhoneNumber string `form:"phoneNumber"`
	Text        string `form:"text"` // cumulative input, "*"-joined
	NetworkCode string `form:"networkCode"`
}

// HandleCallback answers every callback with HTTP 200 and a CON/END body;
// failures are logged and rendered as the unavailable message.
func (h *USSDHandler) HandleCallback(c *fiber.Ctx) error {
	var payload USSDCallbackPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing USSD callback: %v", err)
		return sendUSSD(c, services.UnavailableResponse)
	}

	if payload.SessionID == "" || payload.PhoneNumber == "" {
		log.Printf("⚠️  USSD callback missing sessionId or phoneNumber")
		return sendUSSD(c, services.UnavailableResponse)
	}

	resp, err := h.processor.ProcessCallback(c.UserContext(), services.Callback{
		SessionID:   payload.SessionID,
		ServiceCode: payload.ServiceCode,
		PhoneNumber: payload.PhoneNumber,
		Text:        payload.Text,
		NetworkCode: payload.NetworkCode,
	})
	if err != nil {
		log.Printf("❌ USSD session %s from %s failed: %v", payload.SessionID, utils.MaskPhone(payload.PhoneNumber), err)
		return sendUSSD(c, services.UnavailableResponse)
	}
	return sendUSSD(c, resp)
}

func sendUSSD(c *fiber.Ctx, resp services.Response) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusOK).SendString(resp.String())
}
