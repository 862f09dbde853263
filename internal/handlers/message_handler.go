package handlers

import (
	"github.com/gofiber/fiber/v2"

	"marketplace/internal/models"
	"marketplace/internal/services"
)

// MessageHandler handles HTTP requests for buyer messages.
type MessageHandler struct {
	service *services.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{
		service: service,
	}
}

// RegisterRoutes registers the message routes with the Fiber router.
func (h *MessageHandler) RegisterRoutes(router fiber.Router) {
	messageRoutes := router.Group("/messages")
	messageRoutes.Get("/", h.HandleGetMessages)
	messageRoutes.Post("/", h.HandleSendMessage)
}

// HandleGetMessages lists the messages for ?listing_id=, oldest first.
func (h *MessageHandler) HandleGetMessages(c *fiber.Ctx) error {
	messages, err := h.service.ListMessages(c.UserContext(), c.Query("listing_id"))
	if err != nil {
		return respondFailure(c, err, "Failed to fetch messages", "Internal server error")
	}
	return respondSuccess(c, fiber.StatusOK, messages, "Messages retrieved successfully")
}

// HandleSendMessage stores a message from a buyer to a seller.
func (h *MessageHandler) HandleSendMessage(c *fiber.Ctx) error {
	var req models.SendMessageRequest
	if err := parseJSON(c, &req); err != nil {
		return respondError(c, fiber.StatusBadRequest, titleInvalidJSON, detailInvalidJSON)
	}

	message, err := h.service.SendMessage(c.UserContext(), req)
	if err != nil {
		return respondFailure(c, err, "Failed to send message", detailStoreFailed)
	}
	return respondSuccess(c, fiber.StatusCreated, message, "Message sent successfully")
}
