package handler

import (
	"net/http"

	"gator.dev/studygator/internal/middleware"
	"gator.dev/studygator/internal/modules/message/dto"
	message "gator.dev/studygator/internal/modules/message/service"
	"gator.dev/studygator/pkg/response"
	"github.com/gin-gonic/gin"
)

// Authenticator resolves a raw bearer token to a user id.
type Authenticator interface {
	Authenticate(raw string) (uint, error)
}

type MessageHandler struct {
	service message.Service
	auth    Authenticator
}

func NewMessageHandler(service message.Service, auth Authenticator) *MessageHandler {
	return &MessageHandler{service: service, auth: auth}
}

// SendMessage authenticates with the token in the body, or the bearer header when the
// body has none.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	raw := req.Token
	if raw == "" {
		raw = middleware.BearerToken(c)
	}
	senderID, err := h.auth.Authenticate(raw)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := h.service.SendMessage(c.Request.Context(), senderID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SendMessageResponse{Message: "message sent", ID: id})
}

func (h *MessageHandler) GetMessages(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.service.GetInbox(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *MessageHandler) GetSentMessages(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.service.GetSent(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.DeleteMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	if err := h.service.DeleteMessage(c.Request.Context(), userID, req.MessageID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}
