package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatwire/chatwire/internal/messaging"
	"github.com/chatwire/chatwire/internal/middleware"
)

// MessageHandler exposes the message operations over HTTP. Delivery to
// connected peers happens asynchronously via the fanout consumer; these
// handlers only persist and publish.
type MessageHandler struct {
	messages *messaging.Service
}

func NewMessageHandler(messages *messaging.Service) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send handles POST /api/messages/send/:receiverId. The receiver id is a
// user id for direct messages or a group id when isGroup is set.
func (h *MessageHandler) Send(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	senderID := middleware.CallerID(c)
	receiverID := c.Param("receiverId")

	if req.IsGroup {
		msg, err := h.messages.SendGroup(c.Request().Context(), senderID, receiverID, req.Text)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, msg)
	}

	msg, err := h.messages.SendDirect(c.Request().Context(), senderID, receiverID, req.Text)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// Delete handles DELETE /api/messages/:messageId. Only the sender may
// delete a message.
func (h *MessageHandler) Delete(c echo.Context) error {
	callerID := middleware.CallerID(c)
	messageID := c.Param("messageId")

	if err := h.messages.Delete(c.Request().Context(), callerID, messageID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
