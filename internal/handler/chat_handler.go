package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "carpool/internal/errors"
	"carpool/internal/metrics"
	"carpool/internal/service"
)

// ChatHandler serves the messaging pages.
type ChatHandler struct {
	chats        service.ChatService
	metrics      metrics.Recorder
	log          *zap.Logger
	cookieSecure bool
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chats service.ChatService, rec metrics.Recorder, log *zap.Logger, cookieSecure bool) *ChatHandler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatHandler{chats: chats, metrics: rec, log: log, cookieSecure: cookieSecure}
}

// SendMessageRequest is the message form.
type SendMessageRequest struct {
	Body      string `form:"body" json:"body"`
	CarpoolID string `form:"carpoolId" json:"carpoolId"`
}

// chatPage is the data of the conversation template.
type chatPage struct {
	Conversation *service.Conversation
	CarpoolID    string
}

// Inbox lists the latest message of each conversation.
func (h *ChatHandler) Inbox(c echo.Context) error {
	userID, _, ok := sessionUserID(c)
	if !ok {
		return redirectToLogin(c, h.cookieSecure)
	}
	summaries, err := h.chats.Inbox(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	page := newPage(c, "Messages")
	if len(summaries) > 0 {
		page.Data = summaries
	}
	return c.Render(http.StatusOK, "chats", page)
}

// Show renders the conversation with the user in the path.
func (h *ChatHandler) Show(c echo.Context) error {
	return h.renderConversation(c, "", c.QueryParam("carpoolId"))
}

// Send posts a message to the user in the path.
func (h *ChatHandler) Send(c echo.Context) error {
	userID, _, ok := sessionUserID(c)
	if !ok {
		return redirectToLogin(c, h.cookieSecure)
	}
	otherID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found.")
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return h.renderConversation(c, "Could not read your message.", "")
	}

	var carpoolID *uuid.UUID
	if req.CarpoolID != "" {
		id, err := uuid.Parse(req.CarpoolID)
		if err != nil {
			return h.renderConversation(c, "Unknown carpool offer.", "")
		}
		carpoolID = &id
	}

	_, err = h.chats.Send(c.Request().Context(), userID, otherID, req.Body, carpoolID)
	switch {
	case errors.Is(err, apperrors.ErrInvalidMessage):
		return h.renderConversation(c, err.Error(), req.CarpoolID)
	case errors.Is(err, apperrors.ErrCarpoolNotFound):
		return h.renderConversation(c, "Unknown carpool offer.", "")
	case errors.Is(err, apperrors.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found.")
	case err != nil:
		return err
	}

	h.metrics.RecordChatMessage()
	return c.Redirect(http.StatusFound, "/chats/"+otherID.String())
}

func (h *ChatHandler) renderConversation(c echo.Context, flash, carpoolID string) error {
	userID, _, ok := sessionUserID(c)
	if !ok {
		return redirectToLogin(c, h.cookieSecure)
	}
	otherID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found.")
	}
	if _, err := uuid.Parse(carpoolID); err != nil {
		carpoolID = ""
	}

	conversation, err := h.chats.Conversation(c.Request().Context(), userID, otherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found.")
		}
		return err
	}

	page := newPage(c, "Chat with "+conversation.With.Name)
	page.Flash = flash
	page.Data = chatPage{Conversation: conversation, CarpoolID: carpoolID}
	return c.Render(http.StatusOK, "chat", page)
}
