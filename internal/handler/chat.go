// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/propstack/tenant-chatbot/internal/middleware"
	"github.com/propstack/tenant-chatbot/internal/model"
	"github.com/propstack/tenant-chatbot/internal/service"
	"github.com/propstack/tenant-chatbot/pkg/logger"
)

// ChatHandler handles the chat turn and feedback endpoints.
type ChatHandler struct {
	chat     *service.ChatService
	feedback *service.FeedbackService
	logger   *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chat *service.ChatService, feedback *service.FeedbackService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chat:     chat,
		feedback: feedback,
		logger:   log,
	}
}

// Turn handles POST /api/v1/chat/messages
func (h *ChatHandler) Turn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetTenantID(ctx)

	var req model.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageText(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.chat.HandleTurn(ctx, tenantID, req.ConversationID, req.Message)
	if err != nil {
		h.logger.WithRequest(middleware.GetCorrelationID(ctx), tenantID).
			Error("turn failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Feedback handles POST /api/v1/chat/feedback
func (h *ChatHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetTenantID(ctx)

	var req model.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MessageID <= 0 {
		writeError(w, http.StatusBadRequest, "message_id is required")
		return
	}

	if _, err := h.feedback.Record(ctx, tenantID, req.MessageID, req.Helpful, req.FeedbackText); err != nil {
		h.logger.WithRequest(middleware.GetCorrelationID(ctx), tenantID).
			Error("feedback failed", zap.Int64("message_id", req.MessageID), zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &model.FeedbackResponse{Success: true})
}
