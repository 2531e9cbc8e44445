package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/propstack/tenant-chatbot/internal/middleware"
	"github.com/propstack/tenant-chatbot/internal/model"
	"github.com/propstack/tenant-chatbot/internal/service"
	"github.com/propstack/tenant-chatbot/pkg/logger"
)

// ConversationHandler handles conversation lifecycle and history endpoints.
type ConversationHandler struct {
	chat   *service.ChatService
	logger *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(chat *service.ChatService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		chat:   chat,
		logger: log,
	}
}

// History handles GET /api/v1/chat/conversations/{id}/messages. Messages
// come back in chronological order so a widget can replay them directly.
func (h *ConversationHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetTenantID(ctx)

	conversationID, err := middleware.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	messages, err := h.chat.History(ctx, tenantID, conversationID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := &model.HistoryResponse{
		ConversationID: conversationID,
		Messages:       make([]model.HistoryMessage, 0, len(messages)),
	}
	// The ledger returns most recent first; replay oldest first.
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		resp.Messages = append(resp.Messages, model.HistoryMessage{
			ID:     msg.ID,
			Text:   msg.Text,
			Sender: msg.Sender,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// End handles POST /api/v1/chat/conversations/{id}/end
func (h *ConversationHandler) End(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetTenantID(ctx)

	conversationID, err := middleware.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.EndConversationRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if err := middleware.ValidateSummary(req.Summary); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.chat.EndConversation(ctx, tenantID, conversationID, req.Summary)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conv)
}
