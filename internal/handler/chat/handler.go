package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatService "github.com/yuchenzhao/minutemate/internal/service/chat"
	sessionService "github.com/yuchenzhao/minutemate/internal/service/session"
	"github.com/yuchenzhao/minutemate/pkg/utils"
)

// Handler 问答交互的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建问答处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册问答路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

// handleChat 执行一轮基于会议记录的问答
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.SessionID == "" || payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message and session_id are required")
		return
	}

	answer, err := h.chatSvc.Chat(r.Context(), payload.SessionID, payload.Message)
	if err != nil {
		respondChatError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"response":   answer,
		"session_id": payload.SessionID,
	})
}

func respondChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessionService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, "session not found, upload a transcript first")
	case errors.Is(err, chatService.ErrUpstream):
		utils.RespondError(w, http.StatusBadGateway, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
