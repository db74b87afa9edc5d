package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yuchenzhao/minutemate/internal/analysis/transcript"
	sessionService "github.com/yuchenzhao/minutemate/internal/service/session"
	"github.com/yuchenzhao/minutemate/pkg/utils"
)

// Handler 会话生命周期的HTTP处理器
type Handler struct {
	registry *sessionService.Service
}

// New 创建会话处理器
func New(registry *sessionService.Service) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes 注册会话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/upload", h.handleUpload)
	r.Get("/sessions", h.handleList)
	r.Get("/session/{sessionID}", h.handleGet)
	r.Get("/session/{sessionID}/history", h.handleHistory)
	r.Delete("/session/{sessionID}", h.handleDelete)
	r.Post("/clear-all", h.handleClearAll)
}

// handleUpload 上传会议记录并初始化会话
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Transcript string `json:"transcript"`
		SessionID  string `json:"session_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.registry.Create(r.Context(), payload.Transcript, payload.SessionID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"message":           "transcript uploaded successfully",
		"session_id":        session.ID,
		"transcript_length": len(session.Transcript),
	})
}

// handleList 列出所有活跃会话
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	summaries := h.registry.List(r.Context())

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessions":       summaries,
		"total_sessions": len(summaries),
	})
}

// handleGet 查询单个会话的元数据
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.registry.Get(r.Context(), sessionID)
	if err != nil {
		respondRegistryError(w, err)
		return
	}

	history, err := h.registry.History(r.Context(), sessionID)
	if err != nil {
		respondRegistryError(w, err)
		return
	}

	info := transcript.Analyze(session.Transcript)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"session_id":        session.ID,
		"transcript_length": info.Length,
		"transcript_lines":  info.Lines,
		"participants":      info.Participants,
		"message_count":     len(history),
		"created_at":        session.CreatedAt,
		"last_activity":     session.LastActiveAt,
	})
}

// handleHistory 查询会话的完整消息历史
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	history, err := h.registry.History(r.Context(), sessionID)
	if err != nil {
		respondRegistryError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"session_id":   sessionID,
		"chat_history": history,
	})
}

// handleDelete 删除会话及其记忆
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.registry.Delete(r.Context(), sessionID); err != nil {
		respondRegistryError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "session deleted successfully"})
}

// handleClearAll 清空全部会话，仅用于开发环境重置
func (h *Handler) handleClearAll(w http.ResponseWriter, r *http.Request) {
	dropped := h.registry.ClearAll(r.Context())

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"message":          "all sessions cleared",
		"cleared_sessions": dropped,
	})
}

func respondRegistryError(w http.ResponseWriter, err error) {
	if errors.Is(err, sessionService.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondError(w, http.StatusInternalServerError, err.Error())
}
