package chat

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatService "github.com/yuchenzhao/minutemate/internal/service/chat"
	sessionService "github.com/yuchenzhao/minutemate/internal/service/session"
)

// WebSocketHandler 提供基于WebSocket的多轮问答通道
type WebSocketHandler struct {
	chatSvc  *chatService.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(chatSvc *chatService.Service) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/chat/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Message string `json:"message"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Content   string `json:"content,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// handleWebSocket 处理WebSocket连接上的问答循环
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened for session=%s", sessionID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] read error for session=%s: %v", sessionID, err)
			}
			return
		}

		if inbound.Message == "" {
			h.writeMessage(conn, sessionID, outgoingMessage{Type: "error", Content: "message is required"})
			continue
		}

		answer, err := h.chatSvc.Chat(r.Context(), sessionID, inbound.Message)
		if err != nil {
			h.writeMessage(conn, sessionID, outgoingMessage{Type: "error", Content: chatErrorText(err)})
			if errors.Is(err, sessionService.ErrSessionNotFound) {
				return
			}
			continue
		}

		h.writeMessage(conn, sessionID, outgoingMessage{Type: "answer", Content: answer})
	}
}

func (h *WebSocketHandler) writeMessage(conn *websocket.Conn, sessionID string, msg outgoingMessage) {
	msg.SessionID = sessionID
	msg.Timestamp = time.Now().UnixMilli()
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[ws] write error for session=%s: %v", sessionID, err)
	}
}

func chatErrorText(err error) string {
	switch {
	case errors.Is(err, sessionService.ErrSessionNotFound):
		return "session not found, upload a transcript first"
	case errors.Is(err, chatService.ErrUpstream):
		return "model call failed, try again"
	default:
		return err.Error()
	}
}
