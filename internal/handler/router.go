package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/yuchenzhao/minutemate/internal/handler/chat"
	sessionHandler "github.com/yuchenzhao/minutemate/internal/handler/session"
	"github.com/yuchenzhao/minutemate/internal/handler/stream"
	middlewarePkg "github.com/yuchenzhao/minutemate/internal/middleware"
	aiService "github.com/yuchenzhao/minutemate/internal/service/ai"
	chatService "github.com/yuchenzhao/minutemate/internal/service/chat"
	sessionService "github.com/yuchenzhao/minutemate/internal/service/session"
	"github.com/yuchenzhao/minutemate/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(registry *sessionService.Service, chatSvc *chatService.Service, aiSvc *aiService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	sessions := sessionHandler.New(registry)
	chat := chatHandler.New(chatSvc)
	ws := chatHandler.NewWebSocketHandler(chatSvc)

	// Streaming answers need direct access to the model chain.
	var streamHandler *stream.Handler
	if aiSvc != nil {
		streamHandler = stream.New(aiSvc, registry)
	}

	sessions.RegisterRoutes(r)
	chat.RegisterRoutes(r)
	ws.RegisterWebSocketRoutes(r)

	r.Get("/chat/stream/{sessionID}", func(w http.ResponseWriter, req *http.Request) {
		sessionID := chi.URLParam(req, "sessionID")
		userMessage := req.URL.Query().Get("message")

		if streamHandler == nil {
			utils.RespondError(w, http.StatusServiceUnavailable, "streaming unavailable")
			return
		}
		if userMessage == "" {
			utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
			return
		}

		if err := streamHandler.HandleStreamRequest(req.Context(), w, sessionID, userMessage); err != nil {
			log.Printf("[stream] error handling request: %v", err)
		}
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":           "healthy",
			"active_sessions":  registry.Count(req.Context()),
			"model_configured": aiSvc != nil,
		})
	})

	return r
}
