package handler

import (
	"log"
	"net/http"

	"notehub-server/internal/middleware"
	"notehub-server/internal/websocket"
	"notehub-server/pkg/jwt"
	"notehub-server/pkg/response"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	manager   *websocket.Manager
	jwtSecret string
	upgrader  ws.Upgrader
}

func NewWebSocketHandler(manager *websocket.Manager, jwtSecret string, readBufferSize, writeBufferSize int) *WebSocketHandler {
	return &WebSocketHandler{
		manager:   manager,
		jwtSecret: jwtSecret,
		upgrader: ws.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleConnection authenticates the handshake and registers the socket for
// note notifications. Browsers cannot set headers on a websocket handshake, so
// the token is also accepted as a query parameter.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token, _ = middleware.BearerToken(r)
	}

	if token == "" {
		log.Printf("[WebSocket] Missing authorization token")
		response.Unauthorized(w, "Missing authorization token")
		return
	}

	claims, err := jwt.ValidateToken(token, h.jwtSecret)
	if err != nil {
		log.Printf("[WebSocket] Token validation failed: %v", err)
		response.Unauthorized(w, "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WebSocket] Failed to upgrade connection: %v", err)
		return
	}

	log.Printf("[WebSocket] Connection established for user: %s", claims.UserID)

	client := websocket.NewClient(uuid.New().String(), claims.UserID, conn, h.manager)
	if !h.manager.Add(client) {
		log.Printf("[WebSocket] Server shutting down, closing connection for user: %s", claims.UserID)
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
