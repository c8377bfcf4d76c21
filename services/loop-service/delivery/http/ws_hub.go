package http

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"loop/pkg/jwt"
	"loop/pkg/logger"
	"loop/services/loop-service/domain/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

// ChatEvent is what subscribers receive for each appended chat message
type ChatEvent struct {
	ChatID     int64         `json:"chatId"`
	ClientID   int64         `json:"clientId"`
	ClientName string        `json:"clientName"`
	Message    model.Message `json:"message"`
}

// ClientResolver finds the client profile linked to a user
type ClientResolver func(ctx context.Context, userID int64) (clientID int64, ok bool)

type subscriber struct {
	hub      *ChatHub
	conn     *websocket.Conn
	send     chan []byte
	admin    bool
	clientID int64
}

func (s *subscriber) wants(event ChatEvent) bool {
	return s.admin || s.clientID == event.ClientID
}

// ChatHub pushes chat messages to websocket subscribers. Admins see every chat, clients
// only their own.
type ChatHub struct {
	subscribers map[*subscriber]struct{}
	events      chan ChatEvent
	register    chan *subscriber
	unregister  chan *subscriber
	done        chan struct{}

	jwtClient jwt.JWTClient
	clientOf  ClientResolver
	upgrader  websocket.Upgrader
	logger    logger.LoggerInterface
}

// NewChatHub creates a hub; Run must be started before subscribers are served.
// Browser handshakes must come from one of allowedOrigins ("*" allows any).
func NewChatHub(jwtClient jwt.JWTClient, clientOf ClientResolver, allowedOrigins []string, appLogger logger.LoggerInterface) *ChatHub {
	return &ChatHub{
		subscribers: make(map[*subscriber]struct{}),
		events:      make(chan ChatEvent, 256),
		register:    make(chan *subscriber),
		unregister:  make(chan *subscriber),
		done:        make(chan struct{}),
		jwtClient:   jwtClient,
		clientOf:    clientOf,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originAllowed(allowedOrigins),
		},
		logger: appLogger,
	}
}

// originAllowed checks the Origin header of a handshake. CORS does not apply to websockets,
// so the hub checks it itself. Clients without an Origin header are not browsers and are
// left to the token check.
func originAllowed(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}
		return slices.ContainsFunc(allowed, func(o string) bool {
			return strings.EqualFold(strings.TrimSuffix(o, "/"), origin)
		})
	}
}

// Run dispatches events until ctx is cancelled, then disconnects every subscriber
func (h *ChatHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for s := range h.subscribers {
				close(s.send)
				delete(h.subscribers, s)
			}
			return
		case s := <-h.register:
			h.subscribers[s] = struct{}{}
			h.logger.Info("Chat subscriber connected", "admin", s.admin, "client_id", s.clientID)
		case s := <-h.unregister:
			if _, ok := h.subscribers[s]; ok {
				delete(h.subscribers, s)
				close(s.send)
				h.logger.Info("Chat subscriber disconnected", "admin", s.admin, "client_id", s.clientID)
			}
		case event := <-h.events:
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("Failed to encode chat event", "chat_id", event.ChatID, "error", err)
				continue
			}
			for s := range h.subscribers {
				if !s.wants(event) {
					continue
				}
				select {
				case s.send <- payload:
				default:
					// slow consumer
					close(s.send)
					delete(h.subscribers, s)
				}
			}
		}
	}
}

// NotifyMessage queues message for delivery. It never blocks; events are dropped when the
// queue is full or the hub has stopped.
func (h *ChatHub) NotifyMessage(chat model.Chat, message model.Message) {
	event := ChatEvent{ChatID: chat.ID, ClientID: chat.ClientID, ClientName: chat.ClientName, Message: message}
	select {
	case <-h.done:
	case h.events <- event:
	default:
		h.logger.Warn("Chat event dropped", "chat_id", chat.ID)
	}
}

// ServeWS upgrades an authenticated request to a websocket subscription. Browsers cannot
// set headers on websocket requests, so the access token comes in the token query param.
func (h *ChatHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		h.logger.WarnContext(ctx, "Websocket rejected: missing token")
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := h.jwtClient.ValidateAccessToken(token)
	if err != nil {
		h.logger.WarnContext(ctx, "Websocket rejected: invalid token", "error", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	s := &subscriber{hub: h, send: make(chan []byte, sendBufferSize)}
	switch model.Role(claims.Role) {
	case model.RoleAdmin:
		s.admin = true
	case model.RoleClient:
		clientID, ok := h.clientOf(ctx, claims.UserID)
		if !ok {
			http.Error(w, "client profile not found", http.StatusForbidden)
			return
		}
		s.clientID = clientID
	default:
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	// registered before the handshake completes so no event sent after it is missed
	select {
	case h.register <- s:
	case <-h.done:
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "Websocket upgrade failed", "error", err)
		s.leave()
		return
	}
	s.conn = conn

	go s.writePump()
	go s.readPump()
}

func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *subscriber) leave() {
	select {
	case s.hub.unregister <- s:
	case <-s.hub.done:
	}
}

// readPump only drains control frames; subscribers post messages through the REST API
func (s *subscriber) readPump() {
	defer func() {
		s.leave()
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(512)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.hub.logger.Warn("Websocket closed unexpectedly", "error", err)
			}
			return
		}
	}
}
