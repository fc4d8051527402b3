package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/utils"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// ProjectReader authorizes a user to watch a project's board.
type ProjectReader interface {
	AuthorizeRead(ctx context.Context, projectID, userID string) (*models.Project, error)
}

type RefreshMessage struct {
	Type      string `json:"type"`
	Reason    string `json:"reason,omitempty"`
	ProjectID string `json:"projectId"`
}

type wsClient struct {
	conn   *websocket.Conn
	userID string
	send   chan RefreshMessage

	mu     sync.Mutex
	closed bool
}

// trySend queues msg without blocking. It reports false when the buffer is full.
func (c *wsClient) trySend(msg RefreshMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return true
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Hub fans board refresh notices out to every socket watching a project.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*wsClient]struct{}

	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHub accepts upgrades from the listed origins, and from clients that send
// no Origin header at all (non-browser tools).
func NewHub(origins []string, log zerolog.Logger) *Hub {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return &Hub{
		clients: make(map[string]map[*wsClient]struct{}),
		log:     log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// BroadcastRefresh queues a refresh frame for every subscriber of projectID.
// Subscribers whose buffer is full are dropped rather than waited on.
func (h *Hub) BroadcastRefresh(projectID, reason string) {
	msg := RefreshMessage{Type: "refresh", Reason: reason, ProjectID: projectID}

	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients[projectID]))
	for c := range h.clients[projectID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.trySend(msg) {
			h.log.Warn().Str("project_id", projectID).Msg("websocket client too slow, dropping")
			h.unregister(projectID, c)
		}
	}
}

// Subscribers reports how many sockets watch projectID.
func (h *Hub) Subscribers(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[projectID])
}

// Disconnect closes every socket userID holds on projectID. Frames already
// queued are flushed before the close frame.
func (h *Hub) Disconnect(projectID, userID string) {
	h.mu.Lock()
	var dropped []*wsClient
	for c := range h.clients[projectID] {
		if c.userID == userID {
			dropped = append(dropped, c)
			delete(h.clients[projectID], c)
		}
	}
	if len(h.clients[projectID]) == 0 {
		delete(h.clients, projectID)
	}
	h.mu.Unlock()

	for _, c := range dropped {
		c.close()
	}
}

// CloseProject closes every socket watching projectID.
func (h *Hub) CloseProject(projectID string) {
	h.mu.Lock()
	clients := h.clients[projectID]
	delete(h.clients, projectID)
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	all := h.clients
	h.clients = make(map[string]map[*wsClient]struct{})
	h.mu.Unlock()

	for _, clients := range all {
		for c := range clients {
			c.close()
		}
	}
}

func (h *Hub) register(projectID string, c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[projectID] == nil {
		h.clients[projectID] = make(map[*wsClient]struct{})
	}
	h.clients[projectID][c] = struct{}{}
}

func (h *Hub) unregister(projectID string, c *wsClient) {
	h.mu.Lock()
	if clients, ok := h.clients[projectID]; ok {
		if _, present := clients[c]; present {
			delete(clients, c)
			if len(clients) == 0 {
				delete(h.clients, projectID)
			}
		}
	}
	h.mu.Unlock()

	c.close()
}

// Serve upgrades the request once the caller is known to be allowed to read
// the project.
func (h *Hub) Serve(projects ProjectReader) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, projectID, err := utils.GetUserAndParam(ctx, "projectId", "Project ID")

		if err != nil {
			utils.RespondError(ctx, h.log, err)
			return
		}

		if _, err := projects.AuthorizeRead(ctx.Request.Context(), projectID, userID); err != nil {
			utils.RespondError(ctx, h.log, err)
			return
		}

		conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			h.log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		c := &wsClient{conn: conn, userID: userID, send: make(chan RefreshMessage, sendBuffer)}
		c.send <- RefreshMessage{Type: "connected", ProjectID: projectID}
		h.register(projectID, c)

		// A removal that committed before register could not see this socket.
		if _, err := projects.AuthorizeRead(ctx.Request.Context(), projectID, userID); err != nil {
			h.unregister(projectID, c)
		}

		go h.writePump(projectID, c)
		h.readPump(projectID, c)
	}
}

// readPump drains client frames so pongs and close frames are processed.
func (h *Hub) readPump(projectID string, c *wsClient) {
	defer h.unregister(projectID, c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("project_id", projectID).Msg("websocket closed")
			}
			return
		}
	}
}

// writePump is the only goroutine that writes to the connection.
func (h *Hub) writePump(projectID string, c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				h.log.Debug().Err(err).Str("project_id", projectID).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
