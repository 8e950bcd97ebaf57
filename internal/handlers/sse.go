package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/requestdata"
	"github.com/hackly/garage-backend/internal/sse"
)

// SSEHandler owns the per-user stream registry. A reconnect replaces the
// previous stream so a user never holds two connections.
type SSEHandler struct {
	log *logger.Logger
	hub *sse.SSEHub

	mu      sync.RWMutex
	clients map[string]*sse.SSEClient // key: user id
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{
		log:     log.With("handler", "SSEHandler"),
		hub:     hub,
		clients: make(map[string]*sse.SSEClient),
	}
}

func (h *SSEHandler) SSEStream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	h.log.Info("SSE stream open", "user_id", rd.UserID)

	h.mu.Lock()
	if existing, ok := h.clients[rd.UserID]; ok {
		h.hub.CloseClient(existing)
		delete(h.clients, rd.UserID)
	}
	client := h.hub.NewSSEClient(rd.UserID)
	h.clients[rd.UserID] = client
	h.mu.Unlock()

	// Everyone watches the shared boards by default; evaluation channels are
	// opted into per request.
	h.hub.AddChannel(client, sse.ChannelPrompts)
	h.hub.AddChannel(client, sse.ChannelArchive)
	h.hub.AddChannel(client, sse.ChannelLeaderboard)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	if h.clients[rd.UserID] == client {
		delete(h.clients, rd.UserID)
	}
	h.mu.Unlock()
	h.hub.CloseClient(client)
}

func (h *SSEHandler) SSESubscribe(c *gin.Context) {
	client, ok := h.activeClient(c)
	if !ok {
		return
	}
	var req struct {
		Channel string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		RespondError(c, http.StatusBadRequest, "invalid_channel", err)
		return
	}
	h.hub.AddChannel(client, req.Channel)
	RespondOK(c, gin.H{"message": "subscribed", "channel": req.Channel})
}

func (h *SSEHandler) SSEUnsubscribe(c *gin.Context) {
	client, ok := h.activeClient(c)
	if !ok {
		return
	}
	var req struct {
		Channel string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		RespondError(c, http.StatusBadRequest, "invalid_channel", err)
		return
	}
	h.hub.RemoveChannel(client, req.Channel)
	RespondOK(c, gin.H{"message": "unsubscribed", "channel": req.Channel})
}

func (h *SSEHandler) activeClient(c *gin.Context) (*sse.SSEClient, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return nil, false
	}
	h.mu.RLock()
	client, exists := h.clients[rd.UserID]
	h.mu.RUnlock()
	if !exists {
		RespondError(c, http.StatusConflict, "no_active_stream", nil)
		return nil, false
	}
	return client, true
}
