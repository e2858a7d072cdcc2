package postHandler

import (
	contextPkg "SmileApp/pkg/context"
	"SmileApp/pkg/log"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
	"time"
)

const (
	writeTimeout = 10 * time.Second

	// Clients only send control frames and close messages on this socket.
	feedReadLimit = 4096
)

// handleFeedWebSocket pushes the full ordered feed on connect and again after
// every change until the client goes away. Only this goroutine writes to c.
func (h *PostsHandler) handleFeedWebSocket(c *websocket.Conn) {
	requestID, _ := c.Locals(contextPkg.RequestIDHeader).(string)
	ctx, cancel := context.WithCancel(contextPkg.WithRequestID(context.Background(), requestID))
	defer cancel()

	fields := log.Fields{"request_id": requestID}
	h.log.WithFields(fields).Info("Feed WebSocket client connected")
	defer h.log.WithFields(fields).Info("Feed WebSocket client disconnected")

	changes, closeSub, err := h.postsService.SubscribeFeed(ctx)
	if err != nil {
		_ = h.writeJSON(c, map[string]string{"error": err.Error()})
		return
	}
	defer func() {
		if err := closeSub(); err != nil {
			h.log.WithFields(fields).Warnf("Error closing feed subscription: %v", err)
		}
	}()

	c.SetReadLimit(feedReadLimit)

	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.WithFields(fields).Warnf("Feed WebSocket error: %v", err)
				}
				return
			}
		}
	}()

	if err := h.sendFeed(ctx, c); err != nil {
		return
	}

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			if err := h.sendFeed(ctx, c); err != nil {
				return
			}
		case <-ping.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (h *PostsHandler) sendFeed(ctx context.Context, c *websocket.Conn) error {
	feed, err := h.postsService.GetFeed(ctx)
	if err != nil {
		return h.writeJSON(c, map[string]string{"error": err.Error()})
	}
	return h.writeJSON(c, feed)
}

func (h *PostsHandler) writeJSON(c *websocket.Conn, v interface{}) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if err := c.WriteJSON(v); err != nil {
		h.log.Errorf("Error writing feed: %v", err)
		return err
	}
	return c.SetWriteDeadline(time.Time{})
}
