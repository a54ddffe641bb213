package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

// sendWsMessage marshals a message and writes it to the client with a write timeout.
// Failures are logged; the read loop notices a dead connection on its own.
func sendWsMessage(_ context.Context, c *websocket.Conn, message interface{}) {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal websocket message")
		return
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Write(writeCtx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			logrus.WithError(err).Debug("failed to write websocket message")
		}
	}
}

// sendWsError sends a structured error to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, code, errorMsg string) {
	sendWsMessage(ctx, c, map[string]interface{}{
		"type":    "error",
		"code":    code,
		"message": errorMsg,
	})
}
