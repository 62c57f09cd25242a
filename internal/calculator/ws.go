package calculator

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"go-chi-calculator/internal/observability"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The keypad is served from other origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Stream handles GET /calculator/sessions/{id}/ws. After the upgrade the
// server sends the current display, then answers every {"key": ...} frame
// with the display that key produced. Frames are applied in arrival order.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	ctx := observability.ContextWithSessionID(r.Context(), sess.ID)
	logger := observability.LoggerWithTrace(ctx)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	detach := sess.Attach()
	defer detach()

	logger.Info("keypad stream opened")

	snap := sess.Snapshot()
	if err := conn.WriteJSON(DisplayMessage{Display: snap.Display, State: snap.State, Error: snap.Error}); err != nil {
		logger.Warn("writing initial display failed", zap.Error(err))
		return
	}

	for {
		var msg KeyMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("keypad stream closed unexpectedly", zap.Error(err))
			}
			break
		}

		steps, _ := h.press(ctx, sess, []string{msg.Key})
		step := steps[0]

		if err := conn.WriteJSON(DisplayMessage{Display: step.Display, State: step.State, Error: step.Error}); err != nil {
			logger.Warn("writing display failed", zap.Error(err))
			break
		}
	}

	logger.Info("keypad stream closed")
}
