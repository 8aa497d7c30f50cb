package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tradeguard/dashkit/pkg/logger"
)

const heartbeatInterval = 15 * time.Second

// stream pushes collection changes and toast activity to the frontend as
// server-sent events. One comment line goes out periodically to keep proxies
// from reaping the connection.
func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	// Subscriptions come first so nothing published after the headers go
	// out can be missed.
	ctx := r.Context()
	changes := h.store.Subscribe(ctx)
	defer changes.Close()
	toasts := h.store.Toasts().Subscribe(ctx)
	defer toasts.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-changes.Receive(ctx):
			if !ok {
				return
			}
			if err := writeEvent(w, "collection", msg.Data); err != nil {
				h.log.DebugContext(ctx, "stream closed", logger.Error(err))
				return
			}
			flusher.Flush()
		case msg, ok := <-toasts.Receive(ctx):
			if !ok {
				return
			}
			if err := writeEvent(w, "toast", msg.Data); err != nil {
				h.log.DebugContext(ctx, "stream closed", logger.Error(err))
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
