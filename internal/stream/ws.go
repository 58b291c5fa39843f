package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// WSHandler upgrades the request to a WebSocket and streams broker events
// as JSON text frames. Clients may scope the stream to one session via the
// ?session_id= query parameter. The connection lives until the client goes
// away or a write fails.
func WSHandler(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("session_id")

		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			slog.Debug("ws upgrade failed", "error", err, "remote", r.RemoteAddr)
			return
		}
		defer conn.Close()

		id, ch := broker.Subscribe()
		defer broker.Unsubscribe(id)

		// The client never sends application data; the reader exists to
		// notice close frames and dead connections.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := wsutil.ReadClientData(conn); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-gone:
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				if filter != "" && evt.SessionID != filter {
					continue
				}
				payload, err := json.Marshal(evt)
				if err != nil {
					slog.Debug("ws event marshal failed", "error", err)
					continue
				}
				if err := wsutil.WriteServerText(conn, payload); err != nil {
					return
				}
			}
		}
	}
}
