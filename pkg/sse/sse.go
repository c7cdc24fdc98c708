// Package sse streams the admin live feed as Server-Sent Events, for clients
// that cannot hold a websocket open (proxies, curl, EventSource).
//
//	r.Get("/admin/events", "admin.events", sse.Handler(hub).ServeHTTP)
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// KeepAlive is the interval between heartbeat comments.
var KeepAlive = 25 * time.Second

// Source hands out frame subscriptions. *ws.Hub implements it.
type Source interface {
	Subscribe() (<-chan []byte, func())
}

// Stream is one open event-stream response.
type Stream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// New sets the event-stream headers and flushes them. It fails when no
// writer in the middleware chain can flush.
func New(w http.ResponseWriter) (*Stream, error) {
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		return nil, fmt.Errorf("sse: flush: %w", err)
	}
	return &Stream{w: w, rc: rc}, nil
}

// Send writes a named event with a JSON payload.
func (s *Stream) Send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	return s.write("event: %s\ndata: %s\n\n", event, payload)
}

// SendRaw writes an unnamed event whose data is already encoded.
func (s *Stream) SendRaw(data []byte) error {
	return s.write("data: %s\n\n", data)
}

// Comment writes a comment line, which clients ignore.
func (s *Stream) Comment(msg string) error {
	return s.write(": %s\n\n", msg)
}

func (s *Stream) write(format string, args ...any) error {
	if _, err := fmt.Fprintf(s.w, format, args...); err != nil {
		return err
	}
	return s.rc.Flush()
}

// frame mirrors ws.Frame so each event keeps its name on the wire.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Handler relays every frame published on src until the client goes away.
func Handler(src Source) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stream, err := New(w)
		if err != nil {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		frames, cancel := src.Subscribe()
		defer cancel()

		tick := time.NewTicker(KeepAlive)
		defer tick.Stop()

		log := logger.WithCtx(r.Context())
		for {
			select {
			case <-r.Context().Done():
				return
			case <-tick.C:
				if err := stream.Comment("ping"); err != nil {
					return
				}
			case raw, ok := <-frames:
				if !ok {
					return
				}
				var f frame
				if err := json.Unmarshal(raw, &f); err != nil || f.Event == "" {
					err = stream.SendRaw(raw)
				} else {
					err = stream.write("event: %s\ndata: %s\n\n", f.Event, f.Data)
				}
				if err != nil {
					log.Debug("sse: client gone", "error", err)
					return
				}
			}
		}
	})
}
