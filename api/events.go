package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/garnizeh/missiondeck/internal/events"
	"github.com/garnizeh/missiondeck/internal/mission"
	"github.com/garnizeh/missiondeck/pkg/models"
)

const (
	eventSnapshot = "mission"
	eventTick     = "tick"

	streamBuffer = 16
)

// EventsHandler streams a mission's change events as Server-Sent Events.
// While the timer runs a tick event is sent every tick interval so displays
// can refresh elapsed time without polling.
type EventsHandler struct {
	svc  *mission.Service
	tick time.Duration
}

func NewEventsHandler(svc *mission.Service, tick time.Duration) *EventsHandler {
	if tick <= 0 {
		tick = time.Second
	}
	return &EventsHandler{svc: svc, tick: tick}
}

type tickPayload struct {
	MissionID      string `json:"mission_id"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	Elapsed        string `json:"elapsed"`
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	id := mux.Vars(r)["id"]

	cur, err := h.svc.Get(ctx, id, owner)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// publishers must never block on a slow reader, so overflow is dropped
	ch := make(chan events.Event, streamBuffer)
	cancel, err := h.svc.Subscribe(ctx, id, owner, func(e events.Event) {
		select {
		case ch <- e:
		default:
			logger.Warn("event stream full, dropping event",
				slog.String("mission_id", e.MissionID),
				slog.String("kind", string(e.Kind)),
			)
		}
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, eventSnapshot, newMissionView(cur, h.svc.Now())); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-ch:
			var payload any
			switch p := e.Payload.(type) {
			case models.Mission:
				cur = &p
				payload = newMissionView(cur, e.At)
			case models.ErrorLog:
				payload = p
			default:
				payload = map[string]string{"mission_id": e.MissionID}
			}
			if err := writeEvent(w, string(e.Kind), payload); err != nil {
				return
			}
			flusher.Flush()
			if e.Kind == events.KindDeleted {
				return
			}
		case <-ticker.C:
			if !cur.Timer.Running() {
				continue
			}
			secs := mission.ElapsedSeconds(cur, h.svc.Now())
			tp := tickPayload{MissionID: cur.ID, ElapsedSeconds: secs, Elapsed: mission.FormatDuration(secs)}
			if err := writeEvent(w, eventTick, tp); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
