package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/garnizeh/missiondeck/internal/mission"
	"github.com/garnizeh/missiondeck/pkg/models"
)

type MissionsHandler struct {
	svc *mission.Service
}

func NewMissionsHandler(svc *mission.Service) *MissionsHandler {
	return &MissionsHandler{svc: svc}
}

// missionView is a mission plus its derived timer fields as of the response.
type missionView struct {
	models.Mission
	ElapsedSeconds int64              `json:"elapsed_seconds"`
	Elapsed        string             `json:"elapsed"`
	TimerState     mission.TimerState `json:"timer_state"`
}

func newMissionView(m *models.Mission, now time.Time) missionView {
	secs := mission.ElapsedSeconds(m, now)
	return missionView{
		Mission:        *m,
		ElapsedSeconds: secs,
		Elapsed:        mission.FormatDuration(secs),
		TimerState:     mission.StateOf(m.Timer),
	}
}

type listMissionsResponse struct {
	Total int           `json:"total"`
	Items []missionView `json:"items"`
}

type listErrorLogsResponse struct {
	Total int               `json:"total"`
	Items []models.ErrorLog `json:"items"`
}

type createMissionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type addErrorLogRequest struct {
	Message string `json:"message"`
}

func (h *MissionsHandler) CreateMission(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var req createMissionRequest
	if !decodeBody(w, r, createMissionSchema, &req) {
		return
	}

	m, err := h.svc.Create(r.Context(), req.Title, req.Description, owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, newMissionView(m, h.svc.Now()), http.StatusCreated)
}

func (h *MissionsHandler) ListMissions(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	f, err := mission.ParseFilter(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	ms, err := h.svc.List(r.Context(), owner, f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := h.svc.Now()
	items := make([]missionView, 0, len(ms))
	for i := range ms {
		items = append(items, newMissionView(&ms[i], now))
	}
	writeJSON(w, listMissionsResponse{Total: len(items), Items: items}, http.StatusOK)
}

func (h *MissionsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	sum, err := h.svc.Summary(r.Context(), owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, sum, http.StatusOK)
}

func (h *MissionsHandler) GetMission(w http.ResponseWriter, r *http.Request) {
	h.respondMission(w, r, h.svc.Get)
}

func (h *MissionsHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	h.respondMission(w, r, h.svc.ToggleStatus)
}

func (h *MissionsHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	h.respondMission(w, r, h.svc.StartTimer)
}

func (h *MissionsHandler) StopTimer(w http.ResponseWriter, r *http.Request) {
	h.respondMission(w, r, h.svc.StopTimer)
}

func (h *MissionsHandler) DeleteMission(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"], owner); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MissionsHandler) AddErrorLog(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var req addErrorLogRequest
	if !decodeBody(w, r, errorLogSchema, &req) {
		return
	}

	l, err := h.svc.AddErrorLog(r.Context(), mux.Vars(r)["id"], owner, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, l, http.StatusCreated)
}

func (h *MissionsHandler) ListErrorLogs(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	logs, err := h.svc.ListErrorLogs(r.Context(), mux.Vars(r)["id"], owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, listErrorLogsResponse{Total: len(logs), Items: logs}, http.StatusOK)
}

type missionOp func(ctx context.Context, id, ownerID string) (*models.Mission, error)

func (h *MissionsHandler) respondMission(w http.ResponseWriter, r *http.Request, op missionOp) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	m, err := op(r.Context(), mux.Vars(r)["id"], owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, newMissionView(m, h.svc.Now()), http.StatusOK)
}

func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return owner, ok
}

// writeError maps mission error kinds to status codes. Store failures are
// logged with their cause; the response never includes it.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, mission.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, mission.ErrNotFound):
		http.Error(w, "Mission not found", http.StatusNotFound)
	case errors.Is(err, mission.ErrInvalidState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		logger.Error("mission request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
