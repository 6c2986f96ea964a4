// Package mission is the lifecycle controller for missions: it validates
// input, enforces owner scoping and timer transitions, and derives elapsed
// time. It does not log or format errors; transports do.
package mission

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/garnizeh/missiondeck/internal/events"
	"github.com/garnizeh/missiondeck/pkg/models"
	"github.com/garnizeh/missiondeck/pkg/repository"
)

type Service struct {
	missions repository.MissionRepo
	logs     repository.ErrorLogRepo
	swapper  repository.TimerSwapper // nil when the store has no compare-and-swap
	clock    Clock
	ids      IDGenerator
	broker   *events.Broker
}

type Option func(*Service)

func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

func WithIDGenerator(g IDGenerator) Option { return func(s *Service) { s.ids = g } }

func WithBroker(b *events.Broker) Option { return func(s *Service) { s.broker = b } }

// WithoutSwap disables compare-and-swap timer writes even if the store
// supports them.
func WithoutSwap() Option { return func(s *Service) { s.swapper = nil } }

// New builds a Service. If missions also implements repository.TimerSwapper,
// timer transitions are written atomically.
func New(missions repository.MissionRepo, logs repository.ErrorLogRepo, opts ...Option) (*Service, error) {
	if missions == nil {
		return nil, errRepoNil
	}
	if logs == nil {
		return nil, errLogsNil
	}

	s := &Service{
		missions: missions,
		logs:     logs,
		clock:    RealClock{},
		ids:      UUIDGenerator{},
		broker:   events.NewBroker(),
	}
	if sw, ok := missions.(repository.TimerSwapper); ok {
		s.swapper = sw
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Broker exposes the notification registry the service publishes to.
func (s *Service) Broker() *events.Broker { return s.broker }

// Now is the service clock's current time at the precision the stores keep.
func (s *Service) Now() time.Time { return s.clock.Now().UTC().Truncate(time.Millisecond) }

func (s *Service) Create(ctx context.Context, title, description, ownerID string) (*models.Mission, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, validationErr("title is required")
	}
	if description == "" {
		return nil, validationErr("description is required")
	}
	if ownerID == "" {
		return nil, validationErr("owner is required")
	}

	m := &models.Mission{
		ID:          s.ids.New(),
		Title:       title,
		Description: description,
		Status:      models.StatusActive,
		OwnerID:     ownerID,
		CreatedAt:   s.Now(),
	}
	if err := s.missions.InsertMission(ctx, m); err != nil {
		return nil, storeErr("insert mission", err)
	}
	return m, nil
}

// List returns the owner's missions newest first.
func (s *Service) List(ctx context.Context, ownerID string, f Filter) ([]models.Mission, error) {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
	default:
		return nil, validationErr("unknown status filter %q", f)
	}

	all, err := s.missions.FindMissionsByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list missions", err)
	}

	out := make([]models.Mission, 0, len(all))
	for _, m := range all {
		// the owner predicate is re-checked; the store is not trusted for scoping
		if m.OwnerID == ownerID && f.Match(m.Status) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID string) (*models.Mission, error) {
	return s.load(ctx, id, ownerID)
}

// ToggleStatus flips active and completed on every call.
func (s *Service) ToggleStatus(ctx context.Context, id, ownerID string) (*models.Mission, error) {
	m, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	next := ToggledStatus(m.Status)
	if err := s.missions.UpdateMission(ctx, id, models.MissionPatch{Status: &next}); err != nil {
		return nil, updateErr("update status", err)
	}
	m.Status = next

	s.publish(events.KindStatusChanged, id, *m)
	return m, nil
}

// Delete removes the mission together with its error logs.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.load(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.missions.RemoveMission(ctx, id); err != nil {
		return updateErr("remove mission", err)
	}

	s.publish(events.KindDeleted, id, nil)
	return nil
}

// StartTimer begins a new timer. A stopped timer is replaced and its
// duration discarded.
func (s *Service) StartTimer(ctx context.Context, id, ownerID string) (*models.Mission, error) {
	m, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := CanStartTimer(m.Timer).Error(); err != nil {
		return nil, err
	}

	next := StartedTimer(s.Now())
	if err := s.writeTimer(ctx, m, next); err != nil {
		return nil, err
	}
	m.Timer = next

	s.publish(events.KindTimerStarted, id, *m)
	return m, nil
}

// StopTimer freezes the running timer's duration.
func (s *Service) StopTimer(ctx context.Context, id, ownerID string) (*models.Mission, error) {
	m, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := CanStopTimer(m.Timer).Error(); err != nil {
		return nil, err
	}

	next := StoppedTimer(m.Timer, s.Now())
	if err := s.writeTimer(ctx, m, next); err != nil {
		return nil, err
	}
	m.Timer = next

	s.publish(events.KindTimerStopped, id, *m)
	return m, nil
}

// ElapsedSeconds is the pure elapsed-time derivation, exposed on the service
// for callers that hold one.
func (s *Service) ElapsedSeconds(m *models.Mission, now time.Time) int64 {
	return ElapsedSeconds(m, now)
}

func (s *Service) AddErrorLog(ctx context.Context, missionID, ownerID, message string) (*models.ErrorLog, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, validationErr("message is required")
	}
	if _, err := s.load(ctx, missionID, ownerID); err != nil {
		return nil, err
	}

	l := &models.ErrorLog{
		ID:        s.ids.New(),
		MissionID: missionID,
		Message:   message,
		Timestamp: s.Now(),
	}
	if err := s.logs.InsertErrorLog(ctx, l); err != nil {
		return nil, updateErr("insert error log", err)
	}

	s.publish(events.KindErrorLogged, missionID, *l)
	return l, nil
}

// ListErrorLogs returns logs oldest first. Missing, foreign and deleted
// missions all yield an empty list.
func (s *Service) ListErrorLogs(ctx context.Context, missionID, ownerID string) ([]models.ErrorLog, error) {
	if _, err := s.load(ctx, missionID, ownerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []models.ErrorLog{}, nil
		}
		return nil, err
	}

	logs, err := s.logs.FindErrorLogsByMission(ctx, missionID)
	if err != nil {
		return nil, storeErr("list error logs", err)
	}
	if logs == nil {
		logs = []models.ErrorLog{}
	}
	return logs, nil
}

// Subscribe registers fn for every accepted mutation of the mission. The
// caller must invoke the returned cancel func on teardown.
func (s *Service) Subscribe(ctx context.Context, missionID, ownerID string, fn events.Handler) (func(), error) {
	if _, err := s.load(ctx, missionID, ownerID); err != nil {
		return nil, err
	}
	return s.broker.Subscribe(missionID, fn), nil
}

// Summary holds the dashboard counters for one owner.
type Summary struct {
	Total         int `json:"total"`
	Active        int `json:"active"`
	Completed     int `json:"completed"`
	RunningTimers int `json:"running_timers"`
}

func (s *Service) Summary(ctx context.Context, ownerID string) (Summary, error) {
	all, err := s.List(ctx, ownerID, FilterAll)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, m := range all {
		sum.Total++
		if m.Status == models.StatusActive {
			sum.Active++
		} else {
			sum.Completed++
		}
		if m.Timer.Running() {
			sum.RunningTimers++
		}
	}
	return sum, nil
}

// load fetches a mission and hides it unless ownerID owns it.
func (s *Service) load(ctx context.Context, id, ownerID string) (*models.Mission, error) {
	if id == "" || ownerID == "" {
		return nil, ErrNotFound
	}

	m, err := s.missions.FindMissionByID(ctx, id)
	if err != nil {
		return nil, storeErr("find mission", err)
	}
	if m == nil || m.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return m, nil
}

// writeTimer persists next in place of m.Timer. With a swapping store the
// write only lands if nobody changed the timer since m was read.
func (s *Service) writeTimer(ctx context.Context, m *models.Mission, next *models.Timer) error {
	if s.swapper == nil {
		if err := s.missions.UpdateMission(ctx, m.ID, models.MissionPatch{Timer: next}); err != nil {
			return updateErr("update timer", err)
		}
		return nil
	}

	ok, err := s.swapper.SwapTimer(ctx, m.ID, m.Timer, next)
	if err != nil {
		return storeErr("swap timer", err)
	}
	if ok {
		return nil
	}

	cur, err := s.missions.FindMissionByID(ctx, m.ID)
	if err != nil {
		return storeErr("find mission", err)
	}
	if cur == nil {
		return ErrNotFound
	}
	return GuardResult{Reason: "timer changed concurrently"}.Error()
}

func (s *Service) publish(kind events.Kind, missionID string, payload any) {
	s.broker.Publish(events.Event{Kind: kind, MissionID: missionID, At: s.Now(), Payload: payload})
}

// updateErr maps a vanished row or parent to ErrNotFound; anything else is a store
// failure.
func updateErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return storeErr(op, err)
}
