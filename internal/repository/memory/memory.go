// Package memory provides a process-local record store. It is constructed
// explicitly and injected like any other store, so tests get isolated state.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/garnizeh/missiondeck/pkg/models"
	"github.com/garnizeh/missiondeck/pkg/repository"
)

var _ repository.Store = (*Store)(nil)

type logEntry struct {
	seq int64
	log models.ErrorLog
}

// Store keeps users, missions and error logs in maps guarded by one RWMutex.
// Values are copied in and out so callers never share state with the store.
type Store struct {
	mu       sync.RWMutex
	users    map[string]models.User
	missions map[string]models.Mission
	logs     map[string]logEntry
	seq      int64
}

func New() *Store {
	return &Store{
		users:    map[string]models.User{},
		missions: map[string]models.Mission{},
		logs:     map[string]logEntry{},
	}
}

// Close is a no-op; it satisfies repository.Store.
func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; ok {
		return fmt.Errorf("user %s already exists", u.ID)
	}
	for _, o := range s.users {
		if o.Email == u.Email {
			return fmt.Errorf("email %s: %w", u.Email, repository.ErrConflict)
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) InsertMission(ctx context.Context, m *models.Mission) error {
	if m == nil {
		return fmt.Errorf("mission is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.missions[m.ID]; ok {
		return fmt.Errorf("mission %s already exists", m.ID)
	}
	s.missions[m.ID] = cloneMission(*m)
	return nil
}

func (s *Store) FindMissionByID(ctx context.Context, id string) (*models.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.missions[id]
	if !ok {
		return nil, nil
	}
	c := cloneMission(m)
	return &c, nil
}

func (s *Store) FindMissionsByOwner(ctx context.Context, ownerID string) ([]models.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Mission
	for _, m := range s.missions {
		if m.OwnerID == ownerID {
			out = append(out, cloneMission(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateMission(ctx context.Context, id string, patch models.MissionPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.missions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.Status != nil {
		m.Status = *patch.Status
	}
	if patch.Timer != nil {
		m.Timer = patch.Timer.Clone()
	}
	s.missions[id] = m
	return nil
}

func (s *Store) SwapTimer(ctx context.Context, id string, expected, next *models.Timer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.missions[id]
	if !ok || !m.Timer.Equal(expected) {
		return false, nil
	}
	m.Timer = next.Clone()
	s.missions[id] = m
	return true, nil
}

func (s *Store) RemoveMission(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.missions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.missions, id)
	for lid, e := range s.logs {
		if e.log.MissionID == id {
			delete(s.logs, lid)
		}
	}
	return nil
}

func (s *Store) InsertErrorLog(ctx context.Context, l *models.ErrorLog) error {
	if l == nil {
		return fmt.Errorf("error log is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.missions[l.MissionID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := s.logs[l.ID]; ok {
		return fmt.Errorf("error log %s already exists", l.ID)
	}
	s.seq++
	s.logs[l.ID] = logEntry{seq: s.seq, log: *l}
	return nil
}

func (s *Store) FindErrorLogByID(ctx context.Context, id string) (*models.ErrorLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.logs[id]
	if !ok {
		return nil, nil
	}
	l := e.log
	return &l, nil
}

func (s *Store) FindErrorLogsByMission(ctx context.Context, missionID string) ([]models.ErrorLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []logEntry
	for _, e := range s.logs {
		if e.log.MissionID == missionID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.log.Timestamp.Equal(b.log.Timestamp) {
			return a.log.Timestamp.Before(b.log.Timestamp)
		}
		return a.seq < b.seq
	})

	out := make([]models.ErrorLog, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.log)
	}
	return out, nil
}

func (s *Store) RemoveErrorLog(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.logs, id)
	return nil
}

func cloneMission(m models.Mission) models.Mission {
	m.Timer = m.Timer.Clone()
	return m
}
