package mock

import (
	"context"
	"sort"

	"github.com/garnizeh/missiondeck/pkg/models"
	"github.com/garnizeh/missiondeck/pkg/repository"
)

// Test helpers and mocks. The mission mock deliberately does not implement
// repository.TimerSwapper so callers exercise the plain update path.
type Mocks struct {
	Users    *mockUserRepo
	Missions *mockMissionRepo
	Logs     *mockErrorLogRepo
}

func NewMocks() *Mocks {
	m := &Mocks{
		Users:    &mockUserRepo{},
		Missions: &mockMissionRepo{Stored: map[string]models.Mission{}},
	}
	m.Logs = &mockErrorLogRepo{missions: m.Missions}
	return m
}

type mockUserRepo struct {
	Stored    *models.User
	CreateErr error
	GetErr    error
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *models.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	stored := *u
	m.Stored = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Stored != nil && m.Stored.ID == id {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Stored != nil && m.Stored.Email == email {
		return m.Stored, nil
	}
	return nil, nil
}

type mockMissionRepo struct {
	Stored map[string]models.Mission

	InsertErr error
	FindErr   error
	ListErr   error
	UpdateErr error
	RemoveErr error

	InsertCalls int
	UpdateCalls int
	RemoveCalls int
}

func (m *mockMissionRepo) InsertMission(ctx context.Context, ms *models.Mission) error {
	m.InsertCalls++
	if m.InsertErr != nil {
		return m.InsertErr
	}
	c := *ms
	c.Timer = ms.Timer.Clone()
	m.Stored[ms.ID] = c
	return nil
}

func (m *mockMissionRepo) FindMissionByID(ctx context.Context, id string) (*models.Mission, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	ms, ok := m.Stored[id]
	if !ok {
		return nil, nil
	}
	ms.Timer = ms.Timer.Clone()
	return &ms, nil
}

func (m *mockMissionRepo) FindMissionsByOwner(ctx context.Context, ownerID string) ([]models.Mission, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []models.Mission
	for _, ms := range m.Stored {
		if ms.OwnerID == ownerID {
			out = append(out, ms)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockMissionRepo) UpdateMission(ctx context.Context, id string, patch models.MissionPatch) error {
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	ms, ok := m.Stored[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.Status != nil {
		ms.Status = *patch.Status
	}
	if patch.Timer != nil {
		ms.Timer = patch.Timer.Clone()
	}
	m.Stored[id] = ms
	return nil
}

func (m *mockMissionRepo) RemoveMission(ctx context.Context, id string) error {
	m.RemoveCalls++
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	if _, ok := m.Stored[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Stored, id)
	return nil
}

type mockErrorLogRepo struct {
	missions *mockMissionRepo
	Stored   []models.ErrorLog

	InsertErr error
	ListErr   error
}

func (m *mockErrorLogRepo) InsertErrorLog(ctx context.Context, l *models.ErrorLog) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Stored = append(m.Stored, *l)
	return nil
}

func (m *mockErrorLogRepo) FindErrorLogByID(ctx context.Context, id string) (*models.ErrorLog, error) {
	for _, l := range m.Stored {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, nil
}

func (m *mockErrorLogRepo) FindErrorLogsByMission(ctx context.Context, missionID string) ([]models.ErrorLog, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	// logs of removed missions disappear, mirroring the cascading stores
	if _, ok := m.missions.Stored[missionID]; !ok {
		return nil, nil
	}
	var out []models.ErrorLog
	for _, l := range m.Stored {
		if l.MissionID == missionID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockErrorLogRepo) RemoveErrorLog(ctx context.Context, id string) error {
	for i, l := range m.Stored {
		if l.ID == id {
			m.Stored = append(m.Stored[:i], m.Stored[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
