package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/missiondeck/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Owner and mission ids are plain filter predicates here. Authorization is the
// caller's job.

// ErrNotFound is returned by mutating calls whose target row does not exist.
// Lookups return (nil, nil) instead.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned by CreateUser when the email is already taken.
var ErrConflict = errors.New("record already exists")

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type MissionRepo interface {
	InsertMission(ctx context.Context, m *models.Mission) error
	FindMissionByID(ctx context.Context, id string) (*models.Mission, error)
	FindMissionsByOwner(ctx context.Context, ownerID string) ([]models.Mission, error)
	UpdateMission(ctx context.Context, id string, patch models.MissionPatch) error
	// RemoveMission deletes the mission and all of its error logs in one
	// step; readers never observe the logs without their mission.
	RemoveMission(ctx context.Context, id string) error
}

type ErrorLogRepo interface {
	// InsertErrorLog returns ErrNotFound when the parent mission is gone.
	InsertErrorLog(ctx context.Context, l *models.ErrorLog) error
	FindErrorLogByID(ctx context.Context, id string) (*models.ErrorLog, error)
	// FindErrorLogsByMission returns logs oldest first.
	FindErrorLogsByMission(ctx context.Context, missionID string) ([]models.ErrorLog, error)
	RemoveErrorLog(ctx context.Context, id string) error
}

// TimerSwapper is implemented by stores that can replace a mission's timer
// only if it still equals expected. A false result with a nil error means the
// precondition failed or the mission is gone.
type TimerSwapper interface {
	SwapTimer(ctx context.Context, id string, expected, next *models.Timer) (bool, error)
}

// Store is the full record store a mission service runs against.
type Store interface {
	UserRepo
	MissionRepo
	ErrorLogRepo
	TimerSwapper
	Close() error
}
