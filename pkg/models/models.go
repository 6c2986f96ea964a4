package models

import "time"

// Domain models matching the database schema in db/migrations/000001_init.up.sql

type MissionStatus string

const (
	StatusActive    MissionStatus = "active"
	StatusCompleted MissionStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s MissionStatus) Valid() bool {
	return s == StatusActive || s == StatusCompleted
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Created      time.Time `json:"created" db:"created"`
}

// Timer is embedded in a Mission once it has been started. EndTime and
// Duration are set together when the timer is stopped.
type Timer struct {
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Duration  *int64     `json:"duration,omitempty"`
}

// Running reports whether the timer has been started and not stopped.
func (t *Timer) Running() bool {
	return t != nil && t.EndTime == nil
}

// Clone returns a deep copy so stores never hand out shared pointers.
func (t *Timer) Clone() *Timer {
	if t == nil {
		return nil
	}
	c := &Timer{StartTime: t.StartTime}
	if t.EndTime != nil {
		end := *t.EndTime
		c.EndTime = &end
	}
	if t.Duration != nil {
		d := *t.Duration
		c.Duration = &d
	}
	return c
}

// Equal compares two timers field by field; two nil timers are equal.
func (t *Timer) Equal(o *Timer) bool {
	if t == nil || o == nil {
		return t == nil && o == nil
	}
	if !t.StartTime.Equal(o.StartTime) {
		return false
	}
	if (t.EndTime == nil) != (o.EndTime == nil) {
		return false
	}
	if t.EndTime != nil && !t.EndTime.Equal(*o.EndTime) {
		return false
	}
	if (t.Duration == nil) != (o.Duration == nil) {
		return false
	}
	return t.Duration == nil || *t.Duration == *o.Duration
}

type Mission struct {
	ID          string        `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Status      MissionStatus `json:"status" db:"status"`
	OwnerID     string        `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	Timer       *Timer        `json:"timer,omitempty"`
}

// MissionPatch carries the mutable fields of a mission. Nil fields are left
// untouched by UpdateMission.
type MissionPatch struct {
	Status *MissionStatus
	Timer  *Timer
}

type ErrorLog struct {
	ID        string    `json:"id" db:"id"`
	MissionID string    `json:"mission_id" db:"mission_id"`
	Message   string    `json:"message" db:"message"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}
