package mission

import (
	"fmt"
	"time"

	"github.com/garnizeh/missiondeck/pkg/models"
)

// The functions in this file are pure: no I/O, time is passed in.

// TimerState is the position of a mission's timer in its lifecycle.
//
//	none --start--> running --stop--> stopped
//	stopped --start--> running (previous duration discarded)
type TimerState string

const (
	TimerNone    TimerState = "none"
	TimerRunning TimerState = "running"
	TimerStopped TimerState = "stopped"
)

func StateOf(t *models.Timer) TimerState {
	switch {
	case t == nil:
		return TimerNone
	case t.Running():
		return TimerRunning
	default:
		return TimerStopped
	}
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error returns the guard result as an ErrInvalidState error if not allowed,
// nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidState, r.Reason)
}

// CanStartTimer allows a start from none or stopped.
func CanStartTimer(t *models.Timer) GuardResult {
	if StateOf(t) == TimerRunning {
		return GuardResult{Reason: "timer is already running"}
	}
	return GuardResult{Allowed: true}
}

// CanStopTimer allows a stop only while running.
func CanStopTimer(t *models.Timer) GuardResult {
	switch StateOf(t) {
	case TimerNone:
		return GuardResult{Reason: "timer has not been started"}
	case TimerStopped:
		return GuardResult{Reason: "timer is already stopped"}
	}
	return GuardResult{Allowed: true}
}

// StartedTimer returns a fresh running timer.
func StartedTimer(now time.Time) *models.Timer {
	return &models.Timer{StartTime: now}
}

// StoppedTimer freezes t at now. The duration is whole seconds, floored and
// never negative.
func StoppedTimer(t *models.Timer, now time.Time) *models.Timer {
	end := now
	d := floorSeconds(end.Sub(t.StartTime))
	return &models.Timer{StartTime: t.StartTime, EndTime: &end, Duration: &d}
}

// ElapsedSeconds is 0 without a timer, the live floor while running and the
// frozen duration once stopped.
func ElapsedSeconds(m *models.Mission, now time.Time) int64 {
	if m == nil || m.Timer == nil {
		return 0
	}
	t := m.Timer
	if t.Running() {
		return floorSeconds(now.Sub(t.StartTime))
	}
	if t.Duration != nil {
		return *t.Duration
	}
	return floorSeconds(t.EndTime.Sub(t.StartTime))
}

// ToggledStatus flips active and completed.
func ToggledStatus(s models.MissionStatus) models.MissionStatus {
	if s == models.StatusActive {
		return models.StatusCompleted
	}
	return models.StatusActive
}

func floorSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}
