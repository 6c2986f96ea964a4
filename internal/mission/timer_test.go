package mission

import (
	"errors"
	"testing"
	"time"

	"github.com/garnizeh/missiondeck/pkg/models"
)

var t0 = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func stopped(start time.Time, secs int64) *models.Timer {
	end := start.Add(time.Duration(secs) * time.Second)
	return &models.Timer{StartTime: start, EndTime: &end, Duration: &secs}
}

func TestStateOf(t *testing.T) {
	tests := []struct {
		name  string
		timer *models.Timer
		want  TimerState
	}{
		{name: "no timer", timer: nil, want: TimerNone},
		{name: "running", timer: &models.Timer{StartTime: t0}, want: TimerRunning},
		{name: "stopped", timer: stopped(t0, 5), want: TimerStopped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(tt.timer); got != tt.want {
				t.Errorf("StateOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimerGuards(t *testing.T) {
	tests := []struct {
		name      string
		timer     *models.Timer
		wantStart bool
		wantStop  bool
	}{
		{name: "no timer can start, cannot stop", timer: nil, wantStart: true, wantStop: false},
		{name: "running cannot start, can stop", timer: &models.Timer{StartTime: t0}, wantStart: false, wantStop: true},
		{name: "stopped can restart, cannot stop", timer: stopped(t0, 1), wantStart: true, wantStop: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := CanStartTimer(tt.timer)
			if start.Allowed != tt.wantStart {
				t.Errorf("CanStartTimer() Allowed = %v, want %v", start.Allowed, tt.wantStart)
			}
			stop := CanStopTimer(tt.timer)
			if stop.Allowed != tt.wantStop {
				t.Errorf("CanStopTimer() Allowed = %v, want %v", stop.Allowed, tt.wantStop)
			}

			// Test Error() method
			for _, r := range []GuardResult{start, stop} {
				err := r.Error()
				if r.Allowed && err != nil {
					t.Errorf("Error() should be nil when allowed, got %v", err)
				}
				if !r.Allowed && !errors.Is(err, ErrInvalidState) {
					t.Errorf("Error() = %v, want ErrInvalidState", err)
				}
			}
		})
	}
}

func TestStoppedTimer_Duration(t *testing.T) {
	tests := []struct {
		name string
		stop time.Time
		want int64
	}{
		{name: "whole seconds", stop: t0.Add(65 * time.Second), want: 65},
		{name: "floors fractions", stop: t0.Add(65*time.Second + 999*time.Millisecond), want: 65},
		{name: "sub second", stop: t0.Add(400 * time.Millisecond), want: 0},
		{name: "clock went backwards", stop: t0.Add(-3 * time.Second), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StoppedTimer(StartedTimer(t0), tt.stop)
			if got.Duration == nil || *got.Duration != tt.want {
				t.Fatalf("Duration = %v, want %d", got.Duration, tt.want)
			}
			if got.EndTime == nil || !got.EndTime.Equal(tt.stop) {
				t.Fatalf("EndTime = %v, want %v", got.EndTime, tt.stop)
			}
			if !got.StartTime.Equal(t0) {
				t.Fatalf("StartTime changed to %v", got.StartTime)
			}
		})
	}
}

func TestElapsedSeconds(t *testing.T) {
	tests := []struct {
		name string
		m    *models.Mission
		now  time.Time
		want int64
	}{
		{name: "nil mission", m: nil, now: t0, want: 0},
		{name: "no timer", m: &models.Mission{}, now: t0, want: 0},
		{name: "running", m: &models.Mission{Timer: &models.Timer{StartTime: t0}}, now: t0.Add(90*time.Second + 500*time.Millisecond), want: 90},
		{name: "running before start", m: &models.Mission{Timer: &models.Timer{StartTime: t0}}, now: t0.Add(-time.Minute), want: 0},
		{name: "stopped is frozen", m: &models.Mission{Timer: stopped(t0, 65)}, now: t0.Add(24 * time.Hour), want: 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ElapsedSeconds(tt.m, tt.now); got != tt.want {
				t.Errorf("ElapsedSeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestToggledStatus(t *testing.T) {
	if got := ToggledStatus(models.StatusActive); got != models.StatusCompleted {
		t.Errorf("active toggles to %s", got)
	}
	if got := ToggledStatus(models.StatusCompleted); got != models.StatusActive {
		t.Errorf("completed toggles to %s", got)
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{in: "", want: FilterAll},
		{in: "all", want: FilterAll},
		{in: " Active ", want: FilterActive},
		{in: "completed", want: FilterCompleted},
		{in: "archived", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("ParseFilter(%q) err = %v, want ErrValidation", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParseFilter(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[int64]string{
		0:      "00:00:00",
		65:     "00:01:05",
		3600:   "01:00:00",
		90061:  "25:01:01",
		-12:    "00:00:00",
		359999: "99:59:59",
	}
	for in, want := range tests {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}
