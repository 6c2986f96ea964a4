package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/garnizeh/missiondeck/internal/mission"
	"github.com/garnizeh/missiondeck/pkg/models"
)

func statusLabel(s models.MissionStatus) string {
	if s == models.StatusCompleted {
		return color.New(color.FgBlue).Sprint(string(s))
	}
	return color.New(color.FgGreen).Sprint(string(s))
}

func timerLabel(m *models.Mission, now time.Time) string {
	elapsed := mission.FormatDuration(mission.ElapsedSeconds(m, now))
	switch mission.StateOf(m.Timer) {
	case mission.TimerRunning:
		return color.New(color.FgYellow).Sprintf("%s running", elapsed)
	case mission.TimerStopped:
		return elapsed
	default:
		return "-"
	}
}

func printMission(w io.Writer, m *models.Mission, now time.Time) {
	fmt.Fprintf(w, "ID:          %s\n", m.ID)
	fmt.Fprintf(w, "Title:       %s\n", m.Title)
	fmt.Fprintf(w, "Description: %s\n", m.Description)
	fmt.Fprintf(w, "Status:      %s\n", statusLabel(m.Status))
	fmt.Fprintf(w, "Created:     %s\n", m.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Timer:       %s\n", timerLabel(m, now))
}

func printErrorLogs(w io.Writer, logs []models.ErrorLog) {
	if len(logs) == 0 {
		fmt.Fprintln(w, "No error logs")
		return
	}
	for _, l := range logs {
		fmt.Fprintf(w, "%s  %s\n", l.Timestamp.Format(time.RFC3339), color.New(color.FgRed).Sprint(l.Message))
	}
}
