package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type sseEvent struct {
	name string
	data string
}

// readEvent returns the next complete event from the stream.
func readEvent(t *testing.T, sc *bufio.Scanner) sseEvent {
	t.Helper()
	var ev sseEvent
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if ev.name != "" {
				return ev
			}
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		}
	}
	t.Fatalf("stream ended before next event: %v", sc.Err())
	return ev
}

func openStream(t *testing.T, srv *httptest.Server, missionID, user string) (*bufio.Scanner, func()) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/missions/"+missionID+"/events", nil)
	if err != nil {
		cancel()
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, user))

	res, err := srv.Client().Do(req)
	if err != nil {
		cancel()
		t.Fatalf("open stream: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		cancel()
		t.Fatalf("open stream: status %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
	return bufio.NewScanner(res.Body), func() {
		cancel()
		res.Body.Close()
	}
}

func TestEventsStream(t *testing.T) {
	env := newMemoryEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx := context.Background()
	m, err := env.svc.Create(ctx, "watched", "d", "user-a")
	if err != nil {
		t.Fatal(err)
	}

	sc, closeStream := openStream(t, srv, m.ID, "user-a")
	defer closeStream()

	snap := readEvent(t, sc)
	if snap.name != "mission" || !strings.Contains(snap.data, m.ID) {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	if _, err := env.svc.ToggleStatus(ctx, m.ID, "user-a"); err != nil {
		t.Fatal(err)
	}
	ev := readEvent(t, sc)
	if ev.name != "status_changed" {
		t.Fatalf("expected status_changed, got %+v", ev)
	}
	var view viewResponse
	if err := json.Unmarshal([]byte(ev.data), &view); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if view.Status != "completed" {
		t.Fatalf("event carries status %q", view.Status)
	}

	if _, err := env.svc.StartTimer(ctx, m.ID, "user-a"); err != nil {
		t.Fatal(err)
	}
	if ev := readEvent(t, sc); ev.name != "timer_started" {
		t.Fatalf("expected timer_started, got %+v", ev)
	}

	env.clock.Advance(3 * time.Second)
	var tp struct {
		ElapsedSeconds int64  `json:"elapsed_seconds"`
		Elapsed        string `json:"elapsed"`
	}
	// a tick computed before the advance may still be in flight
	for i := 0; i < 100 && tp.ElapsedSeconds != 3; i++ {
		tick := readEvent(t, sc)
		if tick.name != "tick" {
			t.Fatalf("expected tick, got %+v", tick)
		}
		if err := json.Unmarshal([]byte(tick.data), &tp); err != nil {
			t.Fatalf("decode tick: %v", err)
		}
	}
	if tp.ElapsedSeconds != 3 || tp.Elapsed != "00:00:03" {
		t.Fatalf("unexpected tick payload %+v", tp)
	}

	if err := env.svc.Delete(ctx, m.ID, "user-a"); err != nil {
		t.Fatal(err)
	}
	// ticks may be interleaved before the delete lands
	for {
		ev := readEvent(t, sc)
		if ev.name == "tick" {
			continue
		}
		if ev.name != "deleted" {
			t.Fatalf("expected deleted, got %+v", ev)
		}
		break
	}
	if sc.Scan() {
		t.Fatalf("stream still open after delete: %q", sc.Text())
	}
}

func TestEventsStream_UnknownMission(t *testing.T) {
	env := newMemoryEnv(t)

	w := env.do(t, http.MethodGet, "/v1/missions/missing/events", "user-a", nil)
	expectStatus(t, w, http.StatusNotFound)
}
