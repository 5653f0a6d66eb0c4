package queue

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-showtime-service/internal/config"
)

func TestFormatLine(t *testing.T) {
	ev := ActivityEvent{
		Type:       ShowtimeScheduled,
		OccurredAt: "2024-12-01T10:00:00Z",
		Actor:      "admin",
		MovieID:    7,
		MovieTitle: "Furious 7",
		ShowtimeID: 3,
		StartsAt:   "2024-12-10T16:00:00",
		Price:      "20.00 PLN",
	}
	want := `[2024-12-01T10:00:00Z] showtime.scheduled | actor=admin | movie_id=7 | movie="Furious 7" | showtime_id=3 | starts_at=2024-12-10T16:00:00 | price="20.00 PLN"`
	if got := FormatLine(ev); got != want {
		t.Fatalf("unexpected line\n got: %s\nwant: %s", got, want)
	}
}

func TestHandleMessageAppendsLines(t *testing.T) {
	dir := t.TempDir()
	log := logrus.New()
	log.SetOutput(io.Discard)
	c := NewConsumer(config.EventsConfig{LogDir: filepath.Join(dir, "logs")}, log)

	for _, email := range []string{"a@b.pl", "c@d.pl"} {
		ev := NewEvent(ReviewSubmitted, "user")
		ev.UserEmail = email
		ev.Score = 4
		body, _ := json.Marshal(ev)
		if err := c.HandleMessage(body); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "logs", ActivityLogFile))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}
	if !strings.Contains(lines[1], "user=c@d.pl") || !strings.Contains(lines[1], "score=4") {
		t.Fatalf("unexpected line %q", lines[1])
	}
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	c := NewConsumer(config.EventsConfig{LogDir: t.TempDir()}, log)

	if err := c.HandleMessage([]byte("not json")); err == nil {
		t.Fatal("expected an error for malformed body")
	}
	if err := c.HandleMessage([]byte(`{"id":"x"}`)); err == nil {
		t.Fatal("expected an error for an event without type")
	}
}
