package command

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
	"github.com/iliyamo/cinema-showtime-service/internal/service"
)

func TestParseRange(t *testing.T) {
	from, to, err := parseRange("2024-12-01", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from == nil || from.String() != "2024-12-01" || to != nil {
		t.Fatalf("unexpected range %v %v", from, to)
	}
	if _, _, err := parseRange("", "12/01/2024"); err == nil || !strings.Contains(err.Error(), "--to") {
		t.Fatalf("expected --to error, got %v", err)
	}
}

func TestRenderSchedule(t *testing.T) {
	day := model.NewDate(2024, time.December, 10)
	s := service.Schedule{MovieID: 7, Days: service.GroupSchedule([]model.Showtime{
		{ID: 2, MovieID: 7, ShowDate: day, ShowTime: model.NewTimeOfDay(18, 0, 0), PriceAmount: decimal.NewFromInt(25), PriceCurrency: model.PLN},
		{ID: 1, MovieID: 7, ShowDate: day, ShowTime: model.NewTimeOfDay(16, 0, 0), PriceAmount: decimal.NewFromInt(20), PriceCurrency: model.PLN},
	})}

	var buf bytes.Buffer
	renderSchedule(&buf, "Furious 7", s)
	// go-pretty upper-cases headers and titles depending on style
	out := strings.ToLower(buf.String())
	for _, want := range []string{"furious 7", "2024-12-10", "16:00:00", "20.00 pln", "18:00:00", "25.00 pln"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "16:00:00") > strings.Index(out, "18:00:00") {
		t.Fatalf("expected screenings in time order:\n%s", out)
	}

	buf.Reset()
	renderSchedule(&buf, "Furious 7", service.Schedule{MovieID: 7, Days: []model.DailySchedule{}})
	if !strings.Contains(strings.ToLower(buf.String()), "no showtimes") {
		t.Fatalf("expected empty marker:\n%s", buf.String())
	}
}
