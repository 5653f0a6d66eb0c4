package service

import (
	"slices"

	"github.com/iliyamo/cinema-showtime-service/internal/model"
)

// GroupSchedule arranges showtimes into days sorted by date, each holding
// its screenings sorted by time and then id.  Every showtime yields its own
// hourly entry, so two screenings at the same date and time both appear.
func GroupSchedule(showtimes []model.Showtime) []model.DailySchedule {
	sorted := slices.Clone(showtimes)
	slices.SortStableFunc(sorted, func(a, b model.Showtime) int {
		if c := a.ShowDate.Compare(b.ShowDate); c != 0 {
			return c
		}
		if c := a.ShowTime.Compare(b.ShowTime); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	days := []model.DailySchedule{}
	for _, s := range sorted {
		if n := len(days); n == 0 || days[n-1].Date != s.ShowDate {
			days = append(days, model.DailySchedule{Date: s.ShowDate})
		}
		day := &days[len(days)-1]
		day.Hours = append(day.Hours, model.HourlyEntry{
			ShowtimeID: s.ID,
			Time:       s.ShowTime,
			Price:      s.Price(),
		})
	}
	return days
}
