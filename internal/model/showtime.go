package model

import "github.com/shopspring/decimal"

// Showtime is a scheduled screening of a catalog movie.  The date and the
// wall-clock time are stored in separate columns; the price is an amount
// plus a currency code.
//
// Fields:
//
//	ID            – primary key identifier.
//	MovieID       – movie being screened, fixed after creation.
//	MovieTitle    – joined from movies when reading; never written.
//	ShowDate      – calendar day of the screening.
//	ShowTime      – wall-clock start time.
//	PriceAmount   – non-negative ticket price.
//	PriceCurrency – PLN or EUR.
type Showtime struct {
	ID            uint64          `db:"id"`             // showtimes.id
	MovieID       uint64          `db:"movie_id"`       // showtimes.movie_id
	MovieTitle    string          `db:"movie_title"`    // movies.title
	ShowDate      Date            `db:"show_date"`      // showtimes.show_date
	ShowTime      TimeOfDay       `db:"show_time"`      // showtimes.show_time
	PriceAmount   decimal.Decimal `db:"price_amount"`   // showtimes.price_amount
	PriceCurrency Currency        `db:"price_currency"` // showtimes.price_currency
}

// Price returns the ticket price as Money.
func (s Showtime) Price() Money {
	return Money{Amount: s.PriceAmount, Currency: s.PriceCurrency}
}

// StartsAt combines the date and time columns.
func (s Showtime) StartsAt() LocalDateTime {
	return LocalDateTime{Date: s.ShowDate, Time: s.ShowTime}
}

// SetSchedule replaces the date, time and price of the showtime.
func (s *Showtime) SetSchedule(at LocalDateTime, price Money) {
	s.ShowDate = at.Date
	s.ShowTime = at.Time
	s.PriceAmount = price.Amount
	s.PriceCurrency = price.Currency
}

// HourlyEntry is one screening inside a day of a schedule.
type HourlyEntry struct {
	ShowtimeID uint64
	Time       TimeOfDay
	Price      Money
}

// DailySchedule groups the screenings of one calendar day.
type DailySchedule struct {
	Date  Date
	Hours []HourlyEntry
}
