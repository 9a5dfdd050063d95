package calendar

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Date and time layouts of event input.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Event is a scheduled event together with the forecast captured when it was
// created. The forecast is a record of what was predicted and is never
// refreshed.
type Event struct {
	Title     string                   `json:"title"`
	Date      string                   `json:"date"`
	Time      string                   `json:"time"`
	Location  string                   `json:"location"`
	IsOutdoor bool                     `json:"isOutdoor"`
	ID        int64                    `json:"id"`
	Forecast  weather.ForecastSnapshot `json:"weather"`
}

// When returns the event's start in tz.
func (e Event) When(tz *time.Location) (time.Time, error) {
	return combine(e.Date, e.Time, tz)
}

// Display formats the event's start for event cards, falling back to the
// raw input when it does not parse.
func (e Event) Display(tz *time.Location) string {
	when, err := e.When(tz)
	if err != nil {
		return e.Date + " " + e.Time
	}
	return when.Format("Mon, Jan 2 2006 15:04")
}

// Kind returns "outdoor" or "indoor".
func (e Event) Kind() string {
	if e.IsOutdoor {
		return "outdoor"
	}
	return "indoor"
}

// Draft is the event form input. Drafts are values; the With methods return
// an updated copy and leave the receiver unchanged.
type Draft struct {
	Title     string `json:"title" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"required,datetime=15:04"`
	Location  string `json:"location" validate:"notblank"`
	IsOutdoor bool   `json:"isOutdoor"`
}

// NewDraft returns the default draft: today's date in tz, noon, empty title
// and location, indoor.
func NewDraft(now time.Time, tz *time.Location) Draft {
	if tz == nil {
		tz = time.Local
	}
	return Draft{
		Date: now.In(tz).Format(DateLayout),
		Time: "12:00",
	}
}

func (d Draft) WithTitle(title string) Draft {
	d.Title = title
	return d
}

func (d Draft) WithDate(date string) Draft {
	d.Date = date
	return d
}

func (d Draft) WithTime(t string) Draft {
	d.Time = t
	return d
}

func (d Draft) WithLocation(location string) Draft {
	d.Location = location
	return d
}

func (d Draft) WithOutdoor(outdoor bool) Draft {
	d.IsOutdoor = outdoor
	return d
}

func combine(date, clock string, tz *time.Location) (time.Time, error) {
	if tz == nil {
		tz = time.Local
	}
	t, err := time.ParseInLocation(DateLayout+"T"+TimeLayout, date+"T"+clock, tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}
