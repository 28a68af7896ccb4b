package timezone

import (
	"errors"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	DefaultTimezone = "Europe/Istanbul"
	DateLayout      = "2006-01-02"
)

var ErrInvalidDate = errors.New("invalid date")

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

// ParseDate aceita "2006-01-02" ou RFC3339 e devolve a meia-noite local.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.ParseInLocation(DateLayout, raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return StartOfDay(t.In(loc)), nil
	}
	return time.Time{}, ErrInvalidDate
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayRange devolve [início do dia, início do dia seguinte) no fuso informado.
func DayRange(day time.Time) (time.Time, time.Time) {
	start := StartOfDay(day)
	return start, start.AddDate(0, 0, 1)
}
