package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the normalized textual form of a creation timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// AppointmentDateLayout is the DD/MM/YYYY form used by the producer.
const AppointmentDateLayout = "2/1/2006"

var (
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrInvalidAppointment = errors.New("invalid appointment date or time")
)

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NormalizeCreatedAt parses a creation timestamp in UTC. An hour component of "24"
// is rewritten to hour 0 of the following day.
func NormalizeCreatedAt(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)

	rollover := false
	if len(s) >= 14 && s[10] == 'T' && s[11:14] == "24:" {
		s = s[:11] + "00:" + s[14:]
		rollover = true
	}

	for _, layout := range createdAtLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = t.UTC()
		if rollover {
			t = t.AddDate(0, 0, 1)
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
}

// FormatTimestamp renders t in the normalized creation-timestamp form.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseAppointment combines an appointment date (DD/MM/YYYY) and time (HH:MM) into a
// single UTC instant. "24:MM" rolls over to 00:MM of the next day.
func ParseAppointment(date, clock string) (time.Time, error) {
	day, err := time.Parse(AppointmentDateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidAppointment, date)
	}

	hh, mm, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrInvalidAppointment, clock)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 24 {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrInvalidAppointment, clock)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrInvalidAppointment, clock)
	}

	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), nil
}
