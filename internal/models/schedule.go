package models

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

var clockLayouts = []string{"15:04", "15:04:05"}

// CombineDateAndClock anchors a calendar date and a wall-clock time in loc
// and returns the instant in UTC.
func CombineDateAndClock(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", date)
	}
	var tod time.Time
	parsed := false
	for _, layout := range clockLayouts {
		if tod, err = time.Parse(layout, clock); err == nil {
			parsed = true
			break
		}
	}
	if !parsed {
		return time.Time{}, fmt.Errorf("invalid time %q", clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, loc).UTC(), nil
}

// Schedule resolves the start and end instants of an event input. The
// returned error is a *ValidationError for unparsable values and
// ErrInvalidTimeRange when the end precedes the start.
func (in *EventInput) Schedule(defaultLoc *time.Location) (start, end time.Time, err error) {
	loc := defaultLoc
	if in.Timezone != "" {
		if loc, err = time.LoadLocation(in.Timezone); err != nil {
			return time.Time{}, time.Time{}, NewValidationError("timezone", "must be a valid IANA time zone")
		}
	}
	if start, err = CombineDateAndClock(in.Date, in.StartTime, loc); err != nil {
		return time.Time{}, time.Time{}, NewValidationError("startTime", "must be HH:MM or HH:MM:SS")
	}
	if end, err = CombineDateAndClock(in.Date, in.EndTime, loc); err != nil {
		return time.Time{}, time.Time{}, NewValidationError("endTime", "must be HH:MM or HH:MM:SS")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrInvalidTimeRange
	}
	return start, end, nil
}
