package timeutil

import (
	"strings"
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30)
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if Asia/Kolkata not available
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006"
	MonthLayout    = "2006-01"
)

// inputLayouts are the date spellings accepted from forms, tried in order.
var inputLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	DateTimeLayout,
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
}

// Now returns the current time in IST
func Now() time.Time {
	return time.Now().In(IST)
}

// Today returns midnight of the current IST day.
func Today() time.Time {
	return StartOfDay(Now())
}

// ParseDate reads a calendar date in any accepted layout and returns midnight
// IST of that day. ok is false for blank or unparseable input.
func ParseDate(value string) (t time.Time, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range inputLayouts {
		parsed, err := time.ParseInLocation(layout, value, IST)
		if err == nil {
			return StartOfDay(parsed), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a date as YYYY-MM-DD, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(IST).Format(DateLayout)
}

// StartOfDay returns the start of day (00:00:00) in IST for the given time
func StartOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}

// EndOfDay returns the end of day (23:59:59) in IST for the given time
func EndOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 23, 59, 59, 999999999, IST)
}

// StartOfMonth returns the first instant of t's month in IST.
func StartOfMonth(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), 1, 0, 0, 0, 0, IST)
}
