package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateKind tags which representation a DateValue holds.
type DateKind int

const (
	DateKindInvalid DateKind = iota
	DateKindTime
	DateKindString
	DateKindTimestamp
	DateKindEpochMillis
)

func (k DateKind) String() string {
	switch k {
	case DateKindTime:
		return "time"
	case DateKindString:
		return "string"
	case DateKindTimestamp:
		return "timestamp"
	case DateKindEpochMillis:
		return "epoch_millis"
	default:
		return "invalid"
	}
}

var ErrInvalidDate = errors.New("invalid_date")

// DateValue is the one representation of an event or booking date as it
// arrives from storage: a native time, a textual date, a seconds/nanoseconds
// timestamp wrapper, or epoch milliseconds. Instant is the only way to turn
// it into a time.Time.
type DateValue struct {
	kind    DateKind
	t       time.Time
	s       string
	seconds int64
	nanos   int64
	millis  int64
}

func DateFromTime(t time.Time) DateValue {
	return DateValue{kind: DateKindTime, t: t}
}

func DateFromString(s string) DateValue {
	return DateValue{kind: DateKindString, s: strings.TrimSpace(s)}
}

func DateFromTimestamp(seconds, nanos int64) DateValue {
	return DateValue{kind: DateKindTimestamp, seconds: seconds, nanos: nanos}
}

func DateFromEpochMillis(ms int64) DateValue {
	return DateValue{kind: DateKindEpochMillis, millis: ms}
}

func (d DateValue) Kind() DateKind { return d.kind }

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Layouts without a time part. These name a calendar day, not an instant.
var dateOnlyLayouts = []string{
	"2006-01-02",
	"02 Jan 2006",
	"January 2, 2006",
}

// Instant normalizes the value to a UTC instant.
func (d DateValue) Instant() (time.Time, error) {
	switch d.kind {
	case DateKindTime:
		if d.t.IsZero() {
			return time.Time{}, ErrInvalidDate
		}
		return d.t.UTC(), nil
	case DateKindString:
		if d.s == "" {
			return time.Time{}, ErrInvalidDate
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d.s); err == nil {
				return t.UTC(), nil
			}
		}
		if t, ok := d.calendarDay(time.UTC); ok {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, d.s)
	case DateKindTimestamp:
		return time.Unix(d.seconds, d.nanos).UTC(), nil
	case DateKindEpochMillis:
		return time.UnixMilli(d.millis).UTC(), nil
	default:
		return time.Time{}, ErrInvalidDate
	}
}

// DateOnly reports whether the value is a textual calendar date with no time part.
func (d DateValue) DateOnly() bool {
	_, ok := d.calendarDay(time.UTC)
	return ok
}

// In returns the value as wall-clock time in loc. Date-only strings are placed
// at midnight in loc instead of being converted from UTC, so the calendar day
// never shifts.
func (d DateValue) In(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, ok := d.calendarDay(loc); ok {
		return t, nil
	}
	t, err := d.Instant()
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

func (d DateValue) calendarDay(loc *time.Location) (time.Time, bool) {
	if d.kind != DateKindString || d.s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.ParseInLocation(layout, d.s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type timestampWire struct {
	Seconds     *int64 `json:"seconds"`
	Nanoseconds int64  `json:"nanoseconds"`
	// Alternate spelling emitted by some document-store exports.
	UnderscoreSeconds     *int64 `json:"_seconds"`
	UnderscoreNanoseconds int64  `json:"_nanoseconds"`
}

func (d *DateValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = DateValue{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = DateFromString(s)
		return nil
	case '{':
		var w timestampWire
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		switch {
		case w.Seconds != nil:
			*d = DateFromTimestamp(*w.Seconds, w.Nanoseconds)
		case w.UnderscoreSeconds != nil:
			*d = DateFromTimestamp(*w.UnderscoreSeconds, w.UnderscoreNanoseconds)
		default:
			return fmt.Errorf("%w: timestamp object without seconds", ErrInvalidDate)
		}
		return nil
	default:
		var ms json.Number
		if err := json.Unmarshal(data, &ms); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidDate, string(data))
		}
		n, err := ms.Int64()
		if err != nil {
			f, ferr := ms.Float64()
			if ferr != nil {
				return fmt.Errorf("%w: %s", ErrInvalidDate, string(data))
			}
			n = int64(f)
		}
		*d = DateFromEpochMillis(n)
		return nil
	}
}

// MarshalJSON always writes the canonical RFC3339 form.
func (d DateValue) MarshalJSON() ([]byte, error) {
	t, err := d.Instant()
	if err != nil {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}
