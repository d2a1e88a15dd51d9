// Package timefmt renders instants in the UTC form the Clockify API expects.
package timefmt

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/arcuo/clockify-cli/internal/duration"
)

// Layout is the canonical API timestamp form.
const Layout = "2006-01-02T15:04:05Z"

// OffsetMode selects which UTC offset is subtracted from the local wall clock.
type OffsetMode int

const (
	// OffsetAtInstant uses the offset in effect at the instant being formatted.
	OffsetAtInstant OffsetMode = iota
	// OffsetNow uses the offset in effect at Clock() for every instant. Output
	// is off by the DST delta for instants on the other side of a transition.
	OffsetNow
)

// Formatter converts local wall-clock time to API timestamps.
type Formatter struct {
	Location *time.Location
	Clock    func() time.Time
	Mode     OffsetMode
}

// New returns a Formatter for the named zone using the system clock.
func New(timezone string) (*Formatter, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &Formatter{Location: loc, Clock: time.Now}, nil
}

func (f *Formatter) now() time.Time {
	if f.Clock == nil {
		return time.Now()
	}
	return f.Clock()
}

func (f *Formatter) location() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

// Format renders instant, or the current instant when nil, as
// YYYY-MM-DDTHH:MM:SSZ. The wall clock in Location is read as a naive
// timestamp and the zone offset is subtracted from it.
func (f *Formatter) Format(instant *time.Time) string {
	loc := f.location()

	t := f.now()
	if instant != nil {
		t = *instant
	}
	wall := t.In(loc)

	naive := time.Date(wall.Year(), wall.Month(), wall.Day(),
		wall.Hour(), wall.Minute(), wall.Second(), 0, time.UTC)

	var offset int
	switch f.Mode {
	case OffsetNow:
		_, offset = f.now().In(loc).Zone()
	default:
		_, offset = wall.Zone()
	}

	return naive.Add(-time.Duration(offset) * time.Second).Format(Layout)
}

// Span returns the start and end stamps of an entry of length d ending now.
func (f *Formatter) Span(d duration.Duration) (start, end string) {
	now := f.now()
	begin := now.Add(-d.Std())
	return f.Format(&begin), f.Format(&now)
}

// ParseInstant parses an API timestamp. The canonical form is tried first;
// RFC 3339 with fractional seconds is accepted as the API sometimes sends it.
func ParseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(Layout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

var fixedOffset = regexp.MustCompile(`^([+-])(\d{2}):?(\d{2})$`)

// LoadLocation resolves an IANA zone name or a fixed offset such as +0200 or
// -05:30. An empty name is UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}

	if m := fixedOffset.FindStringSubmatch(name); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes, _ := strconv.Atoi(m[3])
		if hours > 14 || minutes > 59 {
			return nil, fmt.Errorf("invalid timezone offset %q", name)
		}
		secs := hours*3600 + minutes*60
		if m[1] == "-" {
			secs = -secs
		}
		return time.FixedZone(name, secs), nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}
