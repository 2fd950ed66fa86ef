package gravl

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ConstraintType represents the type of constraint.
type ConstraintType string

const (
	// ConstraintMandatory requires the property to be present.
	ConstraintMandatory ConstraintType = "MANDATORY"

	// ConstraintUnique requires the property value to be unique.
	ConstraintUnique ConstraintType = "UNIQUE"
)

// EntityType represents the type of graph entity.
type EntityType string

const (
	// EntityNode represents a graph node.
	EntityNode EntityType = "NODE"

	// EntityRelationship represents a graph relationship/edge.
	EntityRelationship EntityType = "RELATIONSHIP"
)

// Point represents a geographic point with latitude and longitude.
type Point struct {
	Latitude  float64
	Longitude float64
}

// String returns a string representation of the point.
func (p *Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Latitude, p.Longitude)
}

// Duration represents a temporal duration.
type Duration struct {
	Years       int
	Months      int
	Days        int
	Hours       int
	Minutes     int
	Seconds     int
	Nanoseconds int
}

// ToDuration converts to a standard time.Duration.
// Note: Years and Months are approximated as 365 days and 30 days respectively.
func (d *Duration) ToDuration() time.Duration {
	total := time.Duration(d.Nanoseconds) * time.Nanosecond
	total += time.Duration(d.Seconds) * time.Second
	total += time.Duration(d.Minutes) * time.Minute
	total += time.Duration(d.Hours) * time.Hour
	total += time.Duration(d.Days) * 24 * time.Hour
	total += time.Duration(d.Months) * 30 * 24 * time.Hour
	total += time.Duration(d.Years) * 365 * 24 * time.Hour
	return total
}

// String returns the ISO 8601 duration string.
func (d *Duration) String() string {
	var parts []string

	if d.Years > 0 {
		parts = append(parts, fmt.Sprintf("%dY", d.Years))
	}
	if d.Months > 0 {
		parts = append(parts, fmt.Sprintf("%dM", d.Months))
	}
	if d.Days > 0 {
		parts = append(parts, fmt.Sprintf("%dD", d.Days))
	}

	if d.Hours > 0 || d.Minutes > 0 || d.Seconds > 0 {
		parts = append(parts, "T")
		if d.Hours > 0 {
			parts = append(parts, fmt.Sprintf("%dH", d.Hours))
		}
		if d.Minutes > 0 {
			parts = append(parts, fmt.Sprintf("%dM", d.Minutes))
		}
		if d.Seconds > 0 {
			parts = append(parts, fmt.Sprintf("%dS", d.Seconds))
		}
	}

	if len(parts) == 0 {
		return "PT0S"
	}
	return "P" + strings.Join(parts, "")
}

// parseDuration parses an ISO 8601 duration string such as "P1Y2M3DT4H5M6S".
func parseDuration(s string) (*Duration, error) {
	rest, ok := strings.CutPrefix(s, "P")
	if !ok {
		return nil, fmt.Errorf("invalid duration %q", s)
	}

	d := &Duration{}
	inTime := false
	num := ""
	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9' || r == '.':
			num += string(r)
		case r == 'T':
			inTime = true
		default:
			if num == "" {
				return nil, fmt.Errorf("invalid duration %q", s)
			}
			switch r {
			case 'Y':
				d.Years, _ = strconv.Atoi(num)
			case 'M':
				if inTime {
					d.Minutes, _ = strconv.Atoi(num)
				} else {
					d.Months, _ = strconv.Atoi(num)
				}
			case 'D':
				d.Days, _ = strconv.Atoi(num)
			case 'H':
				d.Hours, _ = strconv.Atoi(num)
			case 'S':
				secs, err := strconv.ParseFloat(num, 64)
				if err != nil {
					return nil, fmt.Errorf("invalid duration %q", s)
				}
				d.Seconds = int(secs)
				d.Nanoseconds = int((secs - float64(d.Seconds)) * 1e9)
			default:
				return nil, fmt.Errorf("invalid duration %q", s)
			}
			num = ""
		}
	}
	if num != "" {
		return nil, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// DateTime represents a date and time value.
type DateTime struct {
	time.Time
}

// datetimeLayouts are the wire formats accepted for DATETIME payloads.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseDateTime(s string) (*DateTime, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &DateTime{Time: t}, nil
		}
	}
	return nil, fmt.Errorf("invalid datetime %q", s)
}

// Date represents a date without time.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ToTime converts to a time.Time at midnight UTC.
func (d *Date) ToTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the ISO 8601 date string.
func (d *Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func parseDate(s string) (*Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	return &Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// Time represents a time without date.
type Time struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// String returns the ISO 8601 time string.
func (t *Time) String() string {
	if t.Nanosecond > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%09d", t.Hour, t.Minute, t.Second, t.Nanosecond)
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func parseTime(s string) (*Time, error) {
	for _, layout := range []string{"15:04:05.999999999", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &Time{
				Hour:       t.Hour(),
				Minute:     t.Minute(),
				Second:     t.Second(),
				Nanosecond: t.Nanosecond(),
			}, nil
		}
	}
	return nil, fmt.Errorf("invalid time %q", s)
}
