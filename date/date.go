// Package date provides a day-granularity Date and the lenient parsing used
// to read dates printed on brokerage statements.
package date

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// Layouts is the ordered list of layouts tried by ParseAny. The first layout
// that parses the whole input wins.
//
// Day and month use the non-padded verbs so that "1/2/2022" and "01/02/2022"
// are both accepted. Four-digit years are tried before two-digit years for
// every separator so that "31-01-2022" never reads as year 2020.
var Layouts = []string{
	"2006-1-2",
	"2-1-2006",
	"2/1/2006",
	"2006/1/2",
	"2-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-1-06",
	"2/1/06",
	"06-1-2",
	"06/1/2",
	"2-January-2006",
	"2 January 2006",
	"2.1.2006",
	"2.1.06",
}

// compactLayout handles raw YYYYMMDD dates, tried after all Layouts.
const compactLayout = "20060102"

var compactRegex = regexp.MustCompile(`^\d{8}$`)

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.Time().Date()
	return d
}

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.Time().Before(x.Time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.Time().After(x.Time()) }

// String format the date in its standard format.
func (d Date) String() string { return d.Time().Format(DateFormat) }

// Parse parses a Date from a string. It is lenient and accepts formats like "2025-7-1".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, readDateFormat, err)
	}
	return New(on.Date()), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// ParseAny tries every layout in Layouts, then the compact YYYYMMDD form.
// The input is trimmed first. It reports false if nothing matched.
func ParseAny(str string) (Date, bool) {
	str = strings.TrimSpace(str)
	if str == "" {
		return Date{}, false
	}
	for _, layout := range Layouts {
		if on, err := time.Parse(layout, str); err == nil {
			return New(on.Date()), true
		}
	}
	if compactRegex.MatchString(str) {
		if on, err := time.Parse(compactLayout, str); err == nil {
			return New(on.Date()), true
		}
	}
	return Date{}, false
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	d, err := Parse(str)
	if err != nil {
		return err
	}
	*j = d
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
