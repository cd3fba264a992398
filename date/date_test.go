package date

import (
	"testing"
	"time"
)

// TestTime assert that the Time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.Time() != d2.Time() {
		t.Errorf("invalid Time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	d := New(2022, time.January, 32)
	if got, want := d.String(), "2022-02-01"; got != want {
		t.Errorf("New(2022, 1, 32) = %q, want %q", got, want)
	}
}

func TestParseAny(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOk bool
	}{
		{"2022-01-31", "2022-01-31", true},
		{"31-01-2022", "2022-01-31", true},
		{"31/01/2022", "2022-01-31", true},
		{"2022/01/31", "2022-01-31", true},
		{"31-Jan-2022", "2022-01-31", true},
		{"31-JAN-2022", "2022-01-31", true},
		{"31 Jan 2022", "2022-01-31", true},
		{"Jan 31, 2022", "2022-01-31", true},
		{"January 31, 2022", "2022-01-31", true},
		{"31-01-22", "2022-01-31", true},
		{"31/01/22", "2022-01-31", true},
		{"31-January-2022", "2022-01-31", true},
		{"31 January 2022", "2022-01-31", true},
		{"31.01.2022", "2022-01-31", true},
		{"31.01.22", "2022-01-31", true},
		{"1/2/2022", "2022-02-01", true},
		{"20220131", "2022-01-31", true},
		{"  31-01-2022  ", "2022-01-31", true},
		{"not-a-date", "", false},
		{"", "", false},
		{"32-01-2022", "", false},
		{"20221331", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseAny(tt.in)
		if ok != tt.wantOk {
			t.Errorf("ParseAny(%q) ok = %v, want %v", tt.in, ok, tt.wantOk)
			continue
		}
		if ok && got.String() != tt.want {
			t.Errorf("ParseAny(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("2025-7-1")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if got, want := d.String(), "2025-07-01"; got != want {
		t.Errorf("Parse() = %q, want %q", got, want)
	}
	if _, err := Parse("01/07/2025"); err == nil {
		t.Errorf("Parse(%q) expected an error", "01/07/2025")
	}
}

func TestJSON(t *testing.T) {
	d := New(2024, time.March, 5)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() unexpected error: %v", err)
	}
	if got, want := string(b), `"2024-03-05"`; got != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON() unexpected error: %v", err)
	}
	if back != d {
		t.Errorf("UnmarshalJSON() = %v, want %v", back, d)
	}
}
