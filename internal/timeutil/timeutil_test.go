package timeutil

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2026, 8, 28, h, m, 0, 0, time.UTC)
}

func TestWithinOpenHours(t *testing.T) {
	tests := []struct {
		name        string
		open, close string
		at          time.Time
		want        bool
	}{
		{"inside window", "13:00", "23:30", at(14, 0), true},
		{"exactly at open", "13:00", "23:30", at(13, 0), true},
		{"exactly at close", "13:00", "23:30", at(23, 30), true},
		{"before open", "13:00", "23:30", at(12, 59), false},
		{"after close", "13:00", "23:30", at(23, 31), false},
		{"overnight, late evening", "12:00", "01:00", at(23, 45), true},
		{"overnight, after midnight", "12:00", "01:00", at(0, 30), true},
		{"overnight, closed morning", "12:00", "01:00", at(9, 0), false},
		{"malformed open counts as open", "not-a-time", "23:00", at(3, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinOpenHours(tt.open, tt.close, tt.at); got != tt.want {
				t.Errorf("WithinOpenHours(%q, %q, %v) = %v, want %v", tt.open, tt.close, tt.at, got, tt.want)
			}
		})
	}
}

func TestFormatRelativeDay(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) // a Friday

	tests := []struct {
		name      string
		t         time.Time
		lowercase bool
		want      string
	}{
		{"today", time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC), false, "Hoy a las 14:30h"},
		{"today lowercase", time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC), true, "hoy a las 14:30h"},
		{"tomorrow", time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC), false, "Mañana a las 09:00h"},
		{"later weekday", time.Date(2026, 8, 31, 18, 15, 0, 0, time.UTC), false, "el lunes 31 a las 18:15h"},
		{"zero time", time.Time{}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRelativeDay(tt.t, now, tt.lowercase); got != tt.want {
				t.Errorf("FormatRelativeDay() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDatetimeLocalRoundTrip(t *testing.T) {
	orig := time.Date(2026, 8, 28, 7, 5, 0, 0, time.Local)
	s := FormatDatetimeLocal(orig)
	if s != "2026-08-28T07:05" {
		t.Fatalf("format: got %q", s)
	}
	back, err := ParseDatetimeLocal(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !back.Equal(orig) {
		t.Errorf("round trip: got %v, want %v", back, orig)
	}
}

func TestAddSubtractSeconds(t *testing.T) {
	base := at(12, 0)
	if got := AddSeconds(base, 5400); !got.Equal(at(13, 30)) {
		t.Errorf("AddSeconds: got %v", got)
	}
	if got := SubtractSeconds(base, 3600); !got.Equal(at(11, 0)) {
		t.Errorf("SubtractSeconds: got %v", got)
	}
}
