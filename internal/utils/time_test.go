package utils

import (
	"testing"
	"time"
)

func TestParseTimeToMinutes(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"23:59", 1439, false},
		{"8:00", 0, true},
		{"25:00", 0, true},
		{"notatime", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTimeToMinutes(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimeToMinutes(%q) expected error, got %d", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeToMinutes(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeToMinutes(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		ref  time.Time
		want time.Time
	}{
		{
			name: "monday maps to itself",
			ref:  time.Date(2024, 1, 1, 9, 30, 0, 0, time.Local),
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		},
		{
			name: "sunday maps back to previous monday",
			ref:  time.Date(2024, 1, 7, 23, 59, 0, 0, time.Local),
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		},
		{
			name: "wednesday mid-week",
			ref:  time.Date(2024, 1, 3, 12, 0, 0, 0, time.Local),
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		},
		{
			name: "week spanning month boundary",
			ref:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local),
			want: time.Date(2024, 1, 29, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.ref)
			if !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestCombineDateAndTime(t *testing.T) {
	date := time.Date(2024, 1, 3, 17, 45, 12, 0, time.Local)

	got, err := CombineDateAndTime(date, "08:00")
	if err != nil {
		t.Fatalf("CombineDateAndTime returned error: %v", err)
	}
	want := time.Date(2024, 1, 3, 8, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("CombineDateAndTime = %v, want %v", got, want)
	}

	if _, err := CombineDateAndTime(date, "bad"); err == nil {
		t.Error("expected error for malformed time string")
	}
}

func TestParseDateTimeRoundTrip(t *testing.T) {
	in := "2024-01-01 08:00"
	parsed, err := ParseDateTime(in)
	if err != nil {
		t.Fatalf("ParseDateTime returned error: %v", err)
	}
	if got := FormatDateTime(parsed); got != in {
		t.Errorf("FormatDateTime = %q, want %q", got, in)
	}
}

func TestTruncatedDropsSeconds(t *testing.T) {
	in := time.Date(2024, 1, 1, 8, 0, 42, 999, time.Local)
	got := Truncated(in)
	want := time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Truncated = %v, want %v", got, want)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	b := time.Date(2024, 1, 1, 23, 59, 0, 0, time.Local)
	c := time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)

	if !SameDay(a, b) {
		t.Error("expected same day for times on 2024-01-01")
	}
	if SameDay(b, c) {
		t.Error("expected different days across midnight")
	}
}
