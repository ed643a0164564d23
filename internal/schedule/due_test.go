package schedule

import (
	"testing"
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
)

func TestDueWithinWindow(t *testing.T) {
	sched := time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)
	window := 60 * time.Second

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"exactly on time", sched, true},
		{"59s late", sched.Add(59 * time.Second), true},
		{"60s late boundary", sched.Add(60 * time.Second), true},
		{"61s late", sched.Add(61 * time.Second), false},
		{"59s early", sched.Add(-59 * time.Second), true},
		{"60s early boundary", sched.Add(-60 * time.Second), true},
		{"61s early", sched.Add(-61 * time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DueWithinWindow(tt.now, sched, window); got != tt.want {
				t.Errorf("DueWithinWindow(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestBucketForHour(t *testing.T) {
	tests := []struct {
		hour int
		want constants.Bucket
	}{
		{5, constants.BucketAM},
		{11, constants.BucketAM},
		{12, constants.BucketNoon},
		{14, constants.BucketNoon},
		{15, constants.BucketPM},
		{19, constants.BucketPM},
		{20, constants.BucketBed},
		{23, constants.BucketBed},
		{0, constants.BucketBed},
		{4, constants.BucketBed},
	}

	for _, tt := range tests {
		if got := BucketForHour(tt.hour); got != tt.want {
			t.Errorf("BucketForHour(%d) = %s, want %s", tt.hour, got, tt.want)
		}
	}
}
