package schedule

import (
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
)

// DueWithinWindow reports whether now falls within ±window of scheduled.
// The bounds are inclusive.
func DueWithinWindow(now, scheduled time.Time, window time.Duration) bool {
	diff := now.Sub(scheduled)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}

// BucketForHour maps an hour of day to its pillbox row. Late-night hours
// (midnight through 04:59) belong to the previous evening's Bed bucket.
func BucketForHour(hh int) constants.Bucket {
	switch {
	case hh >= 5 && hh < 12:
		return constants.BucketAM
	case hh >= 12 && hh < 15:
		return constants.BucketNoon
	case hh >= 15 && hh < 20:
		return constants.BucketPM
	case hh >= 20 || hh < 5:
		return constants.BucketBed
	}
	return constants.BucketAM
}
