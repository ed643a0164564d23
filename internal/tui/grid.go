package tui

import (
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/models"
	"github.com/hsnsag/pillbox/internal/schedule"
	"github.com/hsnsag/pillbox/internal/utils"
)

// cell is one slot of the weekly grid: a bucket on a weekday, holding the
// occurrences that land there.
type cell struct {
	occurrences []models.Occurrence
}

func expandWeek(meds []models.Medication, overrides map[models.OccurrenceKey]time.Time, now time.Time) []models.Occurrence {
	return schedule.Expand(meds, overrides, now)
}

// buildGrid distributes the week's occurrences over bucket rows and weekday
// columns. Column index is Monday-first.
func buildGrid(week []models.Occurrence) map[string][7]cell {
	grid := make(map[string][7]cell)
	for _, occ := range week {
		bucket := string(schedule.BucketForHour(occ.EffectiveAt.Hour()))
		col := models.MondayIndex(occ.ScheduledAt.Weekday())
		row := grid[bucket]
		row[col].occurrences = append(row[col].occurrences, occ)
		grid[bucket] = row
	}
	return grid
}

// cellState classifies an occurrence for coloring: today's logged doses show
// their action, unlogged doses near their time show as due soon.
type cellState int

const (
	cellPlain cellState = iota
	cellTaken
	cellSkipped
	cellSnoozed
	cellDueSoon
)

func classify(occ models.Occurrence, actions map[models.OccurrenceKey]models.LogEntry, now time.Time, dueSoonMinutes int) cellState {
	if entry, ok := actions[occ.Key()]; ok && utils.SameDay(occ.ScheduledAt, now) {
		switch entry.Action {
		case constants.ActionTaken:
			return cellTaken
		case constants.ActionSkipped:
			return cellSkipped
		default:
			return cellSnoozed
		}
	}
	if utils.SameDay(occ.ScheduledAt, now) {
		window := time.Duration(dueSoonMinutes) * time.Minute
		if schedule.DueWithinWindow(now, occ.EffectiveAt, window) {
			return cellDueSoon
		}
	}
	return cellPlain
}
