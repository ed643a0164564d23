package cli

import (
	"fmt"
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
)

type SnoozeListCmd struct{}

func (c *SnoozeListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	records, err := ctx.Store.GetAllSnoozes()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No snooze records found")
		return nil
	}

	fmt.Println("Snoozes:")
	for _, r := range records {
		fmt.Printf("  med %-3d %s -> %s\n",
			r.MedicationID,
			r.ScheduledAt.Format(constants.DateTimeFormat),
			r.NewAt.Format(constants.DateTimeFormat))
	}
	return nil
}

type SnoozeCleanupCmd struct {
	KeepDays int `help:"Keep records newer than this many days (default: the configured snooze_keep_days)." default:"0"`
}

func (c *SnoozeCleanupCmd) Run(ctx *Context) error {
	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}

	keepDays := c.KeepDays
	if keepDays <= 0 {
		keepDays = settings.SnoozeKeepDays
	}

	removed, err := ctx.Store.CleanupSnoozes(time.Now(), keepDays)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d snooze record(s) older than %d day(s).\n", removed, keepDays)
	return nil
}
