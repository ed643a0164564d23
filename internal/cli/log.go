package cli

import (
	"fmt"
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
)

type LogListCmd struct {
	Days int `help:"Only show entries from the last N days (0 = all)." default:"0"`
}

func (c *LogListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	entries, err := ctx.Store.GetAllLogEntries()
	if c.Days > 0 {
		entries, err = ctx.Store.LogEntriesSince(time.Now().AddDate(0, 0, -c.Days))
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No dose log entries found")
		return nil
	}

	fmt.Println("Dose log:")
	for _, e := range entries {
		fmt.Printf("  #%-4d med %-3d %-8s scheduled %s  at %s\n",
			e.ID, e.MedicationID, e.Action,
			e.ScheduledAt.Format(constants.DateTimeFormat),
			e.ActualAt.Format(constants.DateTimeFormat))
	}
	return nil
}
