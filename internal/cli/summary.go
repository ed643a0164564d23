package cli

import (
	"fmt"

	"github.com/hsnsag/pillbox/internal/schedule"
)

type SummaryCmd struct {
	Days int    `help:"Window size in days." default:"7"`
	At   string `help:"Compute the window as of this moment (YYYY-MM-DD HH:MM)." placeholder:"DATETIME"`
}

func (c *SummaryCmd) Validate() error {
	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	return nil
}

func (c *SummaryCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	clock, err := simulatedClock(c.At)
	if err != nil {
		return err
	}
	now := clock()
	entries, err := ctx.Store.LogEntriesSince(now.AddDate(0, 0, -c.Days))
	if err != nil {
		return err
	}

	s := schedule.Summarize(entries, now, c.Days)
	fmt.Printf("Last %d days:\n", c.Days)
	fmt.Printf("  taken:   %d\n", s.Taken)
	fmt.Printf("  skipped: %d\n", s.Skipped)
	fmt.Printf("  snoozed: %d\n", s.Snoozed)
	if s.Taken+s.Skipped > 0 {
		fmt.Printf("  adherence: %.0f%% (snoozes not counted as outcomes)\n", s.AdherencePercent())
	} else {
		fmt.Println("  no outcomes recorded in this window")
	}
	return nil
}
