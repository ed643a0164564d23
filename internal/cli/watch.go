package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/models"
	"github.com/hsnsag/pillbox/internal/scheduler"
)

type WatchCmd struct {
	At string `help:"Start the simulated clock at this moment (YYYY-MM-DD HH:MM)." placeholder:"DATETIME"`
}

func (c *WatchCmd) Run(ctx *Context) error {
	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}

	clock, err := simulatedClock(c.At)
	if err != nil {
		return err
	}

	lock, err := scheduler.AcquireLock(ctx.ConfigDir)
	if err != nil {
		return fmt.Errorf("another watcher appears to be running: %w", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to release lockfile: %v\n", err)
		}
	}()

	// Snooze records only matter for a couple of days; prune on startup.
	if removed, err := ctx.Store.CleanupSnoozes(clock(), settings.SnoozeKeepDays); err == nil && removed > 0 {
		fmt.Printf("Pruned %d expired snooze record(s).\n", removed)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Watching for due doses. Press Ctrl+C to stop.")
	detector := newDetector(ctx, settings, scheduler.WithClock(clock))
	if err := detector.Run(runCtx, &promptPresenter{settings: settings}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println("Stopped.")
	return nil
}

// promptPresenter asks for a decision on a due dose with an interactive form.
type promptPresenter struct {
	settings models.Settings
}

func (p *promptPresenter) Present(occ models.Occurrence) (scheduler.Decision, error) {
	var action string
	minutes := p.settings.DefaultSnoozeMinutes

	minuteOpts := make([]huh.Option[int], len(constants.SnoozeChoices))
	for i, m := range constants.SnoozeChoices {
		minuteOpts[i] = huh.NewOption(fmt.Sprintf("%d minutes", m), m)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("%s (%s) is due at %s",
					occ.Name, occ.Dose, occ.EffectiveAt.Format(constants.TimeFormat))).
				Options(
					huh.NewOption("Take", "take"),
					huh.NewOption("Snooze", "snooze"),
					huh.NewOption("Skip", "skip"),
					huh.NewOption("Dismiss", "dismiss"),
				).
				Value(&action),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Snooze for").
				Options(minuteOpts...).
				Value(&minutes),
		).WithHideFunc(func() bool {
			return action != "snooze"
		}),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return scheduler.Decision{Dismissed: true}, nil
		}
		return scheduler.Decision{}, err
	}

	switch action {
	case "take":
		return scheduler.Decision{Action: constants.ActionTaken}, nil
	case "skip":
		return scheduler.Decision{Action: constants.ActionSkipped}, nil
	case "snooze":
		return scheduler.Decision{Action: constants.ActionSnoozed, SnoozeMinutes: minutes}, nil
	default:
		return scheduler.Decision{Dismissed: true}, nil
	}
}
