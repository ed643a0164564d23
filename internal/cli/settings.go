package cli

import (
	"fmt"
	"strconv"
)

type SettingsGetCmd struct{}

func (c *SettingsGetCmd) Run(ctx *Context) error {
	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Settings:")
	fmt.Printf("  tick_seconds:           %d\n", settings.TickSeconds)
	fmt.Printf("  due_window_seconds:     %d\n", settings.DueWindowSeconds)
	fmt.Printf("  due_soon_minutes:       %d\n", settings.DueSoonMinutes)
	fmt.Printf("  default_snooze_minutes: %d\n", settings.DefaultSnoozeMinutes)
	fmt.Printf("  snooze_keep_days:       %d\n", settings.SnoozeKeepDays)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name (tick_seconds, due_window_seconds, due_soon_minutes, default_snooze_minutes, snooze_keep_days)."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}

	value, err := strconv.Atoi(c.Value)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", c.Value, err)
	}

	switch c.Key {
	case "tick_seconds":
		settings.TickSeconds = value
	case "due_window_seconds":
		settings.DueWindowSeconds = value
	case "due_soon_minutes":
		settings.DueSoonMinutes = value
	case "default_snooze_minutes":
		settings.DefaultSnoozeMinutes = value
	case "snooze_keep_days":
		settings.SnoozeKeepDays = value
	default:
		return fmt.Errorf("unknown setting: %s", c.Key)
	}

	if err := settings.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return err
	}

	fmt.Printf("Set %s = %d\n", c.Key, value)
	return nil
}
