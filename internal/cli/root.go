package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hsnsag/pillbox/internal/models"
	"github.com/hsnsag/pillbox/internal/scheduler"
	"github.com/hsnsag/pillbox/internal/storage"
	"github.com/hsnsag/pillbox/internal/utils"
)

type Context struct {
	Store storage.Provider

	// ConfigDir is the directory holding the lockfile, logs, and the CSV
	// fallback baseline. For directory-backed storage it is the storage
	// directory itself.
	ConfigDir string

	Debug bool
}

// loadSettings loads the store and returns its settings, falling back to the
// defaults when the stored ones are unreadable.
func loadSettings(ctx *Context) (models.Settings, error) {
	if err := ctx.Store.Load(); err != nil {
		return models.Settings{}, err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return models.DefaultSettings(), nil
	}
	return settings, nil
}

// newDetector builds the due-dose detector every interactive surface shares.
func newDetector(ctx *Context, settings models.Settings, opts ...scheduler.Option) *scheduler.Detector {
	return scheduler.New(ctx.Store, settings, opts...)
}

// simulatedClock returns a clock that starts at the given wall-clock moment
// and advances in real time from there. An empty value means the real clock.
func simulatedClock(at string) (func() time.Time, error) {
	if at == "" {
		return time.Now, nil
	}
	start, err := utils.ParseDateTime(at)
	if err != nil {
		return nil, fmt.Errorf("invalid --at value: %w", err)
	}
	delta := time.Until(start)
	return func() time.Time {
		return time.Now().Add(delta)
	}, nil
}

// FallbackDir is where rejected primary writes are spilled as CSV.
func FallbackDir(configDir string) string {
	return filepath.Join(configDir, "fallback")
}

func formatMedication(med models.Medication) string {
	status := "active"
	if !med.Active {
		status = "inactive"
	}
	return fmt.Sprintf("  [%s] #%d %s %s at %s on %s",
		status, med.ID, med.Name, med.Dose, med.TimesCSV(), med.Days.Names())
}

func parseTimesFlag(s string) ([]string, error) {
	var times []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		times = append(times, part)
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("at least one time is required")
	}
	return times, nil
}
