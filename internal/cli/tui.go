package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hsnsag/pillbox/internal/backup"
	"github.com/hsnsag/pillbox/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}

	// Snapshot the database on startup so a bad session is recoverable.
	ctx.PerformAutomaticBackup()

	detector := newDetector(ctx, settings)
	p := tea.NewProgram(tui.NewModel(ctx.Store, detector, settings, time.Now), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}

// PerformAutomaticBackup snapshots file-backed databases. Failures are
// reported but never block startup.
func (ctx *Context) PerformAutomaticBackup() {
	path := ctx.Store.GetConfigPath()
	if !strings.HasSuffix(path, ".db") {
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: automatic backup failed: %v\n", err)
	}
}
