package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/keyring"
	"github.com/hsnsag/pillbox/internal/storage"
	"github.com/hsnsag/pillbox/internal/storage/sqlite"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: storage reachable
	if err := checkStorageReachable(ctx); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		storeReachable = true
	}

	// Check 2: settings valid (only if storage is reachable)
	if storeReachable {
		if err := checkSettings(ctx); err != nil {
			fmt.Printf("❌ Settings: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Settings: OK\n")
		}
	} else {
		fmt.Printf("⊘ Settings: SKIPPED (storage not reachable)\n")
	}

	// Check 3: stranded fallback records (warning only)
	if count, err := strandedFallbackRecords(ctx); err != nil {
		fmt.Printf("⚠ Fallback baseline: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else if count > 0 {
		fmt.Printf("⚠ Fallback baseline: %d record(s) stranded in %s\n", count, FallbackDir(ctx.ConfigDir))
		fmt.Printf("   These were written while the primary store was rejecting writes.\n")
	} else {
		fmt.Printf("✓ Fallback baseline: empty\n")
	}

	// Check 4: keyring availability (warning only; needed for postgres)
	if keyring.IsAvailable() {
		fmt.Printf("✓ System keyring: available\n")
	} else {
		fmt.Printf("⚠ System keyring: unavailable (postgres connection strings cannot be stored)\n")
	}

	// Check 5: watcher lockfile
	if err := checkLockfile(ctx); err != nil {
		fmt.Printf("⚠ Watcher lockfile: %v\n", err)
	} else {
		fmt.Printf("✓ Watcher lockfile: clear\n")
	}

	// Check 6: backups present (warning only, file-backed storage only)
	checkBackupsPresent(ctx)

	// Check 7: clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	if sqliteStore, ok := primaryStore(ctx).(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

// primaryStore unwraps the fallback layer so type checks see the real store.
func primaryStore(ctx *Context) storage.Provider {
	if fb, ok := ctx.Store.(*storage.FallbackStore); ok {
		return fb.Primary()
	}
	return ctx.Store
}

func checkSettings(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.Validate()
}

func strandedFallbackRecords(ctx *Context) (int, error) {
	fb, ok := ctx.Store.(*storage.FallbackStore)
	if !ok {
		return 0, nil
	}

	baseline := fb.Backup()
	snoozes, err := baseline.GetAllSnoozes()
	if err != nil {
		return 0, fmt.Errorf("failed to read baseline snoozes: %w", err)
	}
	entries, err := baseline.GetAllLogEntries()
	if err != nil {
		return 0, fmt.Errorf("failed to read baseline log: %w", err)
	}
	return len(snoozes) + len(entries), nil
}

func checkLockfile(ctx *Context) error {
	path := filepath.Join(ctx.ConfigDir, constants.WatchLockfileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("lockfile present at %s (a watcher is running, or a previous one did not exit cleanly)", path)
}

func checkBackupsPresent(ctx *Context) {
	mgr, err := backupManager(ctx)
	if err != nil {
		fmt.Printf("⊘ Backups: SKIPPED (%v)\n", err)
		return
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		fmt.Printf("⚠ Backups: WARNING\n   failed to list backups: %v\n", err)
		return
	}
	if len(backups) == 0 {
		fmt.Printf("⚠ Backups: none found - consider creating one with 'pillbox backup create'\n")
		return
	}
	fmt.Printf("✓ Backups present: OK (%d)\n", len(backups))
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	_, offset := now.Zone()
	if offset == 0 && now.Location() == time.UTC {
		fmt.Printf("   Note: timezone is UTC\n")
	}
	return nil
}
