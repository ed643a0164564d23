package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/hsnsag/pillbox/internal/cli"
	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/errors"
	"github.com/hsnsag/pillbox/internal/keyring"
	"github.com/hsnsag/pillbox/internal/logger"
	"github.com/hsnsag/pillbox/internal/storage"
	"github.com/hsnsag/pillbox/internal/storage/postgres"
	"github.com/hsnsag/pillbox/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage location: a .db file, a directory, a postgres:// URL, or 'postgres' to use the keyring-stored connection string." type:"path" default:"~/.config/pillbox/pillbox.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init    cli.InitCmd    `cmd:"" help:"Initialize pillbox storage."`
	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive weekly pillbox." default:"1"`
	Watch   cli.WatchCmd   `cmd:"" help:"Watch for due doses and prompt for decisions."`
	Grid    cli.GridCmd    `cmd:"" help:"Print this week's dose grid."`
	Summary cli.SummaryCmd `cmd:"" help:"Show recent adherence counts."`
	Med     struct {
		Add     cli.MedAddCmd     `cmd:"" help:"Add a medication."`
		Edit    cli.MedEditCmd    `cmd:"" help:"Edit a medication."`
		List    cli.MedListCmd    `cmd:"" help:"List medications."`
		Delete  cli.MedDeleteCmd  `cmd:"" help:"Deactivate a medication (history is kept)."`
		Restore cli.MedRestoreCmd `cmd:"" help:"Restore a deactivated medication."`
	} `cmd:"" help:"Manage medications."`
	Log struct {
		List cli.LogListCmd `cmd:"" help:"Show the dose log."`
	} `cmd:"" help:"Inspect the dose log."`
	Snooze struct {
		List    cli.SnoozeListCmd    `cmd:"" help:"List snooze records."`
		Cleanup cli.SnoozeCleanupCmd `cmd:"" help:"Remove expired snooze records."`
	} `cmd:"" help:"Manage snooze records."`
	Settings struct {
		Get cli.SettingsGetCmd `cmd:"" help:"Show settings."`
		Set cli.SettingsSetCmd `cmd:"" help:"Change a setting."`
	} `cmd:"" help:"Manage settings."`
	Connection struct {
		Set    cli.ConnectionSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the system keyring."`
		Get    cli.ConnectionGetCmd    `cmd:"" help:"Show the stored connection string."`
		Delete cli.ConnectionDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage the PostgreSQL connection."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a database backup."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore a database backup."`
	} `cmd:"" help:"Manage database backups."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pillbox"),
		kong.Description("Weekly medication scheduler and dose tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	store, configDir, err := buildStore(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	appCtx := &cli.Context{
		Store:     store,
		ConfigDir: configDir,
		Debug:     CLI.Debug,
	}

	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
}

// buildStore picks the storage strategy from the config value: a postgres
// connection (direct URL or the keyring-stored one), a SQLite file, or a
// plain CSV directory. File and database strategies are wrapped with the CSV
// fallback baseline so snooze and log writes survive a rejecting primary.
func buildStore(config string) (storage.Provider, string, error) {
	if config == "postgres" || config == "postgresql" {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, "", err
		}
		config = connStr
	}

	if strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://") || strings.Contains(config, "host=") {
		dir := defaultConfigDir()
		return storage.NewFallbackStore(postgres.New(config), cli.FallbackDir(dir)), dir, nil
	}

	if strings.HasSuffix(config, ".db") {
		dir := filepath.Dir(config)
		return storage.NewFallbackStore(sqlite.NewStore(config), cli.FallbackDir(dir)), dir, nil
	}

	// A directory means the CSV baseline is the store itself.
	return storage.NewCSVStore(config), config, nil
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "pillbox")
}
