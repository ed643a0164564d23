// Package errors renders command failures for the terminal. The log file is
// usually the only trace left after a died TUI session, so the fatal helpers
// record the failure there before printing and exiting.
package errors

import (
	"fmt"
	"os"

	"github.com/hsnsag/pillbox/internal/logger"
)

// Format renders err with the "Error: " prefix every pillbox command uses.
// A nil error renders as the empty string.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf is Format for a message built from a format string.
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs the failure, prints it to stderr, and exits with code 1. A nil
// error is a no-op so callers can pass command results through unchecked.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}

// Fatalf is Fatal for a message built from a format string. Unlike Fatal it
// always exits.
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintln(os.Stderr, "Error: "+msg)
	os.Exit(1)
}
