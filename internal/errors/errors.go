// Package errors prints command failures for the terminal while recording
// them in the log file, so `--debug` runs and bug reports see the same
// failure twice.
package errors

import (
	"fmt"
	"os"

	"ritual/internal/logger"
)

// Format renders err with the "Error: " prefix every command failure uses.
// A nil error renders as the empty string.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + err.Error()
}

// Formatf is Format for a format string and arguments.
func Formatf(format string, args ...interface{}) string {
	return "Error: " + fmt.Sprintf(format, args...)
}

// Fatal logs err, prints it to stderr, and exits with status 1. A nil err
// is a no-op so it can wrap the final call of main directly.
func Fatal(err error) {
	if err == nil {
		return
	}
	fail(err.Error(), Format(err))
}

// Fatalf is Fatal for a format string and arguments.
func Fatalf(format string, args ...interface{}) {
	fail(fmt.Sprintf(format, args...), Formatf(format, args...))
}

func fail(logMsg, display string) {
	logger.Error("Command execution failed", "error", logMsg)
	fmt.Fprintln(os.Stderr, display)
	os.Exit(1)
}
