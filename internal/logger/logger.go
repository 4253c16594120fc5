package logger

import (
	"io"
	"os"

	"github.com/fatih/color" // Import the fatih/color package for colored console output
)

// Colors for each log level. Info and Debug go to stdout, Warn and Error to stderr
// so that diagnostics never mix with documents printed by --dry-run.
var (
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgHiMagenta)
	errorColor = color.New(color.FgRed)
	debugColor = color.New(color.FgCyan)

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Info logs informational messages in green color.
func Info(format string, a ...any) {
	infoColor.Fprintf(stdout, format, a...)
}

// Warn logs warning messages in bright magenta color.
// Magenta is bright and stands out, signaling caution without being too alarming.
func Warn(format string, a ...any) {
	warnColor.Fprintf(stderr, format, a...)
}

// Error logs error messages in red color to stderr.
func Error(format string, a ...any) {
	errorColor.Fprintf(stderr, format, a...)
}

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// This is a function variable that is assigned dynamically during Init based on debug flag.
var Debug = func(format string, a ...any) {}

// Init initializes the logger package, specifically enabling or disabling debug logging.
// When disabled, Debug is a no-op function that silently ignores debug logs.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = func(format string, a ...any) {
			debugColor.Fprintf(stdout, format, a...)
		}
	} else {
		Debug = func(format string, a ...any) {}
	}
}

// SetOutput redirects the standard and error streams, e.g. to buffers in tests.
// A nil writer restores the corresponding process stream.
func SetOutput(out, errOut io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout = out
	stderr = errOut
}
