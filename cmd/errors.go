package cmd

import (
	"fmt"
	"os"
)

// PrintError prints an error message without exiting, allowing for
// recovery. By default the clean, user-friendly message is shown; with
// --verbose the full technical error is printed instead.
func PrintError(userMsg string, technicalErr error) {
	if isVerbose() && technicalErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", technicalErr)
	} else {
		fmt.Fprintln(os.Stderr, userMsg)
	}
}

// HandleFatalError handles unrecoverable errors that should terminate
// the application.
func HandleFatalError(userMsg string, technicalErr error) {
	PrintError(userMsg, technicalErr)
	os.Exit(1)
}

// LogError logs an error to stderr only when verbose mode is on.
func LogError(msg string, err error) {
	if isVerbose() {
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s: %v\n", msg, err)
		} else {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s\n", msg)
		}
	}
}
