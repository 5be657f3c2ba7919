package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"sync"

	"github.com/julianstephens/habithub/internal/logger"
)

var (
	hintsMu sync.RWMutex
	hints   []hint
)

type hint struct {
	target error
	text   string
}

// RegisterHint attaches a follow-up suggestion to every error matching target.
func RegisterHint(target error, text string) {
	hintsMu.Lock()
	defer hintsMu.Unlock()
	hints = append(hints, hint{target: target, text: text})
}

// Hint returns the registered suggestion for err, if any
func Hint(err error) string {
	hintsMu.RLock()
	defer hintsMu.RUnlock()
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.text
		}
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix
// followed by a hint line when one is registered.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if h := Hint(err); h != "" {
		msg += "\n  hint: " + h
	}
	return msg
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, Format(err))
		os.Exit(1)
	}
}
