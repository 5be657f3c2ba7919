package tui

import (
	"fmt"

	"github.com/julianstephens/habithub/internal/logger"
)

type statusKind int

const (
	statusNone statusKind = iota
	statusSuccess
	statusInfo
	statusError
)

// statusLine is the TUI's toggle feedback. It is shared by pointer so the
// message survives Model copies.
type statusLine struct {
	kind statusKind
	text string
}

func (s *statusLine) Success() {
	s.set(statusSuccess, "✓ Nice work, marked complete")
}

func (s *statusLine) LightImpact() {
	s.set(statusInfo, "○ Marked not complete")
}

func (s *statusLine) Failure(err error) {
	logger.Debug("toggle failed", "error", err)
	s.set(statusError, "✗ Could not save the change")
}

func (s *statusLine) set(kind statusKind, text string) {
	s.kind = kind
	s.text = text
}

func (s *statusLine) infof(format string, args ...any) {
	s.set(statusInfo, fmt.Sprintf(format, args...))
}

func (s *statusLine) errorf(format string, args ...any) {
	s.set(statusError, fmt.Sprintf(format, args...))
}

func (s *statusLine) clear() {
	s.set(statusNone, "")
}

func (s *statusLine) View() string {
	switch s.kind {
	case statusSuccess:
		return successStyle.Render(s.text)
	case statusError:
		return dangerStyle.Render(s.text)
	case statusInfo:
		return subtleStyle.Render(s.text)
	}
	return ""
}
