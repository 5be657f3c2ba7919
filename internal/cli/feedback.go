package cli

import (
	"io"

	"github.com/julianstephens/habithub/internal/logger"
)

// consoleFeedback reports toggle results as a one-line message
type consoleFeedback struct {
	out io.Writer
}

func (f consoleFeedback) Success() {
	_, _ = io.WriteString(f.out, green("✓ Nice work, marked complete")+"\n")
}

func (f consoleFeedback) LightImpact() {
	_, _ = io.WriteString(f.out, faint("○ Marked not complete")+"\n")
}

func (f consoleFeedback) Failure(err error) {
	logger.Debug("toggle failed", "error", err)
	_, _ = io.WriteString(f.out, red("✗ Could not save the change")+"\n")
}
