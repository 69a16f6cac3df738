package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/aaronch12Ch/portafolio-sp/admin"
)

// Notifier prints admin notifications as styled lines.
type Notifier struct {
	Out io.Writer
}

func NewNotifier() *Notifier {
	return &Notifier{Out: os.Stderr}
}

func (n *Notifier) Notify(level admin.Level, message string) {
	var line string
	switch level {
	case admin.LevelSuccess:
		line = RenderSuccess(message)
	case admin.LevelWarning:
		line = RenderWarning(message)
	case admin.LevelError:
		line = RenderError(message)
	default:
		line = RenderInfo(message)
	}
	fmt.Fprintln(n.Out, line)
}
