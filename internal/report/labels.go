package report

import (
	"github.com/fatih/color"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
)

// Labels maps a status to its terminal text. Colour is decided by the
// fatih/color global switch, which the composition root sets once.
type Labels struct {
	colors map[execution.Status]*color.Color
}

// NewLabels returns the default palette: green AC, red WA, yellow RE and
// TIMEOUT, plain SHOW.
func NewLabels() Labels {
	return Labels{colors: map[execution.Status]*color.Color{
		execution.StatusAccepted:    color.New(color.FgGreen),
		execution.StatusWrongAnswer: color.New(color.FgRed),
		execution.StatusRuntimeErr:  color.New(color.FgYellow),
		execution.StatusTimeout:     color.New(color.FgYellow),
	}}
}

// Label returns the display text for status.
func (l Labels) Label(status execution.Status) string {
	text := string(status)
	if c, ok := l.colors[status]; ok {
		return c.Sprint(text)
	}
	return text
}

// SetColor forces colour on or off for every label.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}
