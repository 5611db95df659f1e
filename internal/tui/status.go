package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/stlview/internal/viewer"
)

// keyControl stands in for a button: the controller switches it and the
// status line shows it only while enabled.
type keyControl struct {
	key      string
	label    string
	disabled bool
}

func (k *keyControl) Enable()        { k.disabled = false }
func (k *keyControl) Disable()       { k.disabled = true }
func (k *keyControl) Disabled() bool { return k.disabled }

// statusLine renders the bottom row: what is loaded, then the keys that
// currently do something, then the last message.
func statusLine(s viewer.State, controls []*keyControl, canLoad bool, message string) string {
	var sb strings.Builder

	if s.Loaded {
		fmt.Fprintf(&sb, " %s  %d tris", filepath.Base(s.Path), s.Triangles)
		if s.HasTransform {
			fmt.Fprintf(&sb, "  @(%g,%g,%g)", s.Translation.X, s.Translation.Y, s.Translation.Z)
		}
	} else {
		sb.WriteString(" no file")
	}

	sb.WriteString("  |")
	if canLoad {
		sb.WriteString(" o:load")
	}
	for _, c := range controls {
		if !c.disabled {
			fmt.Fprintf(&sb, " %s:%s", c.key, c.label)
		}
	}
	fmt.Fprintf(&sb, " w:%s r:reset esc:quit", s.Representation)

	if message != "" {
		sb.WriteString("  | ")
		sb.WriteString(message)
	}
	return sb.String()
}
