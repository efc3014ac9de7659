package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// tableFilter is a value type that provides live filtering for table rows.
// Each screen or modal owns its own instance. Press "/" to activate, type to
// filter, Esc/Enter to deactivate (keeping the filter text applied), Ctrl+U
// to clear.
type tableFilter struct {
	active bool
	text   string
}

// handleKey processes key events when the filter is active. The returned flag
// reports whether the filter text changed and rows need rebuilding.
func (f tableFilter) handleKey(msg tea.KeyMsg) (tableFilter, bool) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		f.active = false
		return f, false
	case tea.KeyBackspace:
		if f.text == "" {
			return f, false
		}
		r := []rune(f.text)
		f.text = string(r[:len(r)-1])
		return f, true
	case tea.KeyCtrlU:
		if f.text == "" {
			return f, false
		}
		f.text = ""
		return f, true
	case tea.KeySpace:
		f.text += " "
		return f, true
	case tea.KeyRunes:
		f.text += string(msg.Runes)
		return f, true
	}
	return f, false
}

// matches reports whether every word of the filter text appears, as a
// case-insensitive substring, in at least one of fields. "eng ali" matches a
// member row whose username holds "ali" and whose email holds "eng".
func (f tableFilter) matches(fields ...string) bool {
	words := strings.Fields(strings.ToLower(f.text))
	if len(words) == 0 {
		return true
	}
	lowered := make([]string, len(fields))
	for i, field := range fields {
		lowered[i] = strings.ToLower(field)
	}
	for _, w := range words {
		found := false
		for _, field := range lowered {
			if strings.Contains(field, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f tableFilter) hasActiveFilter() bool {
	return strings.TrimSpace(f.text) != ""
}

func (f *tableFilter) clear() {
	f.active = false
	f.text = ""
}

// renderLine returns the filter status line, or "" when there is nothing to show.
func (f tableFilter) renderLine() string {
	switch {
	case f.active:
		return renderHelp("[/] Filter: ") + StyleWarning.Render(f.text+"_") + renderHelp("  [Ctrl+U] clear  [Esc] close")
	case f.text != "":
		return renderHelp("[/] Filter: ") + StyleWarning.Render(f.text) + renderHelp("  [Ctrl+U] clear")
	}
	return ""
}
