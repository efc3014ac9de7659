package tui

import (
	"reflect"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/mock/gomock"

	"github.com/chupakbra/mmgroups/internal/actions/mocks"
	"github.com/chupakbra/mmgroups/internal/model"
)

var (
	alice = model.User{ID: "u1", Username: "alice", FirstName: "Alice", LastName: "Liddell"}
	bob   = model.User{ID: "u2", Username: "bob"}
)

func testGroup() model.Group {
	return model.Group{ID: "g1", Name: "devs", DisplayName: "Devs", Source: model.GroupSourceCustom, AllowReference: true}
}

func newMockService(t *testing.T) *mocks.MockGroupService {
	t.Helper()
	return mocks.NewMockGroupService(gomock.NewController(t))
}

var cmdType = reflect.TypeOf(tea.Cmd(nil))

// drain runs cmd and returns the messages it produces, flattening batches and
// sequences in order. Commands that wait on a timer (debounce, cursor blink)
// are skipped.
func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		return nil
	}
	if msg == nil {
		return nil
	}

	v := reflect.ValueOf(msg)
	if v.Kind() == reflect.Slice && v.Type().Elem() == cmdType {
		var out []tea.Msg
		for i := 0; i < v.Len(); i++ {
			sub, _ := v.Index(i).Interface().(tea.Cmd)
			out = append(out, drain(t, sub)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// find returns the first message of type T in msgs.
func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
