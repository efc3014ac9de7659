package tui

import (
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chupakbra/mmgroups/internal/model"
)

// modalKind identifies which dialog the router is showing.
type modalKind int

const (
	modalNone modalKind = iota
	modalViewGroup
	modalAddMembers
	modalEditGroup
)

// modalExitedMsg tells the router the modal with this id has torn down.
type modalExitedMsg struct{ id int64 }

// Requests to open a dialog for a group.
type (
	openViewGroupMsg  struct{ group model.Group }
	openAddMembersMsg struct{ group model.Group }
	openEditGroupMsg  struct{ group model.Group }
)

// modalResult is implemented by async messages addressed to one modal
// instance. The router drops them once that instance is gone.
type modalResult interface {
	modalID() int64
}

var lastModalID atomic.Int64

func nextModalID() int64 {
	return lastModalID.Add(1)
}

// modalNav holds the navigation hooks a host hands to a modal.
type modalNav struct {
	back   tea.Cmd // opens the predecessor modal; nil when there is none
	exited tea.Cmd // signals this modal's own teardown
}

func newModalNav(id int64, back tea.Cmd) modalNav {
	return modalNav{
		back:   back,
		exited: func() tea.Msg { return modalExitedMsg{id: id} },
	}
}

// goBack requests the predecessor before signalling exit, so the router
// always has a modal to render in between.
func (n modalNav) goBack() tea.Cmd {
	if n.back == nil {
		return n.exited
	}
	return tea.Sequence(n.back, n.exited)
}

// dismiss closes the modal for good. The predecessor is not reopened.
func (n modalNav) dismiss() tea.Cmd {
	return n.exited
}

func openViewGroupCmd(g model.Group) tea.Cmd {
	return func() tea.Msg { return openViewGroupMsg{group: g} }
}

// renderModal frames lines in the modal box and centres it on screen.
func renderModal(lines []string, width, height int) string {
	boxWidth := 72
	if width > 0 && width-4 < boxWidth {
		boxWidth = width - 4
	}
	box := StyleModal.Width(boxWidth).Render(strings.Join(lines, "\n"))
	if width == 0 || height == 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// fieldLabel renders a form label, highlighted when its input has focus.
func fieldLabel(label string, focused bool) string {
	if focused {
		return StyleWarning.Render(label)
	}
	return StyleDim.Render(label)
}
