// Package tui implements the interactive terminal user interface for mmgroups.
package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chupakbra/mmgroups/internal/actions"
	"github.com/chupakbra/mmgroups/internal/config"
	"github.com/chupakbra/mmgroups/internal/model"
)

type screen int

const (
	screenSelector screen = iota
	screenGroups
)

// appModel is the top-level Bubble Tea model acting as a screen router. At
// most one modal is shown on top of the groups screen.
type appModel struct {
	screen   screen
	width    int
	height   int
	selector selectorModel
	groups   groupsModel

	svc actions.GroupService
	me  *model.User

	modal      modalKind
	viewGroup  viewGroupModal
	addMembers addMembersModal
	editGroup  editGroupModal

	// Services already verified this session, shared with the selector.
	cache map[string]actions.GroupService
}

func newAppModel(cfg *config.Config) appModel {
	cache := make(map[string]actions.GroupService)
	return appModel{
		screen:   screenSelector,
		selector: newSelectorModel(cfg, cache),
		cache:    cache,
	}
}

func (a appModel) Init() tea.Cmd {
	return a.selector.init()
}

// activeModalID returns the id of the modal on screen, or 0 when none is.
func (a appModel) activeModalID() int64 {
	switch a.modal {
	case modalViewGroup:
		return a.viewGroup.id
	case modalAddMembers:
		return a.addMembers.id
	case modalEditGroup:
		return a.editGroup.id
	}
	return 0
}

func (a appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.selector.width = msg.Width
		a.selector.height = msg.Height
		a.selector.table = a.selector.buildTable()
		a.groups.width = msg.Width
		a.groups.height = msg.Height
		if !a.groups.loading && len(a.groups.groups) > 0 {
			a.groups = a.groups.withRebuiltTable()
		}
		a.viewGroup.width, a.viewGroup.height = msg.Width, msg.Height
		if a.modal == modalViewGroup && !a.viewGroup.loading {
			a.viewGroup = a.viewGroup.withRebuiltTable()
		}
		a.addMembers.width, a.addMembers.height = msg.Width, msg.Height
		a.editGroup.width, a.editGroup.height = msg.Width, msg.Height
		return a, nil

	case instanceSelectedMsg:
		a.screen = screenGroups
		a.selector.connecting = false
		a.selector.current = msg.name
		a.selector.table = a.selector.buildTable()
		a.cache[msg.name] = msg.svc
		a.svc = msg.svc
		a.me = msg.me
		a.modal = modalNone
		if msg.me != nil {
			slog.Info("connected", "instance", msg.name, "user", msg.me.Username)
		}
		a.groups = newGroupsModel(msg.svc, msg.name, a.width, a.height)
		return a, a.groups.init()

	case openViewGroupMsg:
		a.viewGroup = newViewGroupModal(a.svc, msg.group, a.width, a.height)
		a.modal = modalViewGroup
		return a, a.viewGroup.init()

	case openAddMembersMsg:
		a.addMembers = newAddMembersModal(a.svc, msg.group, openViewGroupCmd(msg.group), a.width, a.height)
		a.modal = modalAddMembers
		return a, a.addMembers.init()

	case openEditGroupMsg:
		a.editGroup = newEditGroupModal(a.svc, msg.group, openViewGroupCmd(msg.group), a.width, a.height)
		a.modal = modalEditGroup
		return a, a.editGroup.init()

	case modalExitedMsg:
		// After goBack the predecessor is already up, so the exit of the
		// modal it replaced no longer matches and is ignored.
		if a.modal == modalNone || msg.id != a.activeModalID() {
			return a, nil
		}
		a.modal = modalNone
		if a.screen == screenGroups {
			var cmd tea.Cmd
			a.groups, cmd = a.groups.reload()
			return a, cmd
		}
		return a, nil

	case modalResult:
		if a.modal == modalNone || msg.modalID() != a.activeModalID() {
			slog.Debug("dropping result for closed dialog", "modal", msg.modalID())
			return a, nil
		}
		return a.updateModal(msg)

	case spinner.TickMsg:
		// Every spinner has its own id and ignores ticks meant for others.
		var screenCmd tea.Cmd
		a, screenCmd = a.updateScreen(msg)
		if a.modal == modalNone {
			return a, screenCmd
		}
		next, modalCmd := a.updateModal(msg)
		return next, tea.Batch(screenCmd, modalCmd)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.modal != modalNone {
			return a.updateModal(msg)
		}
		switch msg.String() {
		case "Q":
			if a.inputActive() {
				break
			}
			return a, tea.Quit
		case "esc":
			if a.screen == screenGroups && !a.groups.filter.active {
				a.groups.clearFilter()
				a.screen = screenSelector
				return a, nil
			}
		}
		return a.updateScreen(msg)
	}

	// Everything else (fetch results, cursor blinks) goes to the screen and
	// to the modal on top of it.
	var screenCmd tea.Cmd
	a, screenCmd = a.updateScreen(msg)
	if a.modal == modalNone {
		return a, screenCmd
	}
	next, modalCmd := a.updateModal(msg)
	return next, tea.Batch(screenCmd, modalCmd)
}

// inputActive reports whether the current screen is capturing typed text.
func (a appModel) inputActive() bool {
	switch a.screen {
	case screenSelector:
		return a.selector.mode == selectorAdding
	case screenGroups:
		return a.groups.filter.active
	}
	return false
}

func (a appModel) updateScreen(msg tea.Msg) (appModel, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case screenSelector:
		a.selector, cmd = a.selector.update(msg)
	case screenGroups:
		a.groups, cmd = a.groups.update(msg)
	}
	return a, cmd
}

func (a appModel) updateModal(msg tea.Msg) (appModel, tea.Cmd) {
	var cmd tea.Cmd
	switch a.modal {
	case modalViewGroup:
		a.viewGroup, cmd = a.viewGroup.update(msg)
	case modalAddMembers:
		a.addMembers, cmd = a.addMembers.update(msg)
	case modalEditGroup:
		a.editGroup, cmd = a.editGroup.update(msg)
	}
	return a, cmd
}

func (a appModel) View() string {
	// A dismissed modal renders nothing until its exit message arrives, so
	// the screen underneath shows through.
	var modal string
	switch a.modal {
	case modalViewGroup:
		modal = a.viewGroup.view()
	case modalAddMembers:
		modal = a.addMembers.view()
	case modalEditGroup:
		modal = a.editGroup.view()
	}
	if modal != "" {
		return modal
	}
	switch a.screen {
	case screenSelector:
		return a.selector.view()
	case screenGroups:
		return a.groups.view()
	}
	return ""
}

// LaunchTUI starts the Bubble Tea program and blocks until the user quits.
func LaunchTUI(cfg *config.Config) error {
	m := newAppModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
