package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chupakbra/mmgroups/internal/actions"
	"github.com/chupakbra/mmgroups/internal/groupform"
	"github.com/chupakbra/mmgroups/internal/model"
)

const (
	editFieldName = iota
	editFieldMention
)

// groupPatchedMsg is sent when the patch call returns.
type groupPatchedMsg struct {
	id    int64
	group *model.Group
	err   error
}

func (m groupPatchedMsg) modalID() int64 { return m.id }

// editGroupModal is the Edit Group Details dialog.
type editGroupModal struct {
	id      int64
	svc     actions.GroupService
	group   model.Group
	draft   groupform.EditDraft
	nav     modalNav
	visible bool

	// [0]=display name [1]=mention
	inputs  [2]textinput.Model
	focus   int
	spinner spinner.Model

	width  int
	height int
}

func newEditGroupModal(svc actions.GroupService, g model.Group, back tea.Cmd, w, h int) editGroupModal {
	draft := groupform.NewEditDraft(g)

	placeholders := [2]string{"Name", "@mention"}
	values := [2]string{draft.Name, draft.Mention}
	// The mention is unlimited so a derived value is never cut short; the
	// server rejects one that is too long.
	limits := [2]int{model.GroupDisplayNameMaxLength, 0}
	var inputs [2]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.SetValue(values[i])
		inputs[i] = ti
	}
	inputs[editFieldName].Focus()

	id := nextModalID()
	return editGroupModal{
		id:      id,
		svc:     svc,
		group:   g,
		draft:   draft,
		nav:     newModalNav(id, back),
		visible: true,
		inputs:  inputs,
		spinner: newSpinner(),
		width:   w,
		height:  h,
	}
}

func (m editGroupModal) init() tea.Cmd {
	return textinput.Blink
}

func (m editGroupModal) update(msg tea.Msg) (editGroupModal, tea.Cmd) {
	switch msg := msg.(type) {
	case groupPatchedMsg:
		m.draft = m.draft.Resolve(msg.err)
		if msg.err != nil {
			slog.Warn("patching group failed", "group", m.group.ID, "server_error_id", groupform.ServerErrorID(msg.err), "err", msg.err)
			return m, nil
		}
		slog.Info("patched group", "group", m.group.ID)
		return m, m.nav.goBack()

	case spinner.TickMsg:
		if !m.draft.State.Saving() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m.dismiss()
		}
		if m.draft.State.Saving() {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+b":
			return m, m.nav.goBack()
		case "enter", "ctrl+s":
			return m.submit()
		case "tab", "shift+tab", "up", "down":
			m.inputs[m.focus].Blur()
			m.focus = 1 - m.focus
			m.inputs[m.focus].Focus()
			return m, textinput.Blink
		}

		before := m.inputs[m.focus].Value()
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		if value := m.inputs[m.focus].Value(); value != before {
			if m.focus == editFieldName {
				m = m.onNameChange(value)
			} else {
				m = m.onMentionChange(value)
			}
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m editGroupModal) onNameChange(value string) editGroupModal {
	m.draft = m.draft.WithName(value)
	if m.inputs[editFieldMention].Value() != m.draft.Mention {
		m.inputs[editFieldMention].SetValue(m.draft.Mention)
		m.inputs[editFieldMention].CursorEnd()
	}
	return m
}

func (m editGroupModal) onMentionChange(value string) editGroupModal {
	m.draft = m.draft.WithMention(value)
	return m
}

func (m editGroupModal) submit() (editGroupModal, tea.Cmd) {
	if !m.draft.Submittable() {
		return m, nil
	}
	next, patch, ok := m.draft.BeginSubmit()
	m.draft = next
	if !ok {
		return m, nil
	}
	return m, tea.Batch(patchGroupCmd(m.svc, m.id, m.group.ID, patch), m.spinner.Tick)
}

func (m editGroupModal) dismiss() (editGroupModal, tea.Cmd) {
	m.visible = false
	return m, m.nav.dismiss()
}

func (m editGroupModal) view() string {
	if !m.visible {
		return ""
	}
	lines := []string{StyleTitle.Render("Edit group details"), ""}

	labels := [2]string{"Name", "Mention"}
	errs := [2]error{m.draft.State.NameErr, m.draft.State.MentionErr}
	for i, inp := range m.inputs {
		lines = append(lines, fieldLabel(labels[i], i == m.focus))
		lines = append(lines, inp.View())
		if errs[i] != nil {
			lines = append(lines, StyleError.Render(errs[i].Error()))
		}
		lines = append(lines, "")
	}

	switch {
	case m.draft.State.Saving():
		lines = append(lines, StyleWarning.Render(m.spinner.View()+" Saving..."))
	case m.draft.State.FormErr() != nil:
		lines = append(lines, StyleError.Render(m.draft.State.FormErr().Error()))
	default:
		lines = append(lines, "")
	}

	lines = append(lines, helpKey("Tab", "next field", true)+"  "+helpKey("Enter", "save", m.draft.Submittable()))
	lines = append(lines, helpKey("ctrl+b", "back", true)+"  "+helpKey("Esc", "close", true))
	return renderModal(lines, m.width, m.height)
}

func patchGroupCmd(svc actions.GroupService, id int64, groupID string, patch model.GroupPatch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteCallTimeout)
		defer cancel()
		g, err := svc.PatchGroup(ctx, groupID, patch)
		return groupPatchedMsg{id: id, group: g, err: err}
	}
}
