package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/chupakbra/mmgroups/internal/actions"
	"github.com/chupakbra/mmgroups/internal/model"
)

// viewGroupLoadedMsg carries the refreshed group and its first page of members.
type viewGroupLoadedMsg struct {
	id      int64
	group   *model.Group
	members []model.User
	err     error
}

func (m viewGroupLoadedMsg) modalID() int64 { return m.id }

// viewGroupModal shows a group and its members. It is the predecessor the
// Add Members and Edit dialogs return to.
type viewGroupModal struct {
	id      int64
	svc     actions.GroupService
	group   model.Group
	members []model.User
	nav     modalNav
	visible bool

	loading bool
	err     error
	table   table.Model
	spinner spinner.Model
	filter  tableFilter

	width  int
	height int
}

func newViewGroupModal(svc actions.GroupService, g model.Group, w, h int) viewGroupModal {
	id := nextModalID()
	return viewGroupModal{
		id:      id,
		svc:     svc,
		group:   g,
		nav:     newModalNav(id, nil),
		visible: true,
		loading: true,
		spinner: newSpinner(),
		width:   w,
		height:  h,
	}
}

func (m viewGroupModal) init() tea.Cmd {
	return tea.Batch(loadViewGroupCmd(m.svc, m.id, m.group.ID), m.spinner.Tick)
}

func (m viewGroupModal) editable() bool {
	return m.group.Source == model.GroupSourceCustom && m.group.DeleteAt == 0
}

func (m viewGroupModal) withRebuiltTable() viewGroupModal {
	rows := make([]table.Row, 0, len(m.members))
	for _, u := range m.members {
		if !m.filter.matches(u.Username, u.FullName(), u.Email) {
			continue
		}
		rows = append(rows, table.Row{"@" + u.Username, u.FullName(), u.Email})
	}
	cols := []table.Column{
		{Title: "USERNAME", Width: 20},
		{Title: "NAME", Width: 24},
		{Title: "EMAIL", Width: 20},
	}
	height := m.height - 16 // modal border+padding(4) + header(3) + status(2) + help(2) + filter(1) + table border(2) + margin(2)
	if height > 12 {
		height = 12
	}
	m.table = styledTable(cols, rows, height)
	return m
}

func (m viewGroupModal) update(msg tea.Msg) (viewGroupModal, tea.Cmd) {
	switch msg := msg.(type) {
	case viewGroupLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.group = *msg.group
		m.members = msg.members
		m = m.withRebuiltTable()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.filter.active {
			var rebuild bool
			m.filter, rebuild = m.filter.handleKey(msg)
			if rebuild {
				m = m.withRebuiltTable()
			}
			return m, nil
		}
		switch msg.String() {
		case "esc":
			if m.filter.hasActiveFilter() {
				m.filter.clear()
				m = m.withRebuiltTable()
				return m, nil
			}
			m.visible = false
			return m, m.nav.dismiss()
		case "a":
			if m.loading || m.err != nil || !m.editable() {
				return m, nil
			}
			g := m.group
			return m, func() tea.Msg { return openAddMembersMsg{group: g} }
		case "e":
			if m.loading || m.err != nil || !m.editable() {
				return m, nil
			}
			g := m.group
			return m, func() tea.Msg { return openEditGroupMsg{group: g} }
		case "/":
			m.filter.active = true
			return m, nil
		case "ctrl+r":
			m.loading = true
			m.err = nil
			return m, m.init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m viewGroupModal) view() string {
	if !m.visible {
		return ""
	}
	title := StyleTitle.Render(m.group.DisplayName)
	lines := []string{title, StyleDim.Render(m.group.Mention()), ""}

	switch {
	case m.loading:
		lines = append(lines, StyleWarning.Render(m.spinner.View()+" Loading members..."))
	case m.err != nil:
		lines = append(lines, StyleError.Render("Error: "+m.err.Error()), "", renderHelp("[ctrl+r] retry   [Esc] close"))
		return renderModal(lines, m.width, m.height)
	default:
		count := m.group.MemberCount
		if count < len(m.members) {
			count = len(m.members)
		}
		lines = append(lines, StyleSubtitle.Render(fmt.Sprintf("%d members", count)))
		if len(m.members) == 0 {
			lines = append(lines, "", StyleDim.Render("No members yet."))
		} else {
			lines = append(lines, m.table.View())
		}
		if f := m.filter.renderLine(); f != "" {
			lines = append(lines, f)
		}
	}

	lines = append(lines, "")
	editable := !m.loading && m.editable()
	lines = append(lines, helpKey("a", "add people", editable)+"  "+helpKey("e", "edit details", editable)+"  "+
		helpKey("/", "filter", true)+"  "+helpKey("ctrl+r", "refresh", true))
	lines = append(lines, helpKey("Esc", "close", true))
	return renderModal(lines, m.width, m.height)
}

func loadViewGroupCmd(svc actions.GroupService, id int64, groupID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteCallTimeout)
		defer cancel()

		var (
			group   *model.Group
			members []model.User
		)
		eg, ctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			g, err := svc.GetGroup(ctx, groupID)
			if err != nil {
				return fmt.Errorf("loading group: %w", err)
			}
			group = g
			return nil
		})
		eg.Go(func() error {
			u, err := svc.ListGroupMembers(ctx, groupID, 0, actions.DefaultPerPage)
			if err != nil {
				return fmt.Errorf("loading members: %w", err)
			}
			members = u
			return nil
		})
		err := eg.Wait()
		return viewGroupLoadedMsg{id: id, group: group, members: members, err: err}
	}
}
