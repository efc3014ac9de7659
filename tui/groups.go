package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chupakbra/mmgroups/internal/actions"
	"github.com/chupakbra/mmgroups/internal/model"
)

// groupsFetchedMsg is sent when the async fetch of groups completes.
type groupsFetchedMsg struct {
	groups  []model.Group
	err     error
	fetchID int64 // matches groupsModel.fetchID; stale responses are discarded
}

type groupsModel struct {
	svc      actions.GroupService
	instName string
	groups   []model.Group
	loading  bool
	err      error
	table    table.Model
	spinner  spinner.Model
	filter   tableFilter
	fetchID  int64

	// indices into groups for the rows currently shown
	visible []int

	lastRefreshed time.Time

	width  int
	height int
}

func newGroupsModel(svc actions.GroupService, instName string, w, h int) groupsModel {
	return groupsModel{
		svc:      svc,
		instName: instName,
		loading:  true,
		spinner:  newSpinner(),
		fetchID:  time.Now().UnixNano(),
		width:    w,
		height:   h,
	}
}

func (m groupsModel) init() tea.Cmd {
	return tea.Batch(fetchGroups(m.svc, m.fetchID), m.spinner.Tick)
}

func (m groupsModel) reload() (groupsModel, tea.Cmd) {
	m.loading = true
	m.err = nil
	m.fetchID = time.Now().UnixNano()
	return m, m.init()
}

// fixedGroupsColWidth: MENTION(24)+MEMBERS(8)+SOURCE(8) = 40 + separators ~8
const fixedGroupsColWidth = 40 + 8

func (m groupsModel) withRebuiltTable() groupsModel {
	nameWidth := m.width - fixedGroupsColWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}
	cols := []table.Column{
		{Title: "NAME", Width: nameWidth},
		{Title: "MENTION", Width: 24},
		{Title: "MEMBERS", Width: 8},
		{Title: "SOURCE", Width: 8},
	}

	m.visible = make([]int, 0, len(m.groups))
	rows := make([]table.Row, 0, len(m.groups))
	for i, g := range m.groups {
		if !m.filter.matches(g.DisplayName, g.Name) {
			continue
		}
		m.visible = append(m.visible, i)
		rows = append(rows, table.Row{g.DisplayName, g.Mention(), strconv.Itoa(g.MemberCount), g.Source})
	}

	// padding(2) + title(1) + blank(1) + filter(1) + help(2) + table border(2)
	m.table = styledTable(cols, rows, m.height-9)
	return m
}

func (m groupsModel) update(msg tea.Msg) (groupsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case groupsFetchedMsg:
		if msg.fetchID != m.fetchID {
			return m, nil // stale response from a previous fetch; discard
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.groups = msg.groups
		m.lastRefreshed = time.Now()
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
		case "enter":
			cursor := m.table.Cursor()
			if m.loading || cursor < 0 || cursor >= len(m.visible) {
				return m, nil
			}
			return m, openViewGroupCmd(m.groups[m.visible[cursor]])
		case "/":
			m.filter.active = true
			return m, nil
		case "ctrl+u":
			if m.filter.hasActiveFilter() {
				m.filter.clear()
				m = m.withRebuiltTable()
			}
			return m, nil
		case "ctrl+r":
			return m.reload()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *groupsModel) clearFilter() {
	if m.filter.text == "" && !m.filter.active {
		return
	}
	m.filter.clear()
	if !m.loading {
		*m = m.withRebuiltTable()
	}
}

func (m groupsModel) view() string {
	if m.width == 0 {
		return ""
	}

	title := StyleTitle.Render(fmt.Sprintf("Groups - %s", m.instName))

	if m.loading {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			title + "\n\n" + StyleWarning.Render(m.spinner.View()+" Loading..."),
		)
	}

	if m.err != nil {
		lines := []string{
			title,
			"",
			StyleError.Render("Error: " + m.err.Error()),
			"",
			renderHelp("[ctrl+r] retry"),
			renderHelp("[Esc] back   [Q] quit"),
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
	}

	var count string
	if m.filter.hasActiveFilter() {
		count = StyleDim.Render(fmt.Sprintf(" (%d/%d)", len(m.visible), len(m.groups)))
	} else {
		count = StyleDim.Render(fmt.Sprintf(" (%d)", len(m.groups)))
	}

	var lines []string
	lines = append(lines, headerLine(title+count, m.width, m.lastRefreshed))
	lines = append(lines, "")
	if len(m.groups) == 0 {
		lines = append(lines, StyleDim.Render("No custom groups on this server."))
	} else {
		lines = append(lines, m.table.View())
	}
	lines = append(lines, m.filter.renderLine())
	lines = append(lines, renderHelp("[Enter] view group   [/] filter   [ctrl+r] refresh"))
	lines = append(lines, renderHelp("[Esc] instances   [Q] quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func fetchGroups(svc actions.GroupService, fetchID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteCallTimeout)
		defer cancel()
		groups, err := svc.ListGroups(ctx, actions.ListGroupsOptions{PerPage: 200})
		return groupsFetchedMsg{groups: groups, err: err, fetchID: fetchID}
	}
}
