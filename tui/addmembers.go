package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chupakbra/mmgroups/internal/actions"
	"github.com/chupakbra/mmgroups/internal/groupform"
	"github.com/chupakbra/mmgroups/internal/model"
)

const (
	searchDebounce    = 300 * time.Millisecond
	maxPickerResults  = 8
	remoteCallTimeout = 30 * time.Second
)

// userSearchTickMsg fires after the debounce delay; seq identifies the
// keystroke that scheduled it so only the latest one searches.
type userSearchTickMsg struct {
	id  int64
	seq int
}

// userSearchResultMsg carries picker results for term.
type userSearchResultMsg struct {
	id    int64
	term  string
	users []model.User
	err   error
}

// membersAddedMsg is sent when the batch add call returns.
type membersAddedMsg struct {
	id  int64
	err error
}

func (m userSearchTickMsg) modalID() int64   { return m.id }
func (m userSearchResultMsg) modalID() int64 { return m.id }
func (m membersAddedMsg) modalID() int64     { return m.id }

// addMembersModal is the Add Members dialog: a user picker feeding a pending
// add-set that is submitted as one batch.
type addMembersModal struct {
	id      int64
	svc     actions.GroupService
	group   model.Group
	draft   groupform.AddMembersDraft
	nav     modalNav
	visible bool

	search    textinput.Model
	results   []model.User
	cursor    int
	searching bool
	searchErr error
	searchSeq int
	spinner   spinner.Model

	width  int
	height int
}

func newAddMembersModal(svc actions.GroupService, g model.Group, back tea.Cmd, w, h int) addMembersModal {
	ti := textinput.New()
	ti.Placeholder = "Search for people"
	ti.CharLimit = 64
	ti.Focus()

	id := nextModalID()
	return addMembersModal{
		id:      id,
		svc:     svc,
		group:   g,
		draft:   groupform.NewAddMembersDraft(g),
		nav:     newModalNav(id, back),
		visible: true,
		search:  ti,
		spinner: newSpinner(),
		width:   w,
		height:  h,
	}
}

func (m addMembersModal) init() tea.Cmd {
	return textinput.Blink
}

func (m addMembersModal) update(msg tea.Msg) (addMembersModal, tea.Cmd) {
	switch msg := msg.(type) {
	case userSearchTickMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		term := strings.TrimSpace(m.search.Value())
		if term == "" {
			m.searching = false
			m.searchErr = nil
			m.results = nil
			m.cursor = 0
			return m, nil
		}
		m.searching = true
		return m, tea.Batch(m.searchCmd(term), m.spinner.Tick)

	case userSearchResultMsg:
		if msg.term != strings.TrimSpace(m.search.Value()) {
			return m, nil // the user kept typing; a newer search is pending
		}
		m.searching = false
		m.searchErr = msg.err
		if msg.err != nil {
			slog.Warn("user search failed", "group", m.group.ID, "err", msg.err)
			m.results = nil
		} else {
			m.results = msg.users
		}
		m.cursor = 0
		return m, nil

	case membersAddedMsg:
		m.draft = m.draft.Resolve(msg.err)
		if msg.err != nil {
			slog.Warn("adding group members failed", "group", m.group.ID, "count", len(m.draft.Pending), "err", msg.err)
			return m, nil
		}
		slog.Info("added group members", "group", m.group.ID, "count", len(m.draft.Pending))
		return m, m.nav.goBack()

	case spinner.TickMsg:
		if !m.searching && !m.draft.State.Saving() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m.dismiss()
		}
		if m.draft.State.Saving() {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+b":
			return m, m.nav.goBack()
		case "ctrl+s":
			return m.submit()
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down":
			if m.cursor < len(m.visibleResults())-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			results := m.visibleResults()
			if m.cursor < len(results) {
				m = m.toggle(results[m.cursor])
			}
			return m, nil
		case "backspace":
			if m.search.Value() == "" && len(m.draft.Pending) > 0 {
				pending := m.draft.Pending
				return m.onSelectionChange(pending[:len(pending)-1]), nil
			}
		}

		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() == before {
			return m, cmd
		}
		m.searchSeq++
		seq, id := m.searchSeq, m.id
		debounce := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return userSearchTickMsg{id: id, seq: seq}
		})
		return m, tea.Batch(cmd, debounce)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// onSelectionChange replaces the pending set with the picker's selection.
func (m addMembersModal) onSelectionChange(users []model.User) addMembersModal {
	m.draft = m.draft.WithSelection(users)
	return m
}

func (m addMembersModal) toggle(u model.User) addMembersModal {
	sel := make([]model.User, 0, len(m.draft.Pending)+1)
	found := false
	for _, p := range m.draft.Pending {
		if p.ID == u.ID {
			found = true
			continue
		}
		sel = append(sel, p)
	}
	if !found {
		sel = append(sel, u)
	}
	return m.onSelectionChange(sel)
}

func (m addMembersModal) isSelected(id string) bool {
	for _, p := range m.draft.Pending {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (m addMembersModal) visibleResults() []model.User {
	if len(m.results) > maxPickerResults {
		return m.results[:maxPickerResults]
	}
	return m.results
}

func (m addMembersModal) submit() (addMembersModal, tea.Cmd) {
	next, ids, ok := m.draft.BeginSubmit()
	if !ok {
		return m, nil
	}
	m.draft = next
	return m, tea.Batch(addUsersCmd(m.svc, m.id, m.group.ID, ids), m.spinner.Tick)
}

func (m addMembersModal) dismiss() (addMembersModal, tea.Cmd) {
	m.visible = false
	return m, m.nav.dismiss()
}

func (m addMembersModal) view() string {
	if !m.visible {
		return ""
	}
	lines := []string{
		StyleTitle.Render("Add people to " + m.group.DisplayName),
		StyleDim.Render(m.group.Mention()),
		"",
	}

	if len(m.draft.Pending) > 0 {
		chips := make([]string, len(m.draft.Pending))
		for i, u := range m.draft.Pending {
			chips[i] = StyleChip.Render("@" + u.Username)
		}
		lines = append(lines, strings.Join(chips, " "), "")
	}

	lines = append(lines, m.search.View(), "")

	switch {
	case m.searching:
		lines = append(lines, StyleWarning.Render(m.spinner.View()+" Searching..."))
	case m.searchErr != nil:
		lines = append(lines, StyleError.Render("Search failed: "+m.searchErr.Error()))
	case m.search.Value() != "" && len(m.results) == 0:
		lines = append(lines, StyleDim.Render("No users found"))
	default:
		for i, u := range m.visibleResults() {
			mark := "  "
			if m.isSelected(u.ID) {
				mark = StyleSuccess.Render("✓ ")
			}
			label := u.Label()
			if i == m.cursor {
				label = StyleWarning.Render("> " + label)
			} else {
				label = "  " + label
			}
			lines = append(lines, mark+label)
		}
		if extra := len(m.results) - maxPickerResults; extra > 0 {
			lines = append(lines, StyleDim.Render(fmt.Sprintf("  ...and %d more, refine the search", extra)))
		}
	}

	lines = append(lines, "")
	switch {
	case m.draft.State.Saving():
		lines = append(lines, StyleWarning.Render(m.spinner.View()+" Adding..."))
	case m.draft.State.FormErr() != nil:
		lines = append(lines, StyleError.Render(m.draft.State.FormErr().Error()))
	default:
		lines = append(lines, "")
	}

	lines = append(lines, helpKey("↑/↓", "move", true)+"  "+helpKey("Enter", "select", len(m.results) > 0)+"  "+
		helpKey("ctrl+s", "add", m.draft.Submittable()))
	lines = append(lines, helpKey("ctrl+b", "back", true)+"  "+helpKey("Esc", "close", true))
	return renderModal(lines, m.width, m.height)
}

func (m addMembersModal) searchCmd(term string) tea.Cmd {
	svc, id, groupID := m.svc, m.id, m.group.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteCallTimeout)
		defer cancel()
		users, err := svc.SearchUsers(ctx, term, groupID, actions.DefaultSearchLimit)
		return userSearchResultMsg{id: id, term: term, users: users, err: err}
	}
}

func addUsersCmd(svc actions.GroupService, id int64, groupID string, userIDs []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteCallTimeout)
		defer cancel()
		err := svc.AddUsersToGroup(ctx, groupID, userIDs)
		return membersAddedMsg{id: id, err: err}
	}
}
