package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chupakbra/mmgroups/internal/actions"
	"github.com/chupakbra/mmgroups/internal/client"
	"github.com/chupakbra/mmgroups/internal/config"
	"github.com/chupakbra/mmgroups/internal/model"
)

const connectTimeout = 15 * time.Second

// selectorMode controls which overlay (if any) is active.
type selectorMode int

const (
	selectorNormal     selectorMode = iota
	selectorAdding                  // add-instance form is open
	selectorConfirmDel              // delete-instance confirmation overlay
)

const (
	addFieldName = iota
	addFieldURL
	addFieldToken
	addFieldCount
)

// connectErrMsg is sent when connecting to a server fails.
type connectErrMsg struct{ err error }

// instanceSelectedMsg is sent by the selector once the token is verified.
type instanceSelectedMsg struct {
	svc  actions.GroupService
	name string
	me   *model.User
}

// connector builds a service for an instance. Tests replace it.
type connector func(inst config.InstanceConfig) (actions.GroupService, error)

func defaultConnector(inst config.InstanceConfig) (actions.GroupService, error) {
	c, err := client.New(&inst, client.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}
	return actions.New(c), nil
}

type selectorModel struct {
	cfg        *config.Config
	current    string // name of the currently active instance
	table      table.Model
	spinner    spinner.Model
	connecting bool
	connectErr string

	mode selectorMode

	addInputs [addFieldCount]textinput.Model
	addFocus  int

	statusMsg string
	statusErr bool

	// services already verified this session, keyed by instance name
	cache   map[string]actions.GroupService
	connect connector
	save    func(*config.Config) error

	width  int
	height int
}

func newSelectorModel(cfg *config.Config, cache map[string]actions.GroupService) selectorModel {
	placeholders := [addFieldCount]string{
		"e.g. work",
		"https://chat.example.com",
		"personal access token",
	}
	var inputs [addFieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 120
		if i == addFieldToken {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		inputs[i] = ti
	}
	if cfg.Instances == nil {
		cfg.Instances = map[string]config.InstanceConfig{}
	}

	m := selectorModel{
		cfg:       cfg,
		current:   cfg.CurrentInstance,
		spinner:   newSpinner(),
		addInputs: inputs,
		cache:     cache,
		connect:   defaultConnector,
		save:      config.Save,
	}
	m.table = m.buildTable()
	return m
}

func (m selectorModel) names() []string {
	names := make([]string, 0, len(m.cfg.Instances))
	for name := range m.cfg.Instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m selectorModel) buildTable() table.Model {
	nameWidth := 20
	urlWidth := 40
	defWidth := 9

	if m.width > 0 {
		remaining := m.width - urlWidth - defWidth - 10
		if remaining > nameWidth {
			nameWidth = remaining
		}
	}

	cols := []table.Column{
		{Title: "NAME", Width: nameWidth},
		{Title: "URL", Width: urlWidth},
		{Title: "DEFAULT", Width: defWidth},
	}

	names := m.names()
	rows := make([]table.Row, len(names))
	for i, name := range names {
		def := ""
		if name == m.current {
			def = "✓"
		}
		rows[i] = table.Row{name, m.cfg.Instances[name].URL, def}
	}

	tableHeight := 10
	if m.height > 0 {
		tableHeight = m.height - 10
	}
	return styledTable(cols, rows, tableHeight)
}

func (m selectorModel) init() tea.Cmd {
	return nil
}

func (m selectorModel) update(msg tea.Msg) (selectorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case connectErrMsg:
		m.connecting = false
		m.connectErr = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		if !m.connecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.connecting {
			return m, nil
		}
		switch m.mode {
		case selectorAdding:
			return m.updateAddForm(msg)
		case selectorConfirmDel:
			return m.updateConfirmDelete(msg)
		}

		switch msg.String() {
		case "enter":
			row := m.table.SelectedRow()
			if len(row) == 0 {
				return m, nil
			}
			name := row[0]
			m.connecting = true
			m.connectErr = ""
			m.statusMsg = ""

			if svc, ok := m.cache[name]; ok {
				return m, tea.Batch(m.verify(svc, name), m.spinner.Tick)
			}
			svc, err := m.connect(m.cfg.Instances[name])
			if err != nil {
				m.connecting = false
				m.connectErr = fmt.Sprintf("%s: %v", name, err)
				return m, nil
			}
			return m, tea.Batch(m.verify(svc, name), m.spinner.Tick)
		case "a":
			m.mode = selectorAdding
			m.addFocus = addFieldName
			m.addInputs[addFieldName].Focus()
			return m, textinput.Blink
		case "d":
			if len(m.table.Rows()) == 0 {
				return m, nil
			}
			m.mode = selectorConfirmDel
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m selectorModel) updateAddForm(msg tea.KeyMsg) (selectorModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = selectorNormal
		m.clearAddForm()
		return m, nil
	case "enter":
		if m.addFocus < addFieldCount-1 {
			m.addInputs[m.addFocus].Blur()
			m.addFocus++
			m.addInputs[m.addFocus].Focus()
			return m, textinput.Blink
		}
		name := strings.TrimSpace(m.addInputs[addFieldName].Value())
		url := strings.TrimSpace(m.addInputs[addFieldURL].Value())
		token := strings.TrimSpace(m.addInputs[addFieldToken].Value())
		m.mode = selectorNormal
		m.clearAddForm()
		if name == "" || url == "" || token == "" {
			m.setStatus("Name, URL and token are required", true)
			return m, nil
		}
		if _, exists := m.cfg.Instances[name]; exists {
			m.setStatus(fmt.Sprintf("Instance %q already exists", name), true)
			return m, nil
		}
		m.cfg.Instances[name] = config.InstanceConfig{URL: url, Token: token, VerifyTLS: true}
		if err := m.save(m.cfg); err != nil {
			m.setStatus("Saving config: "+err.Error(), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Instance %q added", name), false)
		m.table = m.buildTable()
		return m, nil
	}
	var cmd tea.Cmd
	m.addInputs[m.addFocus], cmd = m.addInputs[m.addFocus].Update(msg)
	return m, cmd
}

func (m selectorModel) updateConfirmDelete(msg tea.KeyMsg) (selectorModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = selectorNormal
		row := m.table.SelectedRow()
		if len(row) == 0 {
			return m, nil
		}
		name := row[0]
		delete(m.cfg.Instances, name)
		delete(m.cache, name)
		if m.current == name {
			m.current = ""
			m.cfg.CurrentInstance = ""
		}
		if err := m.save(m.cfg); err != nil {
			m.setStatus("Saving config: "+err.Error(), true)
		} else {
			m.setStatus(fmt.Sprintf("Instance %q removed", name), false)
		}
		m.table = m.buildTable()
		return m, nil
	case "esc":
		m.mode = selectorNormal
	}
	return m, nil
}

func (m *selectorModel) setStatus(s string, isErr bool) {
	m.statusMsg = s
	m.statusErr = isErr
}

func (m *selectorModel) clearAddForm() {
	for i := range m.addInputs {
		m.addInputs[i].Reset()
		m.addInputs[i].Blur()
	}
	m.addFocus = addFieldName
}

func (m selectorModel) view() string {
	if m.width == 0 {
		return ""
	}

	title := StyleTitle.Render("Chat Servers")

	if m.mode == selectorAdding {
		labels := [addFieldCount]string{"Name:", "URL:", "Token:"}
		lines := []string{title, "", StyleTitle.Render("Add Instance"), ""}
		for i, inp := range m.addInputs {
			label := fmt.Sprintf("  %-8s", labels[i])
			lines = append(lines, fieldLabel(label, i == m.addFocus)+inp.View())
		}
		lines = append(lines, "", renderHelp("[Enter] next/save   [Esc] cancel"))
		return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
	}

	if len(m.cfg.Instances) == 0 {
		lines := []string{title, "", StyleDim.Render("No instances configured. Press 'a' to add one.")}
		if m.statusMsg != "" {
			lines = append(lines, "", m.renderStatus())
		}
		lines = append(lines, "", renderHelp("[a] add   [Q] quit"))
		return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
	}

	lines := []string{title, "", m.table.View(), ""}

	if m.mode == selectorConfirmDel {
		name := ""
		if row := m.table.SelectedRow(); len(row) > 0 {
			name = row[0]
		}
		lines = append(lines, StyleWarning.Render(
			fmt.Sprintf("Remove instance %q? [Enter] confirm   [Esc] cancel", name),
		))
		return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
	}

	switch {
	case m.connecting:
		lines = append(lines, StyleWarning.Render(m.spinner.View()+" Connecting..."))
	case m.connectErr != "":
		lines = append(lines, StyleError.Render("Error: "+m.connectErr))
	default:
		lines = append(lines, m.renderStatus()) // keeps height stable when empty
	}

	lines = append(lines, renderHelp("[Enter] connect  |  [a] add   [d] remove"))
	lines = append(lines, renderHelp("[Q] quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func (m selectorModel) renderStatus() string {
	switch {
	case m.statusMsg == "":
		return ""
	case m.statusErr:
		return StyleError.Render(m.statusMsg)
	default:
		return StyleSuccess.Render(m.statusMsg)
	}
}

// verify checks the token with a /users/me call, saves name as the default
// instance and emits instanceSelectedMsg.
func (m selectorModel) verify(svc actions.GroupService, name string) tea.Cmd {
	cfg, save := m.cfg, m.save
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		me, err := svc.Me(ctx)
		if err != nil {
			return connectErrMsg{fmt.Errorf("connecting to %q: %w", name, err)}
		}
		cfg.CurrentInstance = name
		if err := save(cfg); err != nil {
			slog.Warn("saving current instance", "instance", name, "err", err)
		}
		return instanceSelectedMsg{svc: svc, name: name, me: me}
	}
}
