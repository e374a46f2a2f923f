package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PyramidAGI/scenariodb/internal/app"
	"github.com/PyramidAGI/scenariodb/internal/labels"
	"github.com/PyramidAGI/scenariodb/internal/storage"
)

const createdAtLayout = "2006-01-02 15:04:05"

type Field int

const (
	FieldScenario Field = iota
	FieldDescription
	FieldOwner
	fieldCount
)

func (f Field) String() string {
	switch f {
	case FieldScenario:
		return "scenario"
	case FieldDescription:
		return "description"
	case FieldOwner:
		return "owner"
	default:
		return "field(" + strconv.Itoa(int(f)) + ")"
	}
}

type Client interface {
	Create(ctx context.Context, req app.CreateScenarioRequest) (int64, error)
	List(ctx context.Context) ([]storage.Scenario, error)
}

type Options struct {
	Client Client
	Labels labels.Labels
	// Changes, when set, delivers a value every time the store file changes
	// on disk. The list reloads on each signal.
	Changes <-chan struct{}
	Now     func() time.Time
	IsTTY   func() bool
}

type Model struct {
	client  Client
	labels  labels.Labels
	changes <-chan struct{}
	now     func() time.Time

	inputs [fieldCount]textinput.Model
	focus  Field
	table  table.Model
	items  []storage.Scenario

	status string
	err    string
}

type loadedMsg struct {
	items []storage.Scenario
	err   error
	// quiet loads keep the current status line.
	quiet bool
}

type savedMsg struct {
	id       int64
	scenario string
	err      error
}

type storeChangedMsg struct{}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Width(13)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#cc3333"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

func Run(opts Options) error {
	if opts.IsTTY != nil && !opts.IsTTY() {
		return fmt.Errorf("tui: requires a tty")
	}
	_, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	return err
}

func NewModel(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var inputs [fieldCount]textinput.Model
	for f := FieldScenario; f < fieldCount; f++ {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 50
		switch f {
		case FieldScenario:
			in.CharLimit = storage.MaxScenarioLen
			in.Placeholder = "required"
		case FieldDescription:
			in.CharLimit = storage.MaxDescriptionLen
			in.Placeholder = "required"
		case FieldOwner:
			in.CharLimit = storage.MaxOwnerLen
			in.Placeholder = "optional"
		}
		inputs[f] = in
	}
	inputs[FieldScenario].Focus()

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Scenario", Width: 20},
			{Title: "Description", Width: 32},
			{Title: "Owner", Width: 12},
			{Title: "Created At", Width: 19},
		}),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	t.SetStyles(styles)
	t.Blur()

	return Model{
		client:  opts.Client,
		labels:  opts.Labels,
		changes: opts.Changes,
		now:     now,
		inputs:  inputs,
		focus:   FieldScenario,
		table:   t,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCmd(false), m.waitForChange())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		switch typed.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+s":
			return m, m.saveCmd()
		case "ctrl+l":
			m.clearForm()
			m.status = "Form cleared"
			m.err = ""
			return m, nil
		case "ctrl+r":
			return m, m.loadCmd(false)
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "enter":
			if m.focus < FieldOwner {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			return m, m.saveCmd()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(typed)
			return m, cmd
		}
	case tea.WindowSizeMsg:
		height := typed.Height - 16
		if height < 3 {
			height = 3
		}
		m.table.SetHeight(height)
		return m, nil
	case loadedMsg:
		if typed.err != nil {
			m.err = "Error loading scenarios: " + typed.err.Error()
			m.status = ""
			return m, nil
		}
		m.setItems(typed.items)
		if !typed.quiet {
			m.status = fmt.Sprintf("Loaded %d scenario(s)", len(typed.items))
			m.err = ""
		}
		return m, nil
	case savedMsg:
		if typed.err != nil {
			return m.handleSaveError(typed.err)
		}
		m.clearForm()
		m.err = ""
		m.status = fmt.Sprintf("Scenario '%s' saved at %s", typed.scenario, m.now().Format("15:04:05"))
		return m, m.loadCmd(true)
	case storeChangedMsg:
		return m, tea.Batch(m.loadCmd(true), m.waitForChange())
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Scenario Entry"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Organization:") + " " + m.labels.OrgName() + "\n")
	b.WriteString(labelStyle.Render("Address:") + " " + m.labels.Address() + "\n\n")

	names := [fieldCount]string{"Scenario:", "Description:", "Owner:"}
	for f := FieldScenario; f < fieldCount; f++ {
		marker := "  "
		if f == m.focus {
			marker = "> "
		}
		b.WriteString(marker + labelStyle.Render(names[f]) + " " + m.inputs[f].View() + "\n")
	}
	b.WriteString("\n")

	if len(m.items) == 0 {
		b.WriteString(renderEmptyState("No scenarios yet.", "Fill in the form and press Enter to save."))
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err) + "\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("[enter] next/save  [ctrl+s] save  [ctrl+l] clear  [ctrl+r] refresh  [esc] quit"))
	return b.String()
}

func renderEmptyState(title, guidance string) string {
	return title + "\n" + guidance
}

func (m Model) Focused() Field { return m.focus }

func (m Model) Status() string { return m.status }

func (m Model) Err() string { return m.err }

func (m Model) Items() []storage.Scenario {
	return append([]storage.Scenario(nil), m.items...)
}

func (m Model) Value(f Field) string {
	if f < 0 || f >= fieldCount {
		return ""
	}
	return m.inputs[f].Value()
}

func (m *Model) SetValue(f Field, value string) {
	if f < 0 || f >= fieldCount {
		return
	}
	m.inputs[f].SetValue(value)
}

func (m Model) Rows() []table.Row {
	return m.table.Rows()
}

func (m *Model) setFocus(f Field) {
	m.inputs[m.focus].Blur()
	m.focus = f
	m.inputs[f].Focus()
}

func (m *Model) clearForm() {
	for f := FieldScenario; f < fieldCount; f++ {
		m.inputs[f].SetValue("")
	}
	m.setFocus(FieldScenario)
}

func (m *Model) setItems(items []storage.Scenario) {
	m.items = items
	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, RenderRow(item))
	}
	m.table.SetRows(rows)
}

func (m Model) handleSaveError(err error) (tea.Model, tea.Cmd) {
	m.status = ""
	var verr *storage.ValidationError
	if errors.As(err, &verr) {
		m.err = ValidationMessage(verr)
		if f, ok := fieldByName(verr.Field); ok {
			m.setFocus(f)
		}
		return m, nil
	}
	if errors.Is(err, storage.ErrNotProvisioned) {
		m.err = "Error saving scenario: store not provisioned, run `scenariodb reset`"
		return m, nil
	}
	m.err = "Error saving scenario: " + err.Error()
	return m, nil
}

func (m Model) saveCmd() tea.Cmd {
	if m.client == nil {
		return nil
	}
	req := app.CreateScenarioRequest{
		Scenario:    m.inputs[FieldScenario].Value(),
		Description: m.inputs[FieldDescription].Value(),
		Owner:       m.inputs[FieldOwner].Value(),
	}
	client := m.client
	return func() tea.Msg {
		id, err := client.Create(context.Background(), req)
		return savedMsg{id: id, scenario: strings.TrimSpace(req.Scenario), err: err}
	}
}

func (m Model) loadCmd(quiet bool) tea.Cmd {
	if m.client == nil {
		return nil
	}
	client := m.client
	return func() tea.Msg {
		items, err := client.List(context.Background())
		return loadedMsg{items: items, err: err, quiet: quiet}
	}
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// RenderRow formats a record for the list: absent owners and timestamps show
// as N/A.
func RenderRow(item storage.Scenario) table.Row {
	owner := labels.Missing
	if item.Owner != nil {
		owner = *item.Owner
	}
	created := labels.Missing
	if !item.CreatedAt.IsZero() {
		created = item.CreatedAt.Format(createdAtLayout)
	}
	return table.Row{
		strconv.FormatInt(item.ID, 10),
		item.Scenario,
		item.Description,
		owner,
		created,
	}
}

// ValidationMessage turns a validation failure into form text such as
// "Scenario is required".
func ValidationMessage(verr *storage.ValidationError) string {
	name := verr.Field
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return name + " " + verr.Reason
}

func fieldByName(name string) (Field, bool) {
	for f := FieldScenario; f < fieldCount; f++ {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}
