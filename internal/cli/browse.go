package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/tutorlog/internal/cli/formatter"
	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/report"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse entries with live filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("browse needs a terminal")
			}
			m := newBrowseModel(app.Store.Entries(), app.Store.Err())
			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}
}

const (
	filterStudent = iota
	filterClass
	filterVolunteer
	filterCount
)

var filterLabels = [filterCount]string{"student", "class", "volunteer"}

type browseKeyMap struct {
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
	Nav  key.Binding
}

var browseKeys = browseKeyMap{
	Next: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
	Prev: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev filter")),
	Quit: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	Nav:  key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑/↓", "scroll")),
}

// browseModel recomputes the filtered entry list on every keystroke.
type browseModel struct {
	entries []*domain.ProgressEntry
	loadErr error
	inputs  [filterCount]textinput.Model
	focus   int
	table   table.Model
	visible []*domain.ProgressEntry
}

func newBrowseModel(entries []*domain.ProgressEntry, loadErr error) browseModel {
	m := browseModel{entries: entries, loadErr: loadErr}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = filterLabels[i]
		ti.CharLimit = 100
		ti.Width = 18
		m.inputs[i] = ti
	}
	m.inputs[filterStudent].Focus()

	m.table = table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 10},
			{Title: "Day", Width: 9},
			{Title: "Volunteer", Width: 16},
			{Title: "Students", Width: 24},
			{Title: "Class", Width: 12},
			{Title: "Topic", Width: 24},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(formatter.ColorHeader).Bold(true)
	styles.Selected = styles.Selected.Foreground(formatter.ColorFg).Background(formatter.ColorPurple)
	m.table.SetStyles(styles)

	m.refilter()
	return m
}

func (m browseModel) filters() domain.SearchFilters {
	return domain.SearchFilters{
		StudentName:   m.inputs[filterStudent].Value(),
		ClassName:     strings.TrimSpace(m.inputs[filterClass].Value()),
		VolunteerName: m.inputs[filterVolunteer].Value(),
	}
}

func (m *browseModel) refilter() {
	m.visible = report.FilterEntries(m.entries, m.filters())
	rows := make([]table.Row, 0, len(m.visible))
	for _, e := range m.visible {
		rows = append(rows, table.Row{
			domain.FormatDate(e.Date),
			e.Day(),
			e.VolunteerName,
			strings.Join(e.KidsTaught, ", "),
			e.Class,
			e.TopicTaught,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m *browseModel) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (i + filterCount) % filterCount
	return m.inputs[m.focus].Focus()
}

func (m browseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-8, 3))
		m.table.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, browseKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, browseKeys.Next):
			return m, m.setFocus(m.focus + 1)
		case key.Matches(msg, browseKeys.Prev):
			return m, m.setFocus(m.focus - 1)
		case key.Matches(msg, browseKeys.Nav):
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		m.refilter()
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// selected returns the entry under the table cursor, if any.
func (m browseModel) selected() *domain.ProgressEntry {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return nil
	}
	return m.visible[i]
}

func (m browseModel) View() string {
	var b strings.Builder

	for i := range m.inputs {
		label := formatter.Dim(filterLabels[i] + ":")
		if i == m.focus {
			label = formatter.StyleHeader.Render(filterLabels[i] + ":")
		}
		b.WriteString(label + " " + m.inputs[i].View() + "  ")
	}
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	status := fmt.Sprintf("%d of %s", len(m.visible), formatter.Plural(len(m.entries), "entry", "entries"))
	if sel := m.selected(); sel != nil && sel.Homework != "" {
		status += "  ·  homework: " + formatter.Truncate(sel.Homework, 60)
	}
	b.WriteString(formatter.Dim(status))
	if m.loadErr != nil {
		b.WriteString("\n" + formatter.StyleYellow.Render("last load failed: "+m.loadErr.Error()))
	}
	b.WriteString("\n" + formatter.Dim("tab next filter · shift+tab prev · ↑/↓ scroll · esc quit"))
	return b.String()
}
