// Package tui is the interactive terminal view of one data table. It drives
// the same table.Controller as the web console: keys become query events and
// every controller change redraws the screen.
package tui

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/contratos/internal/table"
)

const (
	maxColumnWidth = 40
	// chrome is the number of lines around the table: title, search, status,
	// error and help.
	chrome = 7
)

// changedMsg reports that the controller's view changed.
type changedMsg struct{}

// Model is the bubbletea model of one table.
type Model[T any] struct {
	title   string
	ctrl    *table.Controller[T]
	changes chan struct{}

	table  btable.Model
	search textinput.Model
	view   table.View[T]
	column int
	status string
}

// New creates a model over c. The controller's change hook is taken over by
// the model.
func New[T any](title string, c *table.Controller[T]) *Model[T] {
	search := textinput.New()
	search.Placeholder = "Buscar…"
	search.Prompt = "/ "
	search.SetValue(c.Query().Search)

	m := &Model[T]{
		title:   title,
		ctrl:    c,
		changes: make(chan struct{}, 1),
		table:   btable.New(btable.WithFocused(true)),
		search:  search,
	}
	c.OnChange(func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	m.sync()
	return m
}

// waitForChange delivers the next controller change as a message.
func (m *Model[T]) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return changedMsg{}
	}
}

// Init implements tea.Model. It fetches the first page.
func (m *Model[T]) Init() tea.Cmd {
	m.ctrl.Refresh()
	return m.waitForChange()
}

// Update implements tea.Model.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.sync()
		return m, m.waitForChange()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-chrome, 3))
		return m, nil

	case tea.KeyMsg:
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateTable(msg)
	}
	return m, nil
}

func (m *Model[T]) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.ctrl.CommitSearch(m.search.Value())
		m.search.Blur()
		m.table.Focus()
		return m, nil
	case "esc":
		m.search.Blur()
		m.table.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.ctrl.Search(m.search.Value())
	}
	return m, cmd
}

func (m *Model[T]) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.table.Blur()
		return m, m.search.Focus()
	case "n", "right", "pgdown":
		m.ctrl.NextPage()
	case "p", "left", "pgup":
		m.ctrl.PrevPage()
	case "g", "home":
		m.ctrl.FirstPage()
	case "G", "end":
		m.ctrl.LastPage()
	case "r":
		m.ctrl.Refresh()
	case "[":
		m.column = max(m.column-1, 0)
		m.sync()
	case "]":
		m.column = min(m.column+1, len(m.view.Columns)-1)
		m.sync()
	case "s":
		col := m.view.Columns[m.column]
		if err := m.ctrl.ToggleSort(col.Key); err != nil {
			m.status = fmt.Sprintf("%s não é ordenável", col.Label)
		}
	case "+", "-":
		m.cyclePageSize(msg.String() == "+")
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model[T]) cyclePageSize(up bool) {
	sizes := m.view.PageSizes
	i := slices.Index(sizes, m.view.PageSize)
	if up {
		i = min(i+1, len(sizes)-1)
	} else {
		i = max(i-1, 0)
	}
	if i >= 0 && i < len(sizes) {
		_ = m.ctrl.SetPageSize(sizes[i])
	}
}

// sync copies the controller view into the table widget.
func (m *Model[T]) sync() {
	m.view = m.ctrl.View()

	cells := make([][]string, 0, len(m.view.Rows))
	if !m.view.Loading {
		for _, row := range m.view.Rows {
			cells = append(cells, m.view.Cells(row))
		}
	}

	cols := make([]btable.Column, len(m.view.Columns))
	for i, col := range m.view.Columns {
		title := col.Label
		if ind := m.view.Indicator(col); ind != "" {
			title += " " + ind
		}
		if i == m.column {
			title = "[" + title + "]"
		}
		width := lipgloss.Width(title)
		for _, row := range cells {
			width = max(width, lipgloss.Width(row[i]))
		}
		cols[i] = btable.Column{Title: title, Width: min(width, maxColumnWidth)}
	}

	rows := make([]btable.Row, len(cells))
	for i, c := range cells {
		rows[i] = btable.Row(c)
	}

	// columns first: rows wider than the old columns would not render
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if n := len(rows); n > 0 && m.table.Cursor() >= n {
		m.table.SetCursor(n - 1)
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	tableBorder = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

// View implements tea.Model.
func (m *Model[T]) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%d)", m.title, m.view.Total)))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")

	switch {
	case m.view.Loading:
		b.WriteString(mutedStyle.Render("Carregando…"))
		b.WriteString("\n")
	case m.view.Err != "":
		b.WriteString(errorStyle.Render(m.view.Err))
		b.WriteString("\n")
	case m.view.Empty():
		b.WriteString(mutedStyle.Render("Nenhum registro encontrado."))
		b.WriteString("\n")
	default:
		b.WriteString(tableBorder.Render(m.table.View()))
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("Página %d de %d · %d por página", m.view.PageNumber(), m.view.PageCount, m.view.PageSize))
	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("/ buscar · n/p página · g/G primeira/última · [ ] coluna · s ordenar · +/- tamanho · r atualizar · q sair"))
	b.WriteString("\n")
	return b.String()
}

// Run shows m until the user quits or ctx ends.
func Run[T any](ctx context.Context, m *Model[T], in io.Reader, out io.Writer) error {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
