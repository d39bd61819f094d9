package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	connectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	reconnectingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#ffd60a")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff453a"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0a84ff"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8e8e93"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#636366"))
)

// Model defines the dashboard state
type Model struct {
	client      *ApiClient
	mirror      *Mirror
	activeTable table.Model
	active      []Order
	spinner     spinner.Model
	connected   bool
	error       string
}

// Initialize the model
func initialModel(client *ApiClient) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	columns := []table.Column{
		{Title: "Order", Width: 8},
		{Title: "Status", Width: 10},
		{Title: "Items", Width: 34},
		{Title: "Total", Width: 8},
		{Title: "Placed", Width: 9},
		{Title: "Next", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	t.SetStyles(styles)

	return Model{
		client:      client,
		mirror:      NewMirror(),
		activeTable: t,
		spinner:     s,
	}
}

// Init starts the spinner
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter", "a":
			return m, m.advanceSelected()
		case "d":
			return m, m.deleteSelected()
		case "r":
			m.error = ""
			if err := m.client.RequestOrders(); err != nil {
				m.error = err.Error()
			}
			return m, nil
		}

	case connectedMsg:
		m.connected = true
		m.error = ""
		return m, nil

	case disconnectedMsg:
		m.connected = false
		if msg.err != nil {
			m.error = msg.err.Error()
		}
		return m, nil

	case orderEventMsg:
		m.applyEvent(msg)
		m.refreshTable()
		return m, nil

	case actionErrMsg:
		m.error = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.activeTable, cmd = m.activeTable.Update(msg)
	return m, cmd
}

// applyEvent reconciles one feed event into the mirror.
func (m *Model) applyEvent(msg orderEventMsg) {
	switch msg.Event {
	case "loadOrders":
		var orders []Order
		if err := json.Unmarshal(msg.Data, &orders); err == nil {
			m.mirror.Load(orders)
		}
	case "newOrder":
		var order Order
		if err := json.Unmarshal(msg.Data, &order); err == nil {
			m.mirror.Add(order)
		}
	case "orderUpdated":
		var order Order
		if err := json.Unmarshal(msg.Data, &order); err == nil {
			m.mirror.Update(order)
		}
	case "orderDeleted":
		var payload struct {
			OrderID int `json:"orderId"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err == nil {
			m.mirror.Remove(payload.OrderID)
		}
	}
}

// refreshTable rebuilds the active-order rows from the mirror.
func (m *Model) refreshTable() {
	m.active = m.mirror.Active()

	rows := make([]table.Row, 0, len(m.active))
	for _, o := range m.active {
		rows = append(rows, table.Row{
			fmt.Sprintf("#%d", o.OrderID),
			o.Status,
			itemSummary(o.Items),
			fmt.Sprintf("%.2f", o.Total),
			o.CreatedAt.Local().Format("15:04:05"),
			actionLabel(o.Status),
		})
	}
	m.activeTable.SetRows(rows)
}

// selectedOrder returns the highlighted active order, if any.
func (m *Model) selectedOrder() (Order, bool) {
	i := m.activeTable.Cursor()
	if i < 0 || i >= len(m.active) {
		return Order{}, false
	}
	return m.active[i], true
}

// advanceSelected moves the highlighted order to its next status. The
// resulting orderUpdated event updates the mirror; nothing is mutated
// locally.
func (m *Model) advanceSelected() tea.Cmd {
	order, ok := m.selectedOrder()
	if !ok {
		return nil
	}
	client := m.client
	return func() tea.Msg {
		if _, err := client.AdvanceOrder(order.OrderID); err != nil {
			return actionErrMsg{err: err}
		}
		return nil
	}
}

// deleteSelected removes the highlighted order (cancellation).
func (m *Model) deleteSelected() tea.Cmd {
	order, ok := m.selectedOrder()
	if !ok {
		return nil
	}
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteOrder(order.OrderID); err != nil {
			return actionErrMsg{err: err}
		}
		return nil
	}
}

func itemSummary(items []OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
	}
	summary := strings.Join(parts, ", ")
	if runes := []rune(summary); len(runes) > 32 {
		summary = string(runes[:31]) + "…"
	}
	return summary
}

// View renders the dashboard
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("QR Menu — Staff Dashboard"))
	b.WriteString("  ")
	if m.connected {
		b.WriteString(connectedStyle.Render("Connected"))
	} else {
		b.WriteString(reconnectingStyle.Render(m.spinner.View() + " Reconnecting"))
	}
	b.WriteString("\n\n")

	counts := m.mirror.Counts()
	b.WriteString(fmt.Sprintf("Total: %d   Pending: %d   Preparing: %d   Completed: %d\n\n",
		m.mirror.Len(),
		counts["pending"],
		counts["preparing"]+counts["ready"],
		counts["completed"]))

	b.WriteString(sectionStyle.Render("Active Orders"))
	b.WriteString("\n")
	if len(m.active) == 0 {
		b.WriteString(completedStyle.Render("No active orders"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.activeTable.View())
		b.WriteString("\n")
	}

	completed := m.mirror.Completed()
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Completed"))
	b.WriteString("\n")
	if len(completed) == 0 {
		b.WriteString(completedStyle.Render("No completed orders"))
		b.WriteString("\n")
	} else {
		for i, o := range completed {
			if i == 5 {
				b.WriteString(completedStyle.Render(fmt.Sprintf("… and %d more", len(completed)-i)))
				b.WriteString("\n")
				break
			}
			line := fmt.Sprintf("#%d  %.2f  %s", o.OrderID, o.Total, o.UpdatedAt.Local().Format("15:04:05"))
			b.WriteString(completedStyle.Render(line))
			b.WriteString("\n")
		}
	}

	if m.error != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.error))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select · enter advance · d clear · r refresh · q quit"))

	return docStyle.Render(b.String())
}

func main() {
	client := NewApiClient()

	if _, err := client.CheckHealth(); err != nil {
		fmt.Printf("Warning: API server at %s is not available yet: %v\n", client.BaseURL, err)
		time.Sleep(time.Second)
	}

	p := tea.NewProgram(initialModel(client), tea.WithAltScreen())
	go client.Listen(p)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
