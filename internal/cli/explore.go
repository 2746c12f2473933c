package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depsort/pkg/dsort"
	"github.com/matzehuels/depsort/pkg/pipeline"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags documentFlags

	cmd := &cobra.Command{
		Use:   "explore FILE",
		Short: "Browse the dependency order interactively",
		Long: `Browse the elements of a document in dependency order. The selected
element's dependencies and dependents are shown below the list.

When the document has circular dependencies the elements are listed in
document order instead and members of a cycle are marked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" {
				return fmt.Errorf("explore reads the terminal; pass a file instead of -")
			}
			opts, err := c.documentOptions(cmd, &flags, args[0], pipeline.DefaultMode)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			g, err := runner.Load(cmd.Context(), opts)
			if err != nil {
				return err
			}

			model := newExploreModel(opts.Name(), g)
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)

	return cmd
}

// =============================================================================
// exploreModel - Interactive order browser
// =============================================================================

// exploreRow is one element of the browsed order.
type exploreRow struct {
	Node       string
	Deps       []string
	Dependents []string
	Cycle      int // 1-based index into the cycle list, 0 when acyclic
}

// exploreModel is the bubbletea model behind the explore command.
type exploreModel struct {
	Title  string
	Rows   []exploreRow
	Cycles [][]string
	Cursor int
	Height int
	Offset int
}

// newExploreModel lists g in dependency order, or in insertion order with
// cycle marks when g cannot be ordered.
func newExploreModel(title string, g *dsort.Graph[string]) exploreModel {
	order, err := dsort.Sort(g)
	var cycles [][]string
	if err != nil {
		order = g.Nodes()
		cycles, _ = dsort.CyclesOf[string](err)
	}

	inCycle := make(map[string]int)
	for i, c := range cycles {
		for _, n := range c {
			inCycle[n] = i + 1
		}
	}
	dependents := make(map[string][]string)
	for _, n := range g.Nodes() {
		seen := make(map[string]bool)
		for _, d := range g.Deps(n) {
			if !seen[d] {
				seen[d] = true
				dependents[d] = append(dependents[d], n)
			}
		}
	}

	rows := make([]exploreRow, len(order))
	for i, n := range order {
		rows[i] = exploreRow{
			Node:       n,
			Deps:       g.Deps(n),
			Dependents: dependents[n],
			Cycle:      inCycle[n],
		}
	}
	return exploreModel{Title: title, Rows: rows, Cycles: cycles, Height: 15}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Rows)-1, 0)
		}
		if m.Cursor < m.Offset {
			m.Offset = m.Cursor
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	if n := len(m.Cycles); n > 0 {
		b.WriteString("  " + StyleCycle.Render(fmt.Sprintf("%s %d circular %s", iconCycle, n, plural(n, "dependency", "dependencies"))))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  empty document"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		cycle := ""
		if r.Cycle > 0 {
			cycle = iconCycle + strconv.Itoa(r.Cycle)
		}
		rows = append(rows, []string{cursor, strconv.Itoa(i + 1), r.Node, strconv.Itoa(len(r.Deps)), strconv.Itoa(len(r.Dependents)), cycle})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "#", "Element", "Deps", "Used by", "Cycle").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return listHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			switch {
			case m.Rows[idx].Cycle > 0:
				base = base.Foreground(colorRed)
			case col == 1 || col == 3 || col == 4:
				base = base.Foreground(colorGray)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	sel := m.Rows[m.Cursor]
	b.WriteString(listLabelStyle.Render("depends on") + " " + joinOrDash(sel.Deps) + "\n")
	b.WriteString(listLabelStyle.Render("used by") + " " + joinOrDash(sel.Dependents) + "\n")
	if sel.Cycle > 0 {
		b.WriteString(listLabelStyle.Render("cycle") + " " + StyleCycle.Render(strings.Join(m.Cycles[sel.Cycle-1], " "+iconArrow+" ")) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func joinOrDash(nodes []string) string {
	if len(nodes) == 0 {
		return listDimStyle.Render("—")
	}
	return StyleValue.Render(strings.Join(nodes, ", "))
}
