package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/worldmaps/pkg/pipeline"
	"github.com/matzehuels/worldmaps/pkg/scenario"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Scenario table
// =============================================================================

// scenarioRow is the table row of sc.
func scenarioRow(sc pipeline.Scenario) []string {
	proj := sc.Projection
	if proj == "" {
		proj = "none"
	}
	if name, _, ok := strings.Cut(strings.TrimPrefix(proj, "+proj="), " "); ok {
		proj = name
	} else {
		proj = strings.TrimPrefix(proj, "+proj=")
	}
	data := make([]string, len(sc.Land))
	for i, p := range sc.Land {
		data[i] = filepath.Base(filepath.Dir(p))
	}
	return []string{
		sc.Name,
		sc.Output,
		fmt.Sprintf("%.0fx%.0f", sc.Width.Px(), sc.Height.Px()),
		proj,
		strings.Join(data, ", "),
	}
}

// headerRow is the row index StyleFunc receives for the header.
const headerRow = -1

// scenarioTable renders scs as a table; the row at cursor is highlighted
// unless cursor is negative.
func scenarioTable(scs []pipeline.Scenario, cursor int) string {
	rows := make([][]string, len(scs))
	for i, sc := range scs {
		rows[i] = scenarioRow(sc)
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Scenario", "Output", "Size (px)", "Projection", "Land").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == headerRow:
				return base.Inherit(listHeaderStyle)
			case row == cursor:
				return base.Foreground(colorGreen).Bold(true)
			case col == 0:
				return base.Foreground(colorWhite)
			}
			return base.Foreground(colorGray)
		}).
		Render()
}

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scs := scenario.All()
			fmt.Println(scenarioTable(scs, -1))
			for _, sc := range scs {
				printDetail("%s: %s", sc.Name, sc.Description)
			}
			return nil
		},
	}
}

// =============================================================================
// ScenarioListModel - Interactive scenario selection
// =============================================================================

// ScenarioListModel is the bubbletea model for interactive scenario
// selection.
type ScenarioListModel struct {
	Scenarios []pipeline.Scenario
	Cursor    int
	Selected  *pipeline.Scenario
}

// NewScenarioListModel creates a new scenario list model.
func NewScenarioListModel(scs []pipeline.Scenario) ScenarioListModel {
	return ScenarioListModel{Scenarios: scs}
}

func (m ScenarioListModel) Init() tea.Cmd {
	return nil
}

func (m ScenarioListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Scenarios)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Scenarios) == 0 {
				return m, tea.Quit
			}
			sc := m.Scenarios[m.Cursor]
			m.Selected = &sc
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ScenarioListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Scenario"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ render  q quit"))
	b.WriteString("\n\n")
	b.WriteString(scenarioTable(m.Scenarios, m.Cursor))
	b.WriteString("\n")
	if m.Cursor < len(m.Scenarios) {
		b.WriteString(listDimStyle.Render("  " + m.Scenarios[m.Cursor].Description))
	}
	b.WriteString("\n")

	return b.String()
}

// pickCommand creates the pick command.
func (c *CLI) pickCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a built-in scenario interactively and render it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(NewScenarioListModel(scenario.All()), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("scenario picker: %w", err)
			}
			m, ok := final.(ScenarioListModel)
			if !ok || m.Selected == nil {
				printInfo("Nothing selected")
				return nil
			}
			return c.runRender(cmd.Context(), []pipeline.Scenario{*m.Selected}, renderOpts{refresh: refresh})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute normalized geometry even when cached")

	return cmd
}
