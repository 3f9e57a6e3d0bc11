package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdoc/pkg/compose"
	"github.com/matzehuels/flowdoc/pkg/diagram"
	"github.com/matzehuels/flowdoc/pkg/errors"
	"github.com/matzehuels/flowdoc/pkg/pipeline"
)

// editCommand opens a file in the interactive graph editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a flowchart interactively",
		Long: `Edit a flowchart as a graph in the terminal.

Keys:
  ↑/↓ j/k  select a node or edge      a  add a node
  e        edit the selected label    s  cycle shape or edge style
  c        connect from the selection d  delete the selection
  r        rotate the flow direction  w  write the file
  q        quit (twice with unsaved changes)

A missing file is created on the first write.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			runner := pipeline.NewRunner(nil, c.Logger)

			doc := diagram.New(diagram.DefaultDirection)
			if _, err := os.Stat(path); err == nil {
				loaded, _, err := c.loadDocument(cmd, path)
				if err != nil {
					return err
				}
				doc = loaded
			}

			save := func(code string) error { return writeFile(path, []byte(withNewline(code))) }
			m := newEditModel(cmd.Context(), runner, path, doc, save)

			p := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			final, err := p.Run()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "run editor")
			}
			if em, ok := final.(editModel); ok && em.writes > 0 {
				printSuccess(cmd.ErrOrStderr(), "Saved %s (%d writes)", path, em.writes)
			}
			return nil
		},
	}
}

// =============================================================================
// Model
// =============================================================================

type editMode int

const (
	modeNormal editMode = iota
	modeLabel
	modeConnect
)

var (
	directionCycle = []diagram.Direction{diagram.DirectionTD, diagram.DirectionLR, diagram.DirectionBT, diagram.DirectionRL}
	shapeCycle     = []diagram.Shape{diagram.ShapeRect, diagram.ShapeRound, diagram.ShapeDiamond, diagram.ShapeStadium}
	styleCycle     = []diagram.EdgeStyle{diagram.EdgeSolid, diagram.EdgeDotted, diagram.EdgeThick}
)

var (
	editSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editPendingStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	editPaneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// editModel is the bubbletea model of the graph editor. The cursor indexes
// nodes first, then edges.
type editModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	path   string
	save   func(code string) error

	doc     diagram.Document
	cursor  int
	mode    editMode
	input   string
	from    string // connect source
	status  string
	dirty   bool
	confirm bool // quit pressed once with unsaved changes
	writes  int
}

func newEditModel(ctx context.Context, runner *pipeline.Runner, path string, doc diagram.Document, save func(string) error) editModel {
	return editModel{
		ctx:    ctx,
		runner: runner,
		path:   path,
		save:   save,
		doc:    runner.Normalize(ctx, doc),
	}
}

func (m editModel) Init() tea.Cmd { return nil }

func (m editModel) items() int { return len(m.doc.Nodes) + len(m.doc.Edges) }

// selection returns what the cursor points at.
func (m editModel) selection() compose.Selection {
	switch {
	case m.cursor < len(m.doc.Nodes):
		return compose.NodeSelection(m.doc.Nodes[m.cursor].ID)
	case m.cursor < m.items():
		return compose.EdgeSelection(m.doc.Edges[m.cursor-len(m.doc.Nodes)].ID)
	default:
		return compose.Selection{}
	}
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.mode {
	case modeLabel:
		return m.updateLabel(key)
	case modeConnect:
		return m.updateConnect(key)
	default:
		return m.updateNormal(key)
	}
}

func (m editModel) updateNormal(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := key.String()
	if k != "q" {
		m.confirm = false
	}
	switch k {
	case "q", "esc":
		if m.dirty && !m.confirm {
			m.confirm = true
			m.status = "Unsaved changes; press q again to quit"
			return m, nil
		}
		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "a":
		m = m.apply(compose.Op{Op: compose.OpAddNode})
	case "d", "x", "delete":
		m = m.apply(compose.Op{Op: compose.OpRemove, Selection: m.selection()})
	case "s":
		m = m.cycleStyle()
	case "r":
		m = m.apply(compose.Op{Op: compose.OpSetDirection, Direction: nextOf(directionCycle, m.doc.Direction)})
	case "e":
		sel := m.selection()
		if sel.Empty() {
			return m, nil
		}
		m.mode = modeLabel
		m.input = m.currentLabel()
		m.status = ""
	case "c":
		sel := m.selection()
		if sel.Kind != compose.SelectNode {
			m.status = "Select a node to connect from"
			return m, nil
		}
		m.mode = modeConnect
		m.from = sel.ID
		m.status = "Connect " + sel.ID + " to…"
	case "w":
		m = m.write()
	}
	return m, nil
}

func (m editModel) updateLabel(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input = ""
	case tea.KeyEnter:
		sel := m.selection()
		op := compose.Op{Op: compose.OpLabelNode, ID: sel.ID, Label: m.input}
		if sel.Kind == compose.SelectEdge {
			op.Op = compose.OpLabelEdge
		}
		m.mode = modeNormal
		m.input = ""
		m = m.apply(op)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(key.Runes)
	}
	return m, nil
}

func (m editModel) updateConnect(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "q":
		m.mode = modeNormal
		m.from = ""
		m.status = ""
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter", "c":
		sel := m.selection()
		from := m.from
		m.mode = modeNormal
		m.from = ""
		if sel.Kind != compose.SelectNode {
			m.status = "Connect target must be a node"
			return m, nil
		}
		m = m.apply(compose.Op{Op: compose.OpConnect, Source: from, Target: sel.ID})
	}
	return m, nil
}

func (m *editModel) move(delta int) {
	if n := m.items(); n > 0 {
		m.cursor = (m.cursor + delta + n) % n
	}
}

func (m editModel) currentLabel() string {
	sel := m.selection()
	if sel.Kind == compose.SelectNode {
		n, _ := m.doc.Node(sel.ID)
		return n.Label
	}
	e, _ := m.doc.Edge(sel.ID)
	return e.Label
}

func (m editModel) cycleStyle() editModel {
	sel := m.selection()
	switch sel.Kind {
	case compose.SelectNode:
		n, _ := m.doc.Node(sel.ID)
		return m.apply(compose.Op{Op: compose.OpShapeNode, ID: sel.ID, Shape: nextOf(shapeCycle, n.Shape)})
	case compose.SelectEdge:
		e, _ := m.doc.Edge(sel.ID)
		style := e.Style
		if style == "" {
			style = diagram.EdgeSolid
		}
		return m.apply(compose.Op{Op: compose.OpStyleEdge, ID: sel.ID, Style: nextOf(styleCycle, style)})
	}
	return m
}

// apply runs op and keeps the cursor on the element it created or on the
// same position otherwise.
func (m editModel) apply(op compose.Op) editModel {
	res, err := m.runner.Compose(m.ctx, m.doc, op)
	if err != nil {
		m.status = errors.UserMessage(err)
		return m
	}
	if !res.Applied {
		m.status = fmt.Sprintf("%s: nothing changed", op.Op)
		return m
	}
	m.doc = res.Doc
	m.dirty = true
	m.status = string(op.Op)
	if res.ID != "" {
		m.status += " " + res.ID
		m.focus(res.ID)
	}
	if m.cursor >= m.items() {
		m.cursor = max(m.items()-1, 0)
	}
	return m
}

func (m *editModel) focus(id string) {
	for i, n := range m.doc.Nodes {
		if n.ID == id {
			m.cursor = i
			return
		}
	}
	for i, e := range m.doc.Edges {
		if e.ID == id {
			m.cursor = len(m.doc.Nodes) + i
			return
		}
	}
}

func (m editModel) write() editModel {
	if err := m.save(m.runner.Serialize(m.ctx, m.doc)); err != nil {
		m.status = errors.UserMessage(err)
		return m
	}
	m.dirty = false
	m.writes++
	m.status = "Wrote " + m.path
	return m
}

func nextOf[T comparable](cycle []T, cur T) T {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// =============================================================================
// View
// =============================================================================

func (m editModel) View() string {
	var b strings.Builder

	title := m.path
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  flowchart %s", m.doc.Direction)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		editPaneStyle.Render(m.listView()),
		" ",
		editPaneStyle.Render(m.runner.Serialize(m.ctx, m.doc)),
	))
	b.WriteString("\n")

	switch m.mode {
	case modeLabel:
		b.WriteString("Label: " + m.input + "█\n")
		b.WriteString(StyleDim.Render("enter apply  esc cancel"))
	case modeConnect:
		b.WriteString(editPendingStyle.Render(m.status) + "\n")
		b.WriteString(StyleDim.Render("↑/↓ choose target  enter connect  esc cancel"))
	default:
		if m.status != "" {
			b.WriteString(m.status + "\n")
		}
		b.WriteString(StyleDim.Render("a add  e label  s shape/style  c connect  d delete  r direction  w write  q quit"))
	}
	return b.String()
}

func (m editModel) listView() string {
	if m.items() == 0 {
		return StyleDim.Render("empty; press a to add a node")
	}
	var lines []string
	line := func(i int, text string) {
		prefix := "  "
		if m.mode == modeConnect && i < len(m.doc.Nodes) && m.doc.Nodes[i].ID == m.from {
			text = editPendingStyle.Render(text)
		}
		if i == m.cursor {
			prefix = "▸ "
			text = editSelectedStyle.Render(text)
		}
		lines = append(lines, prefix+text)
	}

	lines = append(lines, StyleDim.Render("Nodes"))
	for i, n := range m.doc.Nodes {
		line(i, fmt.Sprintf("%-6s %-8s %s", n.ID, n.Shape, n.DisplayLabel()))
	}
	if len(m.doc.Edges) > 0 {
		lines = append(lines, "", StyleDim.Render("Edges"))
	}
	for i, e := range m.doc.Edges {
		text := fmt.Sprintf("%-6s %s %s %s", e.ID, e.Source, iconArrow, e.Target)
		if e.Label != "" {
			text += " |" + e.Label + "|"
		}
		line(len(m.doc.Nodes)+i, text)
	}
	return strings.Join(lines, "\n")
}
