package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lifesim/internal/engine"
	"github.com/san-kum/lifesim/internal/loop"
	"github.com/san-kum/lifesim/internal/metrics"
	"github.com/san-kum/lifesim/internal/render"
	"github.com/san-kum/lifesim/internal/session"
)

const (
	seriesCapacity = 120
	minTicks       = 1
	maxTicks       = 100
)

type TickMsg time.Time

var keymap = map[string]loop.Command{
	"up": loop.Up, "k": loop.Up,
	"down": loop.Down, "j": loop.Down,
	"left": loop.Left, "h": loop.Left,
	"right": loop.Right, "l": loop.Right,
	" ":     loop.PauseResume,
	"r":     loop.RewindToggle,
	"enter": loop.ToggleCell, "x": loop.ToggleCell,
	"[": loop.Back,
	"]": loop.Forward,
	"s": loop.Step,
	"q": loop.Exit, "ctrl+c": loop.Exit, "esc": loop.Exit,
}

// Model is the Bubble Tea front-end. It is the input collaborator (keys to
// commands) and the rendering collaborator (diffs onto a canvas) at once.
type Model struct {
	game   *loop.Game
	canvas *render.Canvas
	series *metrics.Series
	delay  time.Duration
	ticks  int

	generations int
	redrawn     int
	theme       int
	styles      styles
	showHelp    bool
}

func NewModel(ctrl *session.Controller, delay time.Duration, ticksPerGeneration int, theme string) Model {
	canvas := render.NewCanvas(ctrl.Rows(), ctrl.Cols())
	render.Paint(canvas, ctrl.Current())

	series := metrics.NewSeries(seriesCapacity)
	series.Add(ctrl.Current().Population())

	idx := 0
	for i, name := range ThemeNames() {
		if name == theme {
			idx = i
		}
	}

	return Model{
		game:   loop.NewGame(ctrl),
		canvas: canvas,
		series: series,
		delay:  delay,
		ticks:  ticksPerGeneration,
		theme:  idx,
		styles: newStyles(Themes[idx]),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.delay, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and paces the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "+", "=":
			m.setTicks(m.ticks - 1)
			return m, nil
		case "-", "_":
			m.setTicks(m.ticks + 1)
			return m, nil
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = newStyles(Themes[m.theme])
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		}
		cmd, ok := keymap[msg.String()]
		if !ok {
			return m, nil
		}
		if cmd == loop.Exit {
			return m, tea.Quit
		}
		if d, ok := m.game.Handle(cmd); ok {
			m.apply(d, cmd == loop.Step)
		}
	case TickMsg:
		if d, ok := m.game.Controller().Tick(); ok {
			m.apply(d, true)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) setTicks(n int) {
	if n < minTicks || n > maxTicks {
		return
	}
	m.ticks = n
	m.game.Controller().SetTicksPerGeneration(n)
}

func (m *Model) apply(d engine.Diff, generation bool) {
	m.redrawn = render.Draw(m.canvas, d)
	if generation {
		m.generations++
	}
	m.series.Add(d.Next.Population())
}

// View renders the grid, the status panel and the population chart.
func (m Model) View() string {
	ctrl := m.game.Controller()
	cursor := m.game.Cursor()
	showCursor := ctrl.Mode() != session.Rewind

	var grid strings.Builder
	for y := 0; y < m.canvas.Rows(); y++ {
		for x, r := range m.canvas.Row(y) {
			cell := string([]rune{r, r})
			if showCursor && x == cursor.X && y == cursor.Y {
				if r == render.Dead {
					cell = "[]"
				}
				grid.WriteString(m.styles.cursor.Render(cell))
				continue
			}
			grid.WriteString(m.styles.alive.Render(cell))
		}
		if y < m.canvas.Rows()-1 {
			grid.WriteByte('\n')
		}
	}

	mode := ctrl.Mode().String()
	hist := ctrl.History()
	var s strings.Builder
	s.WriteString(m.styles.modes[mode].Render(strings.ToUpper(mode)) + "\n\n")
	s.WriteString(m.row("Size", fmt.Sprintf("%dx%d %s", ctrl.Cols(), ctrl.Rows(), ctrl.Topology())))
	s.WriteString(m.row("Gens", fmt.Sprintf("%d", m.generations)))
	s.WriteString(m.row("Alive", fmt.Sprintf("%d", ctrl.Current().Population())))
	s.WriteString(m.row("Redrawn", fmt.Sprintf("%d", m.redrawn)))
	s.WriteString(m.row("Pace", fmt.Sprintf("%d ticks", m.ticks)))
	s.WriteString(m.row("History", fmt.Sprintf("%d/%d", hist.Populated, hist.Capacity)))
	s.WriteString(m.row("Cursor", fmt.Sprintf("%d,%d", cursor.X, cursor.Y)))
	if m.series.Len() > 1 {
		chart := asciigraph.Plot(m.series.Values(),
			asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("population"))
		s.WriteString("\n" + chart + "\n")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.panel.Render(grid.String()),
		lipgloss.NewStyle().Padding(0, 2).Render(s.String()),
	)

	help := "space run/pause  r rewind  enter toggle  arrows move  ? help  q quit"
	if m.showHelp {
		help = strings.Join([]string{
			"space  run / pause",
			"r      enter / leave rewind",
			"←/→    step back / forward while rewinding",
			"enter  toggle cell under cursor",
			"s      single step",
			"+/-    faster / slower",
			"t      cycle theme",
			"q      quit",
		}, "\n")
	}
	return body + "\n" + m.styles.help.Render(help) + "\n"
}

func (m Model) row(label, value string) string {
	return m.styles.label.Render(label) + m.styles.value.Render(value) + "\n"
}

// Run starts the interactive program.
func Run(ctrl *session.Controller, delay time.Duration, ticksPerGeneration int, theme string) error {
	p := tea.NewProgram(NewModel(ctrl, delay, ticksPerGeneration, theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
