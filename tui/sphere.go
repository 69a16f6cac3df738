package tui

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aaronch12Ch/portafolio-sp/sphere"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const pointerStep = 0.1

type frameMsg sphere.Frame

// SphereModel draws the projected labels of an Animator onto the terminal.
type SphereModel struct {
	animator *sphere.Animator
	frame    sphere.Frame
	width    int
	height   int
	pointerX float64
	pointerY float64
	quitting bool
}

func NewSphereModel(animator *sphere.Animator) SphereModel {
	return SphereModel{animator: animator, width: 80, height: 24}
}

func (m SphereModel) Init() tea.Cmd {
	return nil
}

func (m SphereModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case frameMsg:
		m.frame = sphere.Frame(msg)
	case tea.MouseMsg:
		if m.width > 0 && m.height > 0 {
			m.pointerX = float64(msg.X)/float64(m.width)*2 - 1
			m.pointerY = -(float64(msg.Y)/float64(m.height)*2 - 1)
			m.animator.SetPointer(m.pointerX, m.pointerY)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "left", "h":
			m.movePointer(-pointerStep, 0)
		case "right", "l":
			m.movePointer(pointerStep, 0)
		case "up", "k":
			m.movePointer(0, pointerStep)
		case "down", "j":
			m.movePointer(0, -pointerStep)
		case "0":
			m.pointerX, m.pointerY = 0, 0
			m.animator.SetPointer(0, 0)
		}
	}
	return m, nil
}

func (m *SphereModel) movePointer(dx, dy float64) {
	m.pointerX = math.Max(-1, math.Min(1, m.pointerX+dx))
	m.pointerY = math.Max(-1, math.Min(1, m.pointerY+dy))
	m.animator.SetPointer(m.pointerX, m.pointerY)
}

func (m SphereModel) View() string {
	if m.quitting {
		return ""
	}
	rows := max(m.height-2, 1)
	return Canvas(m.frame.Labels, m.width, rows) + "\n" +
		MutedStyle.Render("move the mouse or use arrows to tilt • 0 recenter • q quit")
}

// Canvas places labels on a width x height character grid, drawing far labels
// first so nearer ones overwrite them.
func Canvas(labels []sphere.Projected, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]rune, height)
	styles := make([][]*lipgloss.Style, height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", width))
		styles[y] = make([]*lipgloss.Style, width)
	}

	ordered := make([]sphere.Projected, 0, len(labels))
	for _, l := range labels {
		if l.Visible {
			ordered = append(ordered, l)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Depth > ordered[j].Depth })

	for _, l := range ordered {
		style := labelStyle(l.Depth)
		text := []rune(l.Label)
		row := int(math.Round((1 - l.Y) / 2 * float64(height-1)))
		col := int(math.Round((l.X+1)/2*float64(width-1))) - len(text)/2
		if row < 0 || row >= height {
			continue
		}
		for i, r := range text {
			c := col + i
			if c < 0 || c >= width {
				continue
			}
			grid[row][c] = r
			styles[row][c] = style
		}
	}

	var b strings.Builder
	for y, line := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x, r := range line {
			if s := styles[y][x]; s != nil {
				b.WriteString(s.Render(string(r)))
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func labelStyle(depth float64) *lipgloss.Style {
	switch {
	case depth < sphere.CameraDistance-sphere.DefaultRadius/3:
		return &NearLabelStyle
	case depth < sphere.CameraDistance+sphere.DefaultRadius/3:
		return &MidLabelStyle
	default:
		return &FarLabelStyle
	}
}

// RunSphere shows the animated sphere until the user quits or ctx is done.
// The animation loop stops before RunSphere returns.
func RunSphere(ctx context.Context, labels []string, fps int) error {
	animator := sphere.NewAnimator(sphere.Layout(labels, sphere.DefaultRadius))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewSphereModel(animator),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		animator.Run(ctx, fps, func(f sphere.Frame) { p.Send(frameMsg(f)) })
	}()

	_, err := p.Run()
	cancel()
	<-loopDone
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("sphere: %w", err)
	}
	return nil
}
