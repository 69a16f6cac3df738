package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aaronch12Ch/portafolio-sp/display"
	"github.com/aaronch12Ch/portafolio-sp/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// cellWidthPx approximates one terminal column in CSS pixels, for picking a viewport.
const cellWidthPx = 10

const refreshInterval = 200 * time.Millisecond

type refreshMsg time.Time

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorAccent).
	Padding(0, 1).
	Width(32)

// CarouselModel browses the public listing page by page. Arrow keys step,
// a horizontal mouse drag longer than display.MinDragDistance swipes.
type CarouselModel struct {
	carousel *display.CarouselPager
	projects []models.Project
	cards    []display.Card
	viewport display.Viewport
	quitting bool
}

func NewCarouselModel(projects []models.Project, cards []display.Card, viewport display.Viewport) CarouselModel {
	return CarouselModel{
		carousel: display.NewCarousel(len(projects), display.PageSize(viewport)),
		projects: projects,
		cards:    cards,
		viewport: viewport,
	}
}

func (m CarouselModel) Init() tea.Cmd {
	return refresh()
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m CarouselModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		return m, refresh()
	case tea.WindowSizeMsg:
		m.viewport = display.ViewportFor(msg.Width * cellWidthPx)
		m.carousel.Resize(len(m.projects), display.PageSize(m.viewport))
	case tea.MouseMsg:
		x := float64(msg.X * cellWidthPx)
		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button == tea.MouseButtonLeft {
				m.carousel.BeginDrag(x)
			}
		case tea.MouseActionMotion:
			m.carousel.MoveDrag(x)
		case tea.MouseActionRelease:
			m.carousel.EndDrag()
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "left", "h":
			m.carousel.Prev()
		case "right", "l", " ":
			m.carousel.Next()
		}
	}
	return m, nil
}

func (m CarouselModel) View() string {
	if m.quitting {
		return ""
	}
	if len(m.cards) == 0 {
		return MutedStyle.Render("No projects yet.") + "\n"
	}

	start, end := m.carousel.Bounds()
	end = min(end, len(m.cards))
	var rendered []string
	for _, c := range m.cards[start:end] {
		rendered = append(rendered, renderCard(c))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render(fmt.Sprintf("page %d/%d • %s • ←/→ or drag • q quit",
		m.carousel.Page()+1, m.carousel.Pages(), m.viewport)))
	return b.String()
}

func renderCard(c display.Card) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(c.Title))
	b.WriteString("\n")
	b.WriteString(c.Description)
	b.WriteString("\n")
	if c.VideoURL != "" {
		b.WriteString(MutedStyle.Render(IconVideo + " video"))
		b.WriteString("\n")
	}
	if c.Available {
		b.WriteString(SuccessStyle.Render(c.Link))
	} else {
		b.WriteString(WarningStyle.Render("not available"))
	}
	return cardStyle.Render(b.String())
}

// RunCarousel browses cards until the user quits. With a positive interval
// the carousel also advances on its own.
func RunCarousel(ctx context.Context, projects []models.Project, cards []display.Card, viewport display.Viewport, autoplay time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewCarouselModel(projects, cards, viewport)
	go model.carousel.Autoplay(ctx, autoplay)

	p := tea.NewProgram(model, tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("carousel: %w", err)
	}
	return nil
}
