package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/myrho/hovercard/pkg/geom"
	"github.com/myrho/hovercard/pkg/hovercard"
	"github.com/myrho/hovercard/pkg/measure"
	"github.com/myrho/hovercard/pkg/place"
	"github.com/myrho/hovercard/pkg/probe"
)

// playgroundTarget is the synthetic element id the playground card tracks.
const playgroundTarget = "playground"

// Playground styles.
var (
	tuiRefStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	tuiCardStyle = lipgloss.NewStyle().Foreground(colorGreen)
	tuiTickStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// tuiCommand creates the tui command, an interactive placement playground.
func (c *CLI) tuiCommand() *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive placement playground in the terminal",
		Long: `Interactive placement playground in the terminal.

The terminal is the viewport, one cell per unit. Move the reference element
around and watch the card flip sides, clamp to the edges, and clip in
max-box mode. Resizing the terminal re-measures, the same way a live card
reacts to window resize.

Keys:

  arrows / hjkl   move the reference element
  v               toggle variant (centered / maxbox)
  p               mount or unmount the panel (unmounted cards stay hidden)
  q               quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), variant)
		},
	}

	cmd.Flags().StringVar(&variant, "variant", place.VariantCentered, "initial placement variant: centered, maxbox")

	return cmd
}

// runTUI starts the bubbletea program.
func (c *CLI) runTUI(ctx context.Context, variant string) error {
	strategy, err := place.ForVariant(variant)
	if err != nil {
		return err
	}

	m := newPlaygroundModel(ctx, strategy)
	// m.card is swapped on variant toggles; close whichever card is live.
	defer func() { m.card.Close() }()

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// =============================================================================
// PlaygroundModel - Interactive placement playground
// =============================================================================

// cardUpdateMsg carries a fresh card view from the measurement goroutine.
type cardUpdateMsg hovercard.View

// playgroundModel is the bubbletea model for the placement playground.
type playgroundModel struct {
	ctx      context.Context
	card     *hovercard.Card
	prober   *probe.Static
	hub      *hovercard.Hub
	updates  chan hovercard.View
	strategy place.Strategy

	view      hovercard.View
	ref       geom.Box
	panel     geom.Size
	viewport  geom.Box
	showPanel bool
}

// newPlaygroundModel wires a card to a static prober the model mutates.
func newPlaygroundModel(ctx context.Context, strategy place.Strategy) *playgroundModel {
	m := &playgroundModel{
		ctx:       ctx,
		prober:    probe.NewStatic(nil),
		hub:       hovercard.NewHub(),
		updates:   make(chan hovercard.View, 8),
		strategy:  strategy,
		ref:       geom.Box{X: 30, Y: 12, Width: 12, Height: 3},
		panel:     geom.Size{Width: 24, Height: 6},
		viewport:  geom.Box{Width: 80, Height: 24},
		showPanel: true,
	}
	m.card = m.newCard(strategy)
	m.syncProber()
	return m
}

// newCard builds a card for the given strategy, reusing the shared prober
// and resize hub.
func (m *playgroundModel) newCard(strategy place.Strategy) *hovercard.Card {
	return hovercard.New(m.prober,
		hovercard.WithStrategy(strategy),
		hovercard.WithConfig(place.Config{TickLength: 2, MaxWidth: 30, MaxHeight: 8}),
		hovercard.WithNotifier(m.hub),
		hovercard.WithOnUpdate(func(v hovercard.View) {
			select {
			case m.updates <- v:
			default:
			}
		}),
	)
}

// syncProber publishes the current boxes to the static prober.
func (m *playgroundModel) syncProber() {
	m.prober.Set(playgroundTarget, measure.Probe{Element: m.ref, Viewport: m.viewport})
	if m.showPanel {
		m.prober.Set(measure.PanelID(playgroundTarget), measure.Probe{
			Element:  geom.Box{Width: m.panel.Width, Height: m.panel.Height},
			Viewport: m.viewport,
		})
	} else {
		m.prober.Remove(measure.PanelID(playgroundTarget))
	}
}

// waitForUpdate delivers the next card view as a message.
func (m *playgroundModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		v, ok := <-m.updates
		if !ok {
			return nil
		}
		return cardUpdateMsg(v)
	}
}

// activate re-shows the card at the current reference position.
func (m *playgroundModel) activate() tea.Cmd {
	return func() tea.Msg {
		m.card.Activate(m.ctx, playgroundTarget)
		return nil
	}
}

func (m *playgroundModel) Init() tea.Cmd {
	return tea.Batch(m.activate(), m.waitForUpdate())
}

func (m *playgroundModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cardUpdateMsg:
		m.view = hovercard.View(msg)
		return m, m.waitForUpdate()

	case tea.WindowSizeMsg:
		m.viewport = geom.Box{Width: float64(msg.Width), Height: float64(msg.Height - 3)}
		m.clampRef()
		m.syncProber()
		// Resize re-measures through the notifier once the card tracks;
		// before the first measured round it must be re-shown instead.
		if m.card.Tracking() {
			m.hub.Notify()
			return m, nil
		}
		return m, m.activate()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.ref.Y--
		case "down", "j":
			m.ref.Y++
		case "left", "h":
			m.ref.X -= 2
		case "right", "l":
			m.ref.X += 2
		case "v":
			if m.strategy.Name() == place.VariantCentered {
				m.strategy = place.MaxBox{}
			} else {
				m.strategy = place.Centered{}
			}
			m.card.Close()
			m.card = m.newCard(m.strategy)
			return m, m.activate()
		case "p":
			m.showPanel = !m.showPanel
			m.syncProber()
			return m, m.activate()
		default:
			return m, nil
		}
		m.clampRef()
		m.syncProber()
		return m, m.activate()
	}
	return m, nil
}

// clampRef keeps the reference inside the viewport.
func (m *playgroundModel) clampRef() {
	if m.ref.X < 0 {
		m.ref.X = 0
	}
	if m.ref.Y < 0 {
		m.ref.Y = 0
	}
	if max := m.viewport.Width - m.ref.Width; m.ref.X > max {
		m.ref.X = max
	}
	if max := m.viewport.Height - m.ref.Height; m.ref.Y > max {
		m.ref.Y = max
	}
}

func (m *playgroundModel) View() string {
	w := int(m.viewport.Width)
	h := int(m.viewport.Height)
	if w <= 0 || h <= 0 {
		return ""
	}

	type cell struct {
		ch    rune
		style lipgloss.Style
	}
	canvas := make([][]cell, h)
	for y := range canvas {
		canvas[y] = make([]cell, w)
		for x := range canvas[y] {
			canvas[y][x] = cell{ch: ' '}
		}
	}

	fill := func(b geom.Box, ch rune, style lipgloss.Style) {
		for y := int(b.Y); y < int(b.Y+b.Height); y++ {
			for x := int(b.X); x < int(b.X+b.Width); x++ {
				if y >= 0 && y < h && x >= 0 && x < w {
					canvas[y][x] = cell{ch: ch, style: style}
				}
			}
		}
	}

	fill(m.ref, '█', tuiRefStyle)

	p := m.view.Placement
	if p.Visible {
		fill(geom.Box{
			X:      p.AnchorX + p.OffsetX,
			Y:      p.AnchorY + p.OffsetY,
			Width:  p.CardWidth,
			Height: p.CardHeight,
		}, '▒', tuiCardStyle)

		tx, ty := int(p.TickX), int(p.AnchorY)
		if p.Side == place.SideAbove {
			ty--
		}
		if ty >= 0 && ty < h && tx >= 0 && tx < w {
			canvas[ty][tx] = cell{ch: '◆', style: tuiTickStyle}
		}
	}

	var b strings.Builder
	for _, row := range canvas {
		for _, c := range row {
			if c.ch == ' ' {
				b.WriteByte(' ')
			} else {
				b.WriteString(c.style.Render(string(c.ch)))
			}
		}
		b.WriteByte('\n')
	}

	status := fmt.Sprintf("variant:%s  side:%s  phase:%s  tracking:%v",
		m.strategy.Name(), p.Side, m.view.Snapshot.Phase, m.card.Tracking())
	if !p.Visible {
		status += "  " + StyleWarning.Render("hidden")
	}
	b.WriteString(StyleHighlight.Render(status))
	b.WriteByte('\n')
	b.WriteString(StyleDim.Render("arrows/hjkl move  v variant  p panel  q quit"))

	return b.String()
}
