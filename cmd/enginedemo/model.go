package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/anthropics/audioengine/backend/mock"
	"github.com/anthropics/audioengine/pkg/engine"
	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/param"
)

// model is the demo's transport/mixer console, replacing the teacher's
// pattern-grid editor with direct engine handle calls: there is no note grid
// to navigate, only a track's volume/panning and the engine's play/pause
// state to drive.
type model struct {
	controller *engine.Controller
	renderer   *engine.Renderer
	scene      *scene
	backend    *mock.Backend

	width, height int
	playing       bool
	realBackend   bool // true when a real device is pulling frames; the tick loop must not also drive the renderer
	volumeDB      float64
	panning       float32
	statusMsg     string
	tremoloOn     bool
}

func newModel(controller *engine.Controller, renderer *engine.Renderer, s *scene) model {
	return model{
		controller: controller,
		renderer:   renderer,
		scene:      s,
		backend:    mock.New(renderer, 2, controller.Config().InternalBufferSize),
		width:      80,
		height:     24,
		volumeDB:   0,
		panning:    0.5,
		tremoloOn:  true,
	}
}

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		if m.playing && !m.realBackend {
			m.backend.Advance()
		}
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// silenceTremolo clears the LFO volume source so a manual SetVolume call
// below is no longer silently overridden every frame.
func (m *model) silenceTremolo() {
	if m.tremoloOn {
		m.tremoloOn = false
		m.scene.track.ClearVolumeSource()
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.scene.close()
		return m, tea.Quit

	case " ":
		m.playing = !m.playing
		if m.playing {
			m.statusMsg = "playing"
		} else {
			m.statusMsg = "paused"
		}

	case "up":
		m.silenceTremolo()
		m.volumeDB += 1
		m.scene.track.SetVolume(frame.Decibels(m.volumeDB), param.Instant)

	case "down":
		m.silenceTremolo()
		m.volumeDB -= 1
		m.scene.track.SetVolume(frame.Decibels(m.volumeDB), param.Instant)

	case "t":
		m.tremoloOn = true
		m.scene.track.SetVolumeSource(m.scene.tremolo)
		m.statusMsg = "tremolo re-enabled"

	case "left":
		if m.panning > 0 {
			m.panning -= 0.1
		}
		m.scene.track.SetPanning(m.panning, param.Instant)

	case "right":
		if m.panning < 1 {
			m.panning += 0.1
		}
		m.scene.track.SetPanning(m.panning, param.Instant)

	case "r":
		m.scene.fadeClock.Stop()
		m.scene.fadeClock.Start()
		m.statusMsg = "fade clock restarted"
	}
	return m, nil
}

func (m model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Render("audioengine demo")

	state := "stopped"
	if m.playing {
		state = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("playing")
	}

	volLabel := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("volume")
	panLabel := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("pan")

	body := fmt.Sprintf(
		"%s\n\nstate: %s\n%s: %+.1f dB\n%s: %.1f\n\n[space] play/pause  [up/down] volume  [left/right] pan  [t] tremolo  [r] restart fade  [q] quit\n\n%s",
		title, state, volLabel, m.volumeDB, panLabel, m.panning, m.statusMsg,
	)
	return body
}
