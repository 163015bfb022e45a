package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/engine"
	"github.com/san-kum/neurosim/internal/stimulus"
)

const (
	historyCapacity = 600
	frameRate       = time.Second / 30
)

type TickMsg time.Time

// LiveOptions tunes the live view.
type LiveOptions struct {
	// Trace is the state plotted; defaults to v, else the first state.
	Trace string
	// StepsPerFrame is the number of ticks run between redraws.
	StepsPerFrame int
	// StimStep is the stimulus change per key press.
	StimStep float64
}

// Live steps element 0 of a model in real time under a stimulus the user
// drives from the keyboard.
type Live struct {
	model   *engine.Model
	stim    *stimulus.Manual
	opts    LiveOptions
	buf     dynamo.Vec
	history []float64
	spikes  []float64
	count   int
	running bool
	err     error
}

func NewLive(model *engine.Model, stim *stimulus.Manual, opts LiveOptions) Live {
	if opts.Trace == "" {
		opts.Trace = model.Names()[0]
		for _, name := range model.Names() {
			if name == "v" {
				opts.Trace = name
			}
		}
	}
	if opts.StepsPerFrame <= 0 {
		opts.StepsPerFrame = 20
	}
	if opts.StimStep == 0 {
		opts.StimStep = 0.5
	}
	return Live{
		model:   model,
		stim:    stim,
		opts:    opts,
		buf:     make(dynamo.Vec, model.Batch()),
		history: make([]float64, 0, historyCapacity),
		spikes:  make([]float64, 0, historyCapacity),
		running: true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (l Live) Init() tea.Cmd {
	return tick()
}

func (l Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return l, tea.Quit
		case " ":
			l.running = !l.running
		case "up", "k":
			l.stim.Adjust(l.opts.StimStep)
		case "down", "j":
			l.stim.Adjust(-l.opts.StimStep)
		case "r":
			l.reset()
		case "t":
			NextTheme()
		}
	case TickMsg:
		if l.running && l.err == nil {
			l.advance()
		}
		return l, tick()
	}
	return l, nil
}

// advance runs one frame worth of ticks. A step error pauses the view and
// is shown until reset.
func (l *Live) advance() {
	for i := 0; i < l.opts.StepsPerFrame; i++ {
		l.stim.At(l.model.Time(), l.buf)
		snap, err := l.model.Step(l.buf)
		if err != nil {
			l.err = err
			l.running = false
			return
		}
		l.history = appendCapped(l.history, snap.Value(l.opts.Trace)[0])
		spike := 0.0
		if len(snap.Spike) > 0 {
			spike = snap.Spike[0]
		}
		if spike == 1 {
			l.count++
		}
		l.spikes = appendCapped(l.spikes, spike)
	}
}

func appendCapped(s []float64, x float64) []float64 {
	s = append(s, x)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (l *Live) reset() {
	l.model.Reset()
	l.history = l.history[:0]
	l.spikes = l.spikes[:0]
	l.count = 0
	l.err = nil
	l.running = true
}

func (l Live) View() string {
	meta := l.model.Meta()

	status := "RUNNING"
	if !l.running {
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(titleStyle().Render(strings.ToUpper(meta.Name)) + "  " + hintStyle().Render(status) + "\n\n")

	if len(l.history) > 1 {
		graph := asciigraph.Plot(Downsample(l.history, 70),
			asciigraph.Height(12),
			asciigraph.Width(70),
			asciigraph.Caption(l.opts.Trace))
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(graph) + "\n")
		if meta.HasSpike() {
			s.WriteString(SpikeRaster(l.spikes, 70) + "\n")
		}
		s.WriteString("\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle().Render(label) + valueStyle().Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.4f", l.model.Time()*meta.Scale()))
	row("tick", fmt.Sprintf("%d", l.model.Tick()))
	row("stimulus", fmt.Sprintf("%.3g", l.stim.Amplitude))
	if len(l.history) > 0 {
		row(l.opts.Trace, fmt.Sprintf("%.4g", l.history[len(l.history)-1]))
	}
	if meta.HasSpike() {
		row("spikes", fmt.Sprintf("%d", l.count))
	}
	row("integrator", l.model.Integrator())
	if w := l.model.Warnings(); w > 0 {
		row("warnings", warnStyle().Render(fmt.Sprintf("%d", w)))
	}
	if c := l.model.Clipped(); c > 0 {
		row("clipped", fmt.Sprintf("%d", c))
	}
	if l.err != nil {
		s.WriteString("\n" + warnStyle().Render(l.err.Error()) + "\n")
	}

	s.WriteString("\n" + hintStyle().Render("space pause · ↑/↓ stimulus · r reset · t theme · q quit"))
	return s.String()
}
