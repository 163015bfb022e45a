// Package tui is the interactive front end: pick a variant, edit its
// settings, then watch it run in the live view.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/neurosim/internal/config"
	"github.com/san-kum/neurosim/internal/engine"
	"github.com/san-kum/neurosim/internal/integrators"
	"github.com/san-kum/neurosim/internal/neuron"
	"github.com/san-kum/neurosim/internal/stimulus"
	"github.com/san-kum/neurosim/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type state int

const (
	stateMenu state = iota
	stateConfig
	stateSim
)

// Settings that are not variant parameters.
const (
	fieldDt  = "dt"
	fieldAmp = "stimulus"
)

type App struct {
	state   state
	cursor  int
	catalog []engine.Meta
	meta    engine.Meta

	fields      []string
	values      map[string]float64
	fieldCursor int
	integrator  int
	editing     bool
	editBuf     string

	live viz.Live
	err  error
}

func NewApp() App {
	return App{
		state:   stateMenu,
		catalog: neuron.Catalog(),
	}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch a.state {
		case stateMenu:
			return a.menuKey(key)
		case stateConfig:
			return a.configKey(key)
		case stateSim:
			if s := key.String(); s == "esc" || s == "c" {
				a.state = stateConfig
				return a, tea.ClearScreen
			}
		}
	}
	if a.state == stateSim {
		next, cmd := a.live.Update(msg)
		a.live = next.(viz.Live)
		return a, cmd
	}
	return a, nil
}

func (a App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.catalog)-1 {
			a.cursor++
		}
	case "enter", " ":
		a.selectVariant(a.catalog[a.cursor])
	}
	return a, nil
}

func (a *App) selectVariant(meta engine.Meta) {
	a.meta = meta
	a.state = stateConfig
	a.fieldCursor = 0
	a.err = nil

	a.fields = []string{fieldDt, fieldAmp}
	a.values = map[string]float64{fieldDt: config.DefaultDt, fieldAmp: config.DefaultAmplitude}
	for _, p := range meta.Defaults.Params {
		a.fields = append(a.fields, p.Name)
		a.values[p.Name] = p.Value
	}
}

func (a App) configKey(msg tea.KeyMsg) (App, tea.Cmd) {
	name := a.fields[a.fieldCursor]
	if a.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(a.editBuf, 64); err == nil {
				a.values[name] = v
			}
			a.editing = false
			a.editBuf = ""
		case "esc":
			a.editing = false
			a.editBuf = ""
		case "backspace":
			if len(a.editBuf) > 0 {
				a.editBuf = a.editBuf[:len(a.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-+eE") {
				a.editBuf += s
			}
		}
		return a, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "q", "esc":
		a.state = stateMenu
	case "up", "k":
		if a.fieldCursor > 0 {
			a.fieldCursor--
		}
	case "down", "j":
		if a.fieldCursor < len(a.fields)-1 {
			a.fieldCursor++
		}
	case "enter", " ":
		a.editing = true
		a.editBuf = strconv.FormatFloat(a.values[name], 'g', -1, 64)
	case "left", "h":
		a.values[name] *= 0.9
	case "right", "l":
		a.values[name] *= 1.1
	case "i":
		a.integrator = (a.integrator + 1) % len(integrators.Names())
	case "s":
		if err := a.start(); err != nil {
			a.err = err
			return a, nil
		}
		a.state = stateSim
		return a, tea.Batch(tea.ClearScreen, a.live.Init())
	}
	return a, nil
}

// Options returns the model options for the current settings.
func (a App) Options() engine.Options {
	params := make(map[string]float64, len(a.meta.Defaults.Params))
	for _, p := range a.meta.Defaults.Params {
		params[p.Name] = a.values[p.Name]
	}
	integ, _ := integrators.ByName(integrators.Names()[a.integrator])
	return engine.Options{
		Params:     params,
		Batch:      1,
		Dt:         a.values[fieldDt],
		Integrator: integ,
	}
}

func (a *App) start() error {
	if a.values[fieldDt] <= 0 {
		return fmt.Errorf("dt must be positive")
	}
	model, err := neuron.New(a.meta.Name, a.Options())
	if err != nil {
		return err
	}
	a.err = nil
	a.live = viz.NewLive(model, stimulus.NewManual(a.values[fieldAmp]), viz.LiveOptions{})
	return nil
}

func (a App) View() string {
	switch a.state {
	case stateMenu:
		return a.viewMenu()
	case stateConfig:
		return a.viewConfig()
	case stateSim:
		return a.live.View() + "\n" + dim.Render("esc settings")
	}
	return ""
}

func (a App) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + cyan.Render("n e u r o s i m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, meta := range a.catalog {
		desc := meta.Description
		if meta.Unimplemented {
			desc = "(stub) " + desc
		}
		if i == a.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", meta.Name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", meta.Name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter configure   q quit") + "\n")
	return b.String()
}

func (a App) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(a.meta.Name) + "  " + dim.Render(a.meta.Description) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	for i, name := range a.fields {
		val := fmt.Sprintf("%10.4g", a.values[name])
		if a.editing && i == a.fieldCursor {
			val = fmt.Sprintf("%10s", a.editBuf+"▋")
		}
		if i == a.fieldCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", name)) + dim.Render(val) + "\n")
		}
	}
	b.WriteString("\n        " + dim.Render(fmt.Sprintf("%-10s", "integrator")) + white.Render(integrators.Names()[a.integrator]) + "\n")

	if a.err != nil {
		b.WriteString("\n      " + red.Render(a.err.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  i integrator  s start  esc back") + "\n")
	return b.String()
}
