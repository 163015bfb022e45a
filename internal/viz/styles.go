package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Primary)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Width(14)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Text)
}

func hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Italic(true)
}

func warnStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Warning)
}

// SpikeRaster draws a spike train as one line of width cells. A cell is
// marked when any sample falling into it is a spike.
func SpikeRaster(spikes []float64, width int) string {
	if width <= 0 {
		return ""
	}
	cells := make([]bool, width)
	for i, s := range spikes {
		if s == 1 {
			cells[i*width/len(spikes)] = true
		}
	}

	mark := lipgloss.NewStyle().Foreground(CurrentTheme.Spike).Render("|")
	rest := lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render("·")
	var sb strings.Builder
	for _, c := range cells {
		if c {
			sb.WriteString(mark)
		} else {
			sb.WriteString(rest)
		}
	}
	return sb.String()
}
