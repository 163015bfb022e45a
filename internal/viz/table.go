package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/neurosim/internal/engine"
)

func newTable(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Primary).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(CurrentTheme.Text).Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(CurrentTheme.Muted)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers(headers...)
}

// VariantTable lists variants with their states, parameters and time scale.
func VariantTable(catalog []engine.Meta) string {
	t := newTable("variant", "states", "params", "scale", "description")
	for _, m := range catalog {
		states := make([]string, len(m.Defaults.States))
		for i, s := range m.Defaults.States {
			states[i] = s.Name
		}
		params := make([]string, len(m.Defaults.Params))
		for i, p := range m.Defaults.Params {
			params[i] = p.Name
		}
		desc := m.Description
		if m.Unimplemented {
			desc = warnStyle().Render("unimplemented") + " " + desc
		}
		t.Row(m.Name, strings.Join(states, " "), strings.Join(params, " "), fmt.Sprintf("%g", m.Scale()), desc)
	}
	return t.Render()
}

// MetricsTable lists metric values sorted by name.
func MetricsTable(values map[string]float64) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	t := newTable("metric", "value")
	for _, name := range names {
		t.Row(name, fmt.Sprintf("%.6g", values[name]))
	}
	return t.Render()
}

// ParamTable lists a variant's defaults next to the values in use.
func ParamTable(meta engine.Meta, params map[string]float64) string {
	t := newTable("param", "default", "value")
	for _, p := range meta.Defaults.Params {
		v, ok := params[p.Name]
		if !ok {
			v = p.Value
		}
		t.Row(p.Name, fmt.Sprintf("%g", p.Value), fmt.Sprintf("%g", v))
	}
	return t.Render()
}
