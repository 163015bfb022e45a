package metrics

import "github.com/san-kum/neurosim/internal/engine"

// Warnings reports the singular-point substitutions made so far.
type Warnings struct {
	name  string
	count int
}

func NewWarnings() *Warnings {
	return &Warnings{name: "warnings"}
}

func (w *Warnings) Name() string { return w.name }

func (w *Warnings) Observe(_ engine.Snapshot, m *engine.Model) {
	w.count = m.Warnings()
}

func (w *Warnings) Value() float64 { return float64(w.count) }

func (w *Warnings) Reset() { w.count = 0 }

// Clipped reports the state elements clipped to their bounds so far.
type Clipped struct {
	name  string
	count int
}

func NewClipped() *Clipped {
	return &Clipped{name: "clipped"}
}

func (c *Clipped) Name() string { return c.name }

func (c *Clipped) Observe(_ engine.Snapshot, m *engine.Model) {
	c.count = m.Clipped()
}

func (c *Clipped) Value() float64 { return float64(c.count) }

func (c *Clipped) Reset() { c.count = 0 }
