package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/neurosim/internal/experiment"
)

// Column returns the CSV column name for a state of one batch element.
// Single-element runs use the bare state name.
func Column(name string, elem, batch int) string {
	if batch == 1 {
		return name
	}
	return fmt.Sprintf("%s[%d]", name, elem)
}

// ExportCSV writes one row per recorded tick: time, every state per batch
// element in declaration order, then the stimulus per batch element.
func ExportCSV(w io.Writer, result *experiment.Result) error {
	cw := csv.NewWriter(w)

	header := []string{"time"}
	for _, name := range result.Names {
		for b := 0; b < result.Batch; b++ {
			header = append(header, Column(name, b, result.Batch))
		}
	}
	for b := 0; b < result.Batch; b++ {
		header = append(header, Column("stimulus", b, result.Batch))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, t := range result.Times {
		row = row[:0]
		row = append(row, strconv.FormatFloat(t, 'g', -1, 64))
		for _, name := range result.Names {
			for _, x := range result.States[name][i] {
				row = append(row, strconv.FormatFloat(x, 'g', -1, 64))
			}
		}
		for _, x := range result.Stimulus[i] {
			row = append(row, strconv.FormatFloat(x, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Trace is a states.csv read back as named columns.
type Trace struct {
	Times   []float64
	Columns []string
	Series  map[string][]float64
}

func ReadCSV(r io.Reader) (*Trace, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) == 0 || records[0][0] != "time" {
		return nil, fmt.Errorf("missing time header")
	}

	header := records[0][1:]
	tr := &Trace{
		Times:   make([]float64, 0, len(records)-1),
		Columns: header,
		Series:  make(map[string][]float64, len(header)),
	}
	for _, rec := range records[1:] {
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(tr.Times)+1, err)
		}
		tr.Times = append(tr.Times, t)
		for j, col := range header {
			x, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", len(tr.Times), col, err)
			}
			tr.Series[col] = append(tr.Series[col], x)
		}
	}
	return tr, nil
}

// ExportData is the JSON form of a run.
type ExportData struct {
	Variant    string                 `json:"variant"`
	Integrator string                 `json:"integrator"`
	Dt         float64                `json:"dt"`
	Batch      int                    `json:"batch"`
	Steps      int                    `json:"steps"`
	Params     map[string]float64     `json:"params"`
	Times      []float64              `json:"times"`
	States     map[string][][]float64 `json:"states"`
	Stimulus   [][]float64            `json:"stimulus"`
	Metrics    map[string]float64     `json:"metrics"`
	Warnings   int                    `json:"warnings"`
	Clipped    int                    `json:"clipped"`
}

func ExportJSON(w io.Writer, result *experiment.Result) error {
	data := ExportData{
		Variant:    result.Variant,
		Integrator: result.Integrator,
		Dt:         result.Dt,
		Batch:      result.Batch,
		Steps:      result.Steps,
		Params:     result.Params,
		Times:      result.Times,
		States:     make(map[string][][]float64, len(result.States)),
		Stimulus:   make([][]float64, len(result.Stimulus)),
		Metrics:    finiteMetrics(result.Metrics),
		Warnings:   result.Warnings,
		Clipped:    result.Clipped,
	}
	for name, rows := range result.States {
		out := make([][]float64, len(rows))
		for i, row := range rows {
			out[i] = row
		}
		data.States[name] = out
	}
	for i, row := range result.Stimulus {
		data.Stimulus[i] = row
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// finiteMetrics drops NaN and Inf values, which JSON cannot carry.
func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}
