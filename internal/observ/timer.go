// Package observ times the phases of a lint run (input collection, config
// discovery, analysis, rendering) for the --timings flag.
package observ

import (
	"fmt"
	"strings"
	"time"
)

type phase struct {
	name    string
	note    string
	elapsed time.Duration
}

// Timer collects named phases in the order they were started. Not safe for
// concurrent use; a run times its phases from one goroutine.
type Timer struct {
	phases []phase
}

func NewTimer() *Timer { return &Timer{} }

// Start opens a phase and returns the closer that records its duration.
// The note is free text shown next to the duration, "" for none.
func (t *Timer) Start(name string) func(note string) {
	t.phases = append(t.phases, phase{name: name})
	idx := len(t.phases) - 1
	began := time.Now()
	return func(note string) {
		t.phases[idx].elapsed = time.Since(began)
		t.phases[idx].note = note
	}
}

// PhaseReport is the serializable view of one timed phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates every phase plus the total.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	r := Report{Phases: make([]PhaseReport, 0, len(t.phases))}
	var total time.Duration
	for _, p := range t.phases {
		total += p.elapsed
		r.Phases = append(r.Phases, PhaseReport{
			Name:       p.name,
			DurationMS: millis(p.elapsed),
			Note:       p.note,
		})
	}
	r.TotalMS = millis(total)
	return r
}

// Summary renders the report as indented text for stderr.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // ")
			b.WriteString(p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
