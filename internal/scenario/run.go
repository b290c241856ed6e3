package scenario

import (
	"context"
	"time"

	"github.com/juanibiapina/vlist/internal/list"
	"github.com/juanibiapina/vlist/internal/sim"
)

// Result is the outcome of a scenario run
type Result struct {
	Name     string        `json:"name"`
	Binding  string        `json:"binding"`
	Steps    int           `json:"steps"`
	Snapshot list.Snapshot `json:"snapshot"`
	Trace    []sim.Record  `json:"trace"`
	Errors   []StepError   `json:"errors,omitempty"`
	Stats    sim.Stats     `json:"stats"`
	Duration time.Duration `json:"duration_ns"`
}

// Events returns the event records of the trace
func (r *Result) Events() []sim.Record {
	var out []sim.Record
	for _, rec := range r.Trace {
		if rec.Kind == sim.KindEvent {
			out = append(out, rec)
		}
	}
	return out
}

// Run applies every step of s and returns the final state. It stops early
// only when ctx is done.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	start := time.Now()
	sess, err := NewSession(s)
	if err != nil {
		return nil, err
	}
	for _, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// rejections are part of the result
		_ = sess.Apply(step)
	}
	return sess.Result(time.Since(start)), nil
}

// Result captures the session's current state
func (s *Session) Result(elapsed time.Duration) *Result {
	mode, _ := sim.ParseMode(s.Scenario.Binding)
	return &Result{
		Name:     s.Scenario.Name,
		Binding:  mode.String(),
		Steps:    s.step,
		Snapshot: s.List.Snapshot(),
		Trace:    s.Host.Trace(),
		Errors:   s.Errors(),
		Stats:    s.Host.Stats(),
		Duration: elapsed,
	}
}

// Summary is the compact form of a result shown by the CLI and MCP tools
type Summary struct {
	Name          string         `json:"name"`
	LayoutType    string         `json:"layout_type"`
	Binding       string         `json:"binding"`
	Steps         int            `json:"steps"`
	ContentOffset float64        `json:"content_offset"`
	ContentSize   float64        `json:"content_size"`
	Visible       []string       `json:"visible"`
	Events        map[string]int `json:"events"`
	Errors        []StepError    `json:"errors,omitempty"`
	Stats         sim.Stats      `json:"stats"`
	Duration      time.Duration  `json:"duration_ns"`
}

// Summary counts events by name and keeps the final geometry
func (r *Result) Summary() Summary {
	events := make(map[string]int)
	for _, rec := range r.Events() {
		events[rec.Name]++
	}
	visible := r.Snapshot.VisibleKeys()
	if visible == nil {
		visible = []string{}
	}
	return Summary{
		Name:          r.Name,
		LayoutType:    r.Snapshot.LayoutType,
		Binding:       r.Binding,
		Steps:         r.Steps,
		ContentOffset: r.Snapshot.ContentOffset,
		ContentSize:   r.Snapshot.ContentSize,
		Visible:       visible,
		Events:        events,
		Errors:        r.Errors,
		Stats:         r.Stats,
		Duration:      r.Duration,
	}
}
