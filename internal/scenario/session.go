package scenario

import (
	"fmt"

	"github.com/juanibiapina/vlist/internal/list"
	"github.com/juanibiapina/vlist/internal/sim"
)

// Session is an engine wired to a simulated host, set up from a scenario
// and driven one step at a time.
type Session struct {
	Scenario *Scenario
	List     *list.Container
	Host     *sim.Host

	step    int
	applied []Step
	errs    []StepError
}

// StepError is a rejection the engine returned for a step
type StepError struct {
	Step    int    `json:"step"`
	Message string `json:"message"`
}

// NewSession creates the engine and host, subscribes the scenario's events
// and applies its attributes and initial data source. It does not lay out.
func NewSession(s *Scenario) (*Session, error) {
	mode, err := sim.ParseMode(s.Binding)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidScenario)
	}
	hostOpts := []sim.Option{sim.WithMode(mode), sim.WithSize(s.sizeFunc())}
	if len(s.ElementEvents) > 0 {
		hostOpts = append(hostOpts, sim.WithElementEvents(s.ElementEvents...))
	}
	h := sim.NewHost(hostOpts...)

	opts := []list.Option{
		list.WithListID(1),
		list.WithFrame(list.ElementLayout{
			Width:   s.List.Width,
			Height:  s.List.Height,
			Padding: s.List.Padding,
		}),
		list.WithRTL(s.List.RTL),
	}
	if s.List.UnitsPerPx > 0 {
		opts = append(opts, list.WithUnitsPerPx(s.List.UnitsPerPx))
	}
	c := list.New(h, opts...)
	h.Attach(c)

	events := s.Events
	if len(events) == 0 {
		events = ListEvents
	}
	for _, name := range events {
		c.AddEvent(name)
	}
	for _, k := range sortedAttributes(s.Attributes) {
		c.ResolveAttribute(k, s.Attributes[k])
	}
	c.ResolveAttribute(list.AttrListPlatformInfo, sim.PlatformInfo(s.ItemSpecs()))
	c.PropsUpdateFinish()

	return &Session{Scenario: s, List: c, Host: h}, nil
}

// Step returns the number of steps applied
func (s *Session) Step() int { return s.step }

// Applied returns the steps applied so far
func (s *Session) Applied() []Step { return append([]Step{}, s.applied...) }

// Errors returns step rejections and the errors the engine reported to the
// host, in order.
func (s *Session) Errors() []StepError {
	out := append([]StepError{}, s.errs...)
	for _, r := range s.Host.Trace() {
		if r.Kind != sim.KindError {
			continue
		}
		msg, _ := r.Detail["message"].(string)
		out = append(out, StepError{Step: r.Step, Message: msg})
	}
	return out
}

// Apply runs one step. The returned error is also kept in Errors; the
// session stays usable.
func (s *Session) Apply(step Step) error {
	kind := step.Kind()
	if kind == "" {
		return fmt.Errorf("step sets %v: %w", step.kinds(), ErrInvalidScenario)
	}
	s.step++
	s.applied = append(s.applied, step)
	s.Host.SetStep(s.step)

	err := s.apply(step)
	if err != nil {
		s.errs = append(s.errs, StepError{Step: s.step, Message: err.Error()})
	}
	return err
}

func (s *Session) apply(step Step) error {
	c := s.List
	switch {
	case step.Layout != nil:
		c.OnLayoutChildren()
	case step.Scroll != nil:
		s.scroll(*step.Scroll)
	case step.Insert != nil:
		in := step.Insert
		if in.Size > 0 {
			s.Host.SetSize(in.Key, in.Size)
		}
		est := in.Estimate
		if est <= 0 {
			est = in.Size
		}
		s.update(sim.Actions([]map[string]any{sim.InsertAction(in.Position, in.Key, int(est), in.FullSpan)}, nil, nil))
	case step.Remove != nil:
		s.update(sim.Actions(nil, step.Remove.Positions, nil))
	case step.Update != nil:
		u := step.Update
		s.update(sim.Actions(nil, nil, []map[string]any{sim.UpdateAction(u.From, u.To, u.Key, u.Flush)}))
	case step.Attributes != nil:
		for _, k := range sortedAttributes(step.Attributes) {
			c.ResolveAttribute(k, step.Attributes[k])
		}
		c.PropsUpdateFinish()
		c.OnLayoutChildren()
	case step.ScrollTo != nil:
		st := step.ScrollTo
		align, err := list.ParseScrollAlign(st.Align)
		if err != nil {
			return err
		}
		return c.ScrollToPosition(st.Index, st.Offset, align, st.Smooth)
	case step.FinishBinds != nil:
		rounds := max(step.FinishBinds.Rounds, 1)
		for i := 0; i < rounds && s.Host.Pending() > 0; i++ {
			if step.FinishBinds.Reverse {
				s.Host.FinishBindsReverse()
			} else {
				s.Host.FinishBinds()
			}
		}
	case step.Frame != nil:
		s.Host.Tick()
	case step.Stopped != nil:
		c.ScrollStopped()
	case step.Resize != nil:
		s.Host.Resize(step.Resize.Key, step.Resize.Size)
		c.OnLayoutChildren()
	case step.SetFrame != nil:
		c.SetFrame(*step.SetFrame)
		c.OnLayoutChildren()
	}
	return nil
}

// update applies one update-list-info payload and lays out
func (s *Session) update(payload map[string]any) {
	s.List.ResolveAttribute(list.AttrUpdateListInfo, payload)
	s.List.PropsUpdateFinish()
	s.List.OnLayoutChildren()
}

// scroll moves the platform offset, clamped to the scrollable range, and
// hands it to the engine with the unclamped value as the original.
func (s *Session) scroll(st ScrollStep) {
	c := s.List
	target := c.ContentOffset() + st.Delta
	if st.To != nil {
		target = *st.To
	}
	original := target
	limit := max(c.ContentSize()-c.ViewportSize(), 0)
	target = min(max(target, 0), limit)
	if c.Orientation() == list.OrientationHorizontal {
		c.ScrollByPlatformContainer(target, 0, original, 0)
		return
	}
	c.ScrollByPlatformContainer(0, target, 0, original)
}

// Recorded returns the scenario with the applied steps in place of the
// scripted ones. Rejected steps are not part of it.
func (s *Session) Recorded() *Scenario {
	sc := *s.Scenario
	sc.Steps = s.Applied()
	return &sc
}
