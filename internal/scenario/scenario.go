package scenario

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/juanibiapina/vlist/internal/list"
	"github.com/juanibiapina/vlist/internal/sim"
)

// ErrInvalidScenario is returned for scenario files that parse but cannot run
var ErrInvalidScenario = errors.New("invalid scenario")

// ListEvents are the list-level events a scenario subscribes to when it
// names none.
var ListEvents = []string{
	list.EventScroll,
	list.EventScrollToUpper,
	list.EventScrollToLower,
	list.EventScrollToUpperEdge,
	list.EventScrollToLowerEdge,
	list.EventScrollToNormalState,
	list.EventLayoutComplete,
	list.EventDebugInfo,
}

// Scenario is a scripted run of the engine against the simulated host.
// Events are the list events to subscribe to, ListEvents when empty.
// ElementEvents are registered on every item element.
type Scenario struct {
	Name          string         `yaml:"name" json:"name"`
	List          ListSpec       `yaml:"list" json:"list"`
	Attributes    map[string]any `yaml:"attributes" json:"attributes,omitempty"`
	Items         ItemsSpec      `yaml:"items" json:"items"`
	Binding       string         `yaml:"binding" json:"binding,omitempty"`
	Events        []string       `yaml:"events" json:"events,omitempty"`
	ElementEvents []string       `yaml:"element_events" json:"element_events,omitempty"`
	Steps         []Step         `yaml:"steps" json:"steps"`
}

// ListSpec is the list element's box
type ListSpec struct {
	Width      float64    `yaml:"width" json:"width"`
	Height     float64    `yaml:"height" json:"height"`
	Padding    list.Edges `yaml:"padding" json:"padding"`
	RTL        bool       `yaml:"rtl" json:"rtl,omitempty"`
	UnitsPerPx float64    `yaml:"units_per_px" json:"units_per_px,omitempty"`
}

// ItemsSpec describes the initial data source. Size is what the host
// measures; Estimate is what the data source declares and defaults to Size.
type ItemsSpec struct {
	Count        int                `yaml:"count" json:"count"`
	Size         float64            `yaml:"size" json:"size"`
	Estimate     float64            `yaml:"estimate" json:"estimate,omitempty"`
	Sizes        map[string]float64 `yaml:"sizes" json:"sizes,omitempty"`
	FullSpan     []int              `yaml:"full_span" json:"full_span,omitempty"`
	StickyTop    []int              `yaml:"sticky_top" json:"sticky_top,omitempty"`
	StickyBottom []int              `yaml:"sticky_bottom" json:"sticky_bottom,omitempty"`
}

// Step is one scenario action. Exactly one field is set.
type Step struct {
	Layout      *struct{}           `yaml:"layout,omitempty" json:"layout,omitempty"`
	Scroll      *ScrollStep         `yaml:"scroll,omitempty" json:"scroll,omitempty"`
	Insert      *InsertStep         `yaml:"insert,omitempty" json:"insert,omitempty"`
	Remove      *RemoveStep         `yaml:"remove,omitempty" json:"remove,omitempty"`
	Update      *UpdateStep         `yaml:"update,omitempty" json:"update,omitempty"`
	Attributes  map[string]any      `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	ScrollTo    *ScrollToStep       `yaml:"scrollTo,omitempty" json:"scrollTo,omitempty"`
	FinishBinds *FinishBindsStep    `yaml:"finishBinds,omitempty" json:"finishBinds,omitempty"`
	Frame       *struct{}           `yaml:"frame,omitempty" json:"frame,omitempty"`
	Stopped     *struct{}           `yaml:"stopped,omitempty" json:"stopped,omitempty"`
	Resize      *ResizeStep         `yaml:"resize,omitempty" json:"resize,omitempty"`
	SetFrame    *list.ElementLayout `yaml:"setFrame,omitempty" json:"setFrame,omitempty"`
}

// ScrollStep scrolls by Delta, or to To when set. The offset is clamped to
// the content the way a platform scroller would.
type ScrollStep struct {
	Delta float64  `yaml:"delta" json:"delta,omitempty"`
	To    *float64 `yaml:"to" json:"to,omitempty"`
}

type InsertStep struct {
	Position int     `yaml:"position" json:"position"`
	Key      string  `yaml:"key" json:"key"`
	Size     float64 `yaml:"size" json:"size,omitempty"`
	Estimate float64 `yaml:"estimate" json:"estimate,omitempty"`
	FullSpan bool    `yaml:"full_span" json:"full_span,omitempty"`
}

type RemoveStep struct {
	Positions []int `yaml:"positions" json:"positions"`
}

type UpdateStep struct {
	From  int    `yaml:"from" json:"from"`
	To    int    `yaml:"to" json:"to"`
	Key   string `yaml:"key" json:"key,omitempty"`
	Flush bool   `yaml:"flush" json:"flush,omitempty"`
}

type ScrollToStep struct {
	Index  int     `yaml:"index" json:"index"`
	Offset float64 `yaml:"offset" json:"offset,omitempty"`
	Align  string  `yaml:"align" json:"align,omitempty"`
	Smooth bool    `yaml:"smooth" json:"smooth,omitempty"`
}

// FinishBindsStep completes pending binds. Reverse completes the newest
// first; Rounds > 1 also completes binds the completions issue.
type FinishBindsStep struct {
	Reverse bool `yaml:"reverse" json:"reverse,omitempty"`
	Rounds  int  `yaml:"rounds" json:"rounds,omitempty"`
}

// ResizeStep changes the size an item measures to and lays out again
type ResizeStep struct {
	Key  string  `yaml:"key" json:"key"`
	Size float64 `yaml:"size" json:"size"`
}

// Kind returns the name of the set field, or "" when none or several are set
func (s Step) Kind() string {
	kinds := s.kinds()
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

func (s Step) kinds() []string {
	var kinds []string
	add := func(set bool, name string) {
		if set {
			kinds = append(kinds, name)
		}
	}
	add(s.Layout != nil, "layout")
	add(s.Scroll != nil, "scroll")
	add(s.Insert != nil, "insert")
	add(s.Remove != nil, "remove")
	add(s.Update != nil, "update")
	add(s.Attributes != nil, "attributes")
	add(s.ScrollTo != nil, "scrollTo")
	add(s.FinishBinds != nil, "finishBinds")
	add(s.Frame != nil, "frame")
	add(s.Stopped != nil, "stopped")
	add(s.Resize != nil, "resize")
	add(s.SetFrame != nil, "setFrame")
	return kinds
}

// Parse decodes and validates a scenario
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks what the engine cannot report itself
func (s *Scenario) Validate() error {
	if s.List.Width <= 0 || s.List.Height <= 0 {
		return fmt.Errorf("list size %vx%v: %w", s.List.Width, s.List.Height, ErrInvalidScenario)
	}
	if s.Items.Count < 0 {
		return fmt.Errorf("items count %d: %w", s.Items.Count, ErrInvalidScenario)
	}
	if _, err := sim.ParseMode(s.Binding); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidScenario)
	}
	for i, step := range s.Steps {
		if kinds := step.kinds(); len(kinds) != 1 {
			return fmt.Errorf("step %d sets %d actions %v: %w", i+1, len(kinds), kinds, ErrInvalidScenario)
		}
		if step.ScrollTo != nil {
			if _, err := list.ParseScrollAlign(step.ScrollTo.Align); err != nil {
				return fmt.Errorf("step %d: %v: %w", i+1, err, ErrInvalidScenario)
			}
		}
		if step.Insert != nil && step.Insert.Key == "" {
			return fmt.Errorf("step %d: insert without key: %w", i+1, ErrInvalidScenario)
		}
	}
	return nil
}

// ItemSpecs expands the items section into the initial data source
func (s *Scenario) ItemSpecs() []sim.ItemSpec {
	est := s.Items.Estimate
	if est <= 0 {
		est = s.Items.Size
	}
	specs := make([]sim.ItemSpec, s.Items.Count)
	for i, key := range sim.Keys(s.Items.Count) {
		specs[i] = sim.ItemSpec{Key: key, EstimatedSize: int(est)}
	}
	mark := func(indexes []int, set func(*sim.ItemSpec)) {
		for _, i := range indexes {
			if i >= 0 && i < len(specs) {
				set(&specs[i])
			}
		}
	}
	mark(s.Items.FullSpan, func(it *sim.ItemSpec) { it.FullSpan = true })
	mark(s.Items.StickyTop, func(it *sim.ItemSpec) { it.StickyTop = true })
	mark(s.Items.StickyBottom, func(it *sim.ItemSpec) { it.StickyBottom = true })
	return specs
}

// sizeFunc measures keys listed in Sizes to their size and everything else
// to Size.
func (s *Scenario) sizeFunc() sim.SizeFunc {
	sizes := s.Items.Sizes
	fallback := s.Items.Size
	return func(_ int, key string) float64 {
		if size, ok := sizes[key]; ok {
			return size
		}
		return fallback
	}
}

// sortedAttributes returns attribute keys in a stable order
func sortedAttributes(attrs map[string]any) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default is the scenario the viewer starts with when given no file
func Default() *Scenario {
	return &Scenario{
		Name:  "default",
		List:  ListSpec{Width: 360, Height: 640},
		Items: ItemsSpec{Count: 200, Size: 80},
		Attributes: map[string]any{
			list.AttrListType:  "single",
			list.AttrSpanCount: 2,
		},
		Steps: []Step{{Layout: &struct{}{}}},
	}
}

// Synthetic builds a scenario that lays out count items of varied sizes and
// then scrolls through them in steps jumps, wrapping at the end.
func Synthetic(listType string, span, count, steps int) *Scenario {
	const size = 80.0
	sizes := make(map[string]float64, count)
	for i := 0; i < count; i++ {
		sizes[fmt.Sprintf("k%d", i)] = 60 + float64((i*37)%90)
	}
	s := &Scenario{
		Name:  fmt.Sprintf("synthetic-%s-%d", listType, count),
		List:  ListSpec{Width: 360, Height: 640},
		Items: ItemsSpec{Count: count, Size: size, Estimate: size, Sizes: sizes},
		Attributes: map[string]any{
			list.AttrListType:  listType,
			list.AttrSpanCount: span,
		},
		Steps: []Step{{Layout: &struct{}{}}},
	}
	if span < 1 {
		span = 1
	}
	maxOffset := size*float64(count)/float64(span) - s.List.Height
	if maxOffset < 1 {
		maxOffset = 1
	}
	stride := s.List.Height * 0.75
	for i := 1; i <= steps; i++ {
		to := math.Mod(stride*float64(i), maxOffset)
		s.Steps = append(s.Steps, Step{Scroll: &ScrollStep{To: &to}})
	}
	return s
}

// Marshal encodes s as YAML that Parse reads back
func (s *Scenario) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
