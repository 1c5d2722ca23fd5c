// Package fonts keeps the set of fonts a composition can reference and turns
// a font at a pixel size into measurements and glyph outlines.
//
// Fonts are addressed by family name and numeric weight. Lookups never block:
// a family that is still loading, failed to load, or was never registered
// resolves to the last good face for that family, or to the built-in Go family.
package fonts

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/user/thumbforge/pkg/pipeline"
	"github.com/user/thumbforge/pkg/ports"
)

// DefaultFamily is the built-in family every lookup can fall back to.
const DefaultFamily = "Go"

// DefaultWeight is used when a request carries no weight.
const DefaultWeight = 400

// State is the load state of one family/weight entry.
type State int

const (
	StatePending State = iota
	StateLoaded
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type key struct {
	family string
	weight int
}

type entry struct {
	family string
	weight int
	state  State
	source string
	err    error
	// gen increases with every load request; only the newest may apply.
	gen uint64
	// font is the last successfully parsed font. It survives failed and
	// pending reloads so that compositions keep the previously active face.
	font *sfnt.Font
}

// Registry maps family/weight to parsed fonts. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[key]*entry
	names   map[string]string // normalized family -> display name
	logger  ports.Logger
}

// NewRegistry creates a registry preloaded with the built-in Go family.
func NewRegistry(logger ports.Logger) *Registry {
	r := &Registry{
		entries: make(map[key]*entry),
		names:   make(map[string]string),
		logger:  logger.WithComponent("fonts"),
	}
	builtin := []struct {
		weight int
		data   []byte
	}{
		{400, goregular.TTF},
		{500, gomedium.TTF},
		{700, gobold.TTF},
	}
	for _, b := range builtin {
		f, err := opentype.Parse(b.data)
		if err != nil {
			// The embedded fonts are known-good.
			panic(fmt.Sprintf("fonts: parse built-in font: %v", err))
		}
		r.put(DefaultFamily, b.weight, &entry{state: StateLoaded, source: "builtin", font: f})
	}
	return r
}

// Register parses data and stores it under family/weight. On failure the
// entry is marked failed, any previously loaded face is kept, and the returned
// error wraps pipeline.ErrFontLoad.
func (r *Registry) Register(family string, weight int, data []byte, source string) error {
	weight = normalizeWeight(weight)
	r.mu.Lock()
	gen := r.beginLocked(family, weight, source)
	r.mu.Unlock()
	_, err := r.complete(family, weight, gen, data)
	return err
}

// beginLocked starts a new load generation for family/weight. Completions
// of older generations are discarded.
func (r *Registry) beginLocked(family string, weight int, source string) uint64 {
	e := r.get(family, weight)
	if e == nil {
		e = &entry{}
		r.putLocked(family, weight, e)
	}
	e.gen++
	e.source = source
	return e.gen
}

// complete parses data and applies it if gen is still the entry's current
// generation. It reports whether the result was applied.
func (r *Registry) complete(family string, weight int, gen uint64, data []byte) (bool, error) {
	f, err := Parse(data)
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.get(family, weight)
	if e == nil || e.gen != gen {
		r.logger.Debug("Font %s %d load superseded", family, weight)
		return false, err
	}
	if err != nil {
		e.state = StateFailed
		e.err = err
		r.logger.Warn("Font %s %d failed to load: %s", family, weight, err)
		return true, err
	}
	e.state = StateLoaded
	e.err = nil
	e.font = f
	r.logger.Debug("Font %s %d loaded from %s", family, weight, e.source)
	return true, nil
}

// RegisterCustom stores an uploaded font under a fresh unique family id and
// returns that id. displayName is what listings show.
func (r *Registry) RegisterCustom(displayName string, data []byte) (string, error) {
	family := "custom-" + uuid.NewString()
	if err := r.Register(family, DefaultWeight, data, displayName); err != nil {
		return "", err
	}
	r.mu.Lock()
	r.names[normalizeFamily(family)] = displayName
	r.mu.Unlock()
	return family, nil
}

// FetchFunc produces font bytes, typically by reading a file or an upload.
type FetchFunc func(ctx context.Context) ([]byte, error)

// LoadAsync marks family/weight as pending and loads it in the background.
// The returned channel receives exactly one value, nil on success, and is
// then closed. Lookups made while the load is pending use the fallback.
func (r *Registry) LoadAsync(ctx context.Context, family string, weight int, source string, fetch FetchFunc) <-chan error {
	weight = normalizeWeight(weight)
	r.mu.Lock()
	gen := r.beginLocked(family, weight, source)
	r.get(family, weight).state = StatePending
	r.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer close(done)
		data, err := fetch(ctx)
		if err != nil {
			err = fmt.Errorf("%w: read %s: %v", pipeline.ErrFontLoad, source, err)
			r.fail(family, weight, gen, err)
			done <- err
			return
		}
		_, err = r.complete(family, weight, gen, data)
		done <- err
	}()
	return done
}

func (r *Registry) fail(family string, weight int, gen uint64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.get(family, weight)
	if e == nil || e.gen != gen {
		return
	}
	e.state = StateFailed
	e.err = err
	r.logger.Warn("Font %s %d failed to load: %s", family, weight, err)
}

// Resolve picks the font for a family/weight request. It never fails: when
// the family has no usable face the default family is used instead.
func (r *Registry) Resolve(family string, weight int) (*sfnt.Font, pipeline.ResolvedFont) {
	weight = normalizeWeight(weight)
	if strings.TrimSpace(family) == "" {
		family = DefaultFamily
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	info := pipeline.ResolvedFont{RequestedFamily: family, RequestedWeight: weight}

	if f, e := r.matchLocked(family, weight); f != nil {
		info.Family = e.family
		info.Weight = e.weight
		info.Fallback = e.state != StateLoaded
		return f, info
	}

	f, e := r.matchLocked(DefaultFamily, weight)
	info.Family = e.family
	info.Weight = e.weight
	info.Fallback = true
	return f, info
}

func (r *Registry) matchLocked(family string, weight int) (*sfnt.Font, *entry) {
	fam := normalizeFamily(family)
	var weights []int
	for k, e := range r.entries {
		if k.family == fam && e.font != nil {
			weights = append(weights, k.weight)
		}
	}
	if len(weights) == 0 {
		return nil, nil
	}
	w := MatchWeight(weight, weights)
	e := r.entries[key{fam, w}]
	return e.font, e
}

// FamilyInfo describes one registered family/weight for listings.
type FamilyInfo struct {
	Family      string
	DisplayName string
	Weight      int
	State       State
	Source      string
	Err         error
}

// Families lists every entry sorted by family then weight.
func (r *Registry) Families() []FamilyInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]FamilyInfo, 0, len(r.entries))
	for k, e := range r.entries {
		name := r.names[k.family]
		if name == "" {
			name = e.family
		}
		out = append(out, FamilyInfo{
			Family:      e.family,
			DisplayName: name,
			Weight:      e.weight,
			State:       e.state,
			Source:      e.source,
			Err:         e.err,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Family != out[j].Family {
			return out[i].Family < out[j].Family
		}
		return out[i].Weight < out[j].Weight
	})
	return out
}

// State returns the state of an exact family/weight entry.
func (r *Registry) State(family string, weight int) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e := r.get(family, normalizeWeight(weight))
	if e == nil {
		return 0, false
	}
	return e.state, true
}

func (r *Registry) get(family string, weight int) *entry {
	return r.entries[key{normalizeFamily(family), weight}]
}

func (r *Registry) put(family string, weight int, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putLocked(family, weight, e)
}

func (r *Registry) putLocked(family string, weight int, e *entry) {
	e.family = family
	e.weight = weight
	r.entries[key{normalizeFamily(family), weight}] = e
}

// Parse parses TrueType, OpenType and collection (first face) data.
// WOFF and WOFF2 are rejected explicitly.
func Parse(data []byte) (*sfnt.Font, error) {
	switch {
	case len(data) < 4:
		return nil, fmt.Errorf("%w: font data too short", pipeline.ErrFontLoad)
	case bytes.HasPrefix(data, []byte("wOFF")), bytes.HasPrefix(data, []byte("wOF2")):
		return nil, fmt.Errorf("%w: WOFF fonts are not supported, convert to TTF or OTF", pipeline.ErrFontLoad)
	case bytes.HasPrefix(data, []byte("ttcf")):
		c, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", pipeline.ErrFontLoad, err)
		}
		f, err := c.Font(0)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", pipeline.ErrFontLoad, err)
		}
		return f, nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrFontLoad, err)
	}
	return f, nil
}

// MatchWeight picks the closest available weight following CSS font
// matching: exact match; 400/500 try upward to 500, then downward, then
// upward; lighter requests search downward first, bolder ones upward first.
func MatchWeight(desired int, available []int) int {
	if len(available) == 0 {
		return desired
	}
	ws := append([]int(nil), available...)
	sort.Ints(ws)

	for _, w := range ws {
		if w == desired {
			return w
		}
	}

	below := func(limit int) (int, bool) {
		for i := len(ws) - 1; i >= 0; i-- {
			if ws[i] < limit {
				return ws[i], true
			}
		}
		return 0, false
	}
	above := func(limit int) (int, bool) {
		for _, w := range ws {
			if w > limit {
				return w, true
			}
		}
		return 0, false
	}

	switch {
	case desired >= 400 && desired <= 500:
		for _, w := range ws {
			if w > desired && w <= 500 {
				return w
			}
		}
		if w, ok := below(desired); ok {
			return w
		}
		w, _ := above(500)
		return w
	case desired < 400:
		if w, ok := below(desired); ok {
			return w
		}
		w, _ := above(desired)
		return w
	default:
		if w, ok := above(desired); ok {
			return w
		}
		w, _ := below(desired)
		return w
	}
}

func normalizeFamily(family string) string {
	return strings.ToLower(strings.TrimSpace(family))
}

func normalizeWeight(weight int) int {
	if weight <= 0 {
		return DefaultWeight
	}
	return weight
}
