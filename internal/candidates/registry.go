package candidates

import (
	"sort"
	"strings"
	"sync"

	"github.com/agbru/bigocalc/internal/bench"
	apperrors "github.com/agbru/bigocalc/internal/errors"
	"github.com/agbru/bigocalc/internal/sizes"
)

// Candidate is a named function ready to be analysed.
type Candidate struct {
	Name        string
	Description string
	Mode        bench.Mode
	// Expected is the growth class the function is known to have.
	Expected string
	// Plan is a size plan wide enough to tell Expected from the
	// neighbouring classes. Empty means any plan will do.
	Plan string
	Fn   bench.Func
}

// Registry maps names to candidates. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	candidates map[string]Candidate
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{candidates: make(map[string]Candidate)}
}

// NewDefaultRegistry returns a registry holding every built-in candidate.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range builtins() {
		_ = r.Register(c)
	}
	return r
}

// Register adds c. Names must be unique and non-empty.
func (r *Registry) Register(c Candidate) error {
	if c.Name == "" || c.Fn == nil {
		return apperrors.NewConfigError("candidate needs a name and a function")
	}
	if c.Plan != "" {
		if _, err := sizes.Parse(c.Plan); err != nil {
			return apperrors.NewConfigError("candidate %q has an invalid size plan: %v", c.Name, err)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.candidates[c.Name]; exists {
		return apperrors.NewConfigError("candidate %q already registered", c.Name)
	}
	r.candidates[c.Name] = c
	return nil
}

// Get returns the named candidate, or a ConfigError listing valid names.
func (r *Registry) Get(name string) (Candidate, error) {
	r.mu.RLock()
	c, ok := r.candidates[name]
	r.mu.RUnlock()
	if !ok {
		return Candidate{}, apperrors.NewConfigError("unknown candidate %q (valid: %s)", name, strings.Join(r.List(), ", "))
	}
	return c, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.candidates))
	for name := range r.candidates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every candidate ordered by name.
func (r *Registry) All() []Candidate {
	names := r.List()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Candidate, 0, len(names))
	for _, name := range names {
		out = append(out, r.candidates[name])
	}
	return out
}

// Select resolves a selection: "all" yields every candidate, anything else
// is a comma-separated list of names.
func (r *Registry) Select(selection string) ([]Candidate, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" || strings.EqualFold(selection, "all") {
		return r.All(), nil
	}
	var out []Candidate
	for _, name := range strings.Split(selection, ",") {
		c, err := r.Get(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
