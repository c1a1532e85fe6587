// Package memhost is the bundled in-process parameter host. It owns an
// ordered parameter table, evaluates expressions, tracks the dependency graph
// and recomputes dependents on every change, standing in for the external
// application the editor normally drives.
package memhost

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/paramedit/paramedit/internal/host"
	"github.com/paramedit/paramedit/internal/logging"
	"github.com/paramedit/paramedit/internal/storage"
	"github.com/paramedit/paramedit/pkg/types"
)

// Document is the persisted form of a memhost parameter table.
type Document struct {
	Name   string             `json:"name"`
	Params []*types.Parameter `json:"params"`
}

// Host is an in-memory implementation of host.Host. Like the application it
// stands in for, its Delete does not refuse to remove a referenced parameter;
// dependents are recomputed and end up in an error state instead. The
// session's delete guard exists precisely because of that behavior.
type Host struct {
	mu     sync.Mutex
	params *types.ParameterSet

	// Optional persistence. When set, every mutation saves the document.
	store *storage.Store
	doc   string
}

// New creates an empty host with no persistence.
func New() *Host {
	return &Host{params: types.NewParameterSet()}
}

// Open loads the named document from store, creating it when absent. All
// subsequent mutations are written back to the store.
func Open(ctx context.Context, store *storage.Store, doc string) (*Host, error) {
	h := &Host{params: types.NewParameterSet(), store: store, doc: doc}

	var d Document
	err := store.Load(ctx, doc, &d)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logging.Info().Str("document", doc).Msg("creating new document")
			return h, h.persist(ctx)
		}
		return nil, host.Errorf("list", "", err)
	}

	for _, p := range d.Params {
		h.params.Put(p.Clone())
	}
	h.recompute()
	return h, nil
}

// List returns a deep copy of the current parameters.
func (h *Host) List(ctx context.Context) (*types.ParameterSet, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.params.Clone(), nil
}

// SetExpression replaces a parameter's formula, recomputes it and all
// dependents, and persists.
func (h *Host) SetExpression(ctx context.Context, name, expr string) (*types.Parameter, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.params.Get(name)
	if p == nil {
		return nil, host.Errorf("set", name, host.ErrNotFound)
	}

	result, err := evalExpr(expr, h.envExcluding(name))
	if err != nil {
		return nil, host.Errorf("set", name, fmt.Errorf("%w: %v", host.ErrInvalidExpression, err))
	}
	if h.wouldCycle(name, result.refs) {
		return nil, host.Errorf("set", name, host.ErrCycle)
	}

	p.Expression = expr
	p.Value = result.value
	p.Invalid = false
	p.DependsOn = result.refs
	h.recompute()

	if err := h.persist(ctx); err != nil {
		return nil, err
	}
	return h.params.Get(name).Clone(), nil
}

// SetUnit changes a parameter's unit annotation.
func (h *Host) SetUnit(ctx context.Context, name, unit string) (*types.Parameter, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.params.Get(name)
	if p == nil {
		return nil, host.Errorf("set", name, host.ErrNotFound)
	}
	if !ValidUnit(unit) {
		return nil, host.Errorf("set", name, fmt.Errorf("%w: %q", host.ErrUnknownUnit, unit))
	}

	p.Unit = unit
	if err := h.persist(ctx); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// SetComment changes a parameter's comment.
func (h *Host) SetComment(ctx context.Context, name, comment string) (*types.Parameter, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.params.Get(name)
	if p == nil {
		return nil, host.Errorf("set", name, host.ErrNotFound)
	}

	p.Comment = comment
	if err := h.persist(ctx); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// Create adds a parameter at the end of the table.
func (h *Host) Create(ctx context.Context, name, expr, unit, comment string) (*types.Parameter, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !ValidName(name) {
		return nil, host.Errorf("create", name, fmt.Errorf("%w: invalid name", host.ErrInvalidExpression))
	}
	if h.params.Get(name) != nil {
		return nil, host.Errorf("create", name, host.ErrDuplicate)
	}
	if !ValidUnit(unit) {
		return nil, host.Errorf("create", name, fmt.Errorf("%w: %q", host.ErrUnknownUnit, unit))
	}

	result, err := evalExpr(expr, h.envExcluding(name))
	if err != nil {
		return nil, host.Errorf("create", name, fmt.Errorf("%w: %v", host.ErrInvalidExpression, err))
	}

	p := &types.Parameter{
		Name:       name,
		Expression: expr,
		Value:      result.value,
		Unit:       unit,
		Comment:    comment,
		DependsOn:  result.refs,
	}
	h.params.Put(p)
	h.recompute()

	if err := h.persist(ctx); err != nil {
		return nil, err
	}
	return h.params.Get(name).Clone(), nil
}

// Delete removes a parameter unconditionally. Parameters that referenced it
// are recomputed into an error state.
func (h *Host) Delete(ctx context.Context, name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.params.Remove(name) {
		return host.Errorf("delete", name, host.ErrNotFound)
	}
	h.recompute()
	return h.persist(ctx)
}

// Dependents returns the names of parameters whose expressions currently
// reference name.
func (h *Host) Dependents(ctx context.Context, name string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var deps []string
	for _, p := range h.params.All() {
		for _, ref := range p.DependsOn {
			if ref == name {
				deps = append(deps, p.Name)
				break
			}
		}
	}
	return deps, nil
}

// envExcluding resolves parameter references for evaluation, refusing
// self-reference of the named parameter.
func (h *Host) envExcluding(name string) func(string) (float64, bool) {
	return func(ref string) (float64, bool) {
		if ref == name {
			return 0, false
		}
		p := h.params.Get(ref)
		if p == nil {
			return 0, false
		}
		return p.Value, true
	}
}

// wouldCycle reports whether giving name the dependency list refs closes a
// reference loop.
func (h *Host) wouldCycle(name string, refs []string) bool {
	// Walk the existing graph from each proposed reference; reaching name
	// means the proposed edge closes a loop.
	visited := make(map[string]bool)
	var walk func(n string) bool
	walk = func(n string) bool {
		if n == name {
			return true
		}
		if visited[n] {
			return false
		}
		visited[n] = true
		p := h.params.Get(n)
		if p == nil {
			return false
		}
		for _, ref := range p.DependsOn {
			if walk(ref) {
				return true
			}
		}
		return false
	}
	for _, ref := range refs {
		if walk(ref) {
			return true
		}
	}
	return false
}

// recompute re-evaluates every parameter in dependency order, refreshing
// values and both directions of the dependency links. Records whose
// expressions no longer evaluate keep their last value and are flagged
// invalid.
func (h *Host) recompute() {
	names := h.params.Names()

	// Dependency edges from current expressions.
	deps := make(map[string][]string, len(names))
	for _, n := range names {
		deps[n] = extractRefs(h.params.Get(n).Expression)
	}

	// Kahn topological order; anything left over sits on a reference loop.
	indeg := make(map[string]int, len(names))
	for _, n := range names {
		count := 0
		for _, ref := range deps[n] {
			if h.params.Get(ref) != nil {
				count++
			}
		}
		indeg[n] = count
	}

	var order []string
	var queue []string
	for _, n := range names {
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, m := range names {
			for _, ref := range deps[m] {
				if ref == n {
					indeg[m]--
					if indeg[m] == 0 {
						queue = append(queue, m)
					}
				}
			}
		}
	}
	ordered := make(map[string]bool, len(order))
	for _, n := range order {
		ordered[n] = true
	}
	for _, n := range names {
		// Leftovers sit on a reference loop (possible only in a hand-edited
		// document); flag them rather than evaluating against stale values.
		if !ordered[n] {
			p := h.params.Get(n)
			p.Invalid = true
			p.DependsOn = extractRefs(p.Expression)
		}
	}

	// Evaluate in order.
	for _, n := range order {
		p := h.params.Get(n)
		result, err := evalExpr(p.Expression, h.envExcluding(n))
		if err != nil {
			p.Invalid = true
			p.DependsOn = extractRefs(p.Expression)
			continue
		}
		p.Value = result.value
		p.Invalid = false
		p.DependsOn = result.refs
	}

	// Rebuild reverse links.
	for _, n := range names {
		h.params.Get(n).UsedBy = nil
	}
	for _, n := range names {
		for _, ref := range deps[n] {
			if target := h.params.Get(ref); target != nil {
				target.UsedBy = append(target.UsedBy, n)
			}
		}
	}
}

// persist saves the document when a store is attached.
func (h *Host) persist(ctx context.Context) error {
	if h.store == nil {
		return nil
	}
	d := Document{Name: h.doc, Params: h.params.Clone().All()}
	if err := h.store.Save(ctx, h.doc, d); err != nil {
		return host.Errorf("set", "", err)
	}
	return nil
}

var _ host.Host = (*Host)(nil)
