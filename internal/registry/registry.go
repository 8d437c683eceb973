// Package registry provides the canonical field catalog for one schema.
//
// The registry is the single source of truth for name-to-ID resolution:
// every downstream component resolves through it rather than caching its
// own name maps, which is what guarantees ID uniqueness across the batch.
package registry

import (
	"strings"

	"github.com/solatis/formforge/internal/types"
)

/*
 * Field registry.
 *
 * Allocation assigns sequential positive IDs in document order, so two runs
 * over the same document always produce the same IDs. Input documents may
 * carry pre-assigned IDs (re-extraction over an existing schema); those are
 * honored when positive and collision-free.
 *
 * Resolution is layered:
 *   1. exact variable name within the panel
 *   2. exact variable name anywhere in the schema (cross-panel chains)
 *   3. case-insensitive label within the panel (BUD cells reference fields
 *      by their display label at least as often as by variable name)
 *
 * The registry is exclusively owned by one populate call; no locking.
 */

// Registry holds all registered fields of a schema.
type Registry struct {
	byID      map[types.FieldID]*types.Field
	byPanel   map[string]map[string]*types.Field // panel -> variable name -> field
	byName    map[string][]*types.Field          // variable name -> fields, allocation order
	byLabel   map[string][]*types.Field          // lower-cased label -> fields, allocation order
	nextID    types.FieldID
	allocated []*types.Field // allocation order, for deterministic iteration
}

// New creates an empty registry. IDs are allocated starting at 1.
func New() *Registry {
	return &Registry{
		byID:    make(map[types.FieldID]*types.Field),
		byPanel: make(map[string]map[string]*types.Field),
		byName:  make(map[string][]*types.Field),
		byLabel: make(map[string][]*types.Field),
		nextID:  1,
	}
}

// Allocate registers a field and assigns its stable ID.
// A positive wantID is honored (re-extraction over an existing schema);
// wantID 0 assigns the next sequential ID. Returns DuplicateFieldError if
// the variable name is already registered in the panel, or if wantID
// collides with an existing field.
func (r *Registry) Allocate(variableName, label string, fieldType types.FieldType, panel string, position int, wantID types.FieldID) (*types.Field, error) {
	if panelFields, ok := r.byPanel[panel]; ok {
		if _, exists := panelFields[variableName]; exists {
			return nil, &types.DuplicateFieldError{Name: variableName, Panel: panel}
		}
	}

	id := wantID
	if id <= 0 {
		id = r.nextID
	} else if _, taken := r.byID[id]; taken {
		return nil, &types.DuplicateFieldError{Name: variableName, Panel: panel}
	}

	f := &types.Field{
		ID:           id,
		VariableName: variableName,
		Label:        label,
		FieldType:    fieldType,
		Panel:        panel,
		Position:     position,
	}

	r.byID[id] = f
	if r.byPanel[panel] == nil {
		r.byPanel[panel] = make(map[string]*types.Field)
	}
	r.byPanel[panel][variableName] = f
	r.byName[variableName] = append(r.byName[variableName], f)
	if label != "" {
		key := strings.ToLower(strings.TrimSpace(label))
		r.byLabel[key] = append(r.byLabel[key], f)
	}
	r.allocated = append(r.allocated, f)

	// Keep nextID ahead of every honored input ID
	if id >= r.nextID {
		r.nextID = id + 1
	}

	return f, nil
}

// Resolve finds a field by name, preferring matches in the given panel.
// Name may be a variable name or a display label. Returns UnknownFieldError
// when nothing matches.
func (r *Registry) Resolve(panel, name string) (*types.Field, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &types.UnknownFieldError{Name: name, Panel: panel}
	}

	if panelFields, ok := r.byPanel[panel]; ok {
		if f, ok := panelFields[name]; ok {
			return f, nil
		}
	}

	if candidates := r.byName[name]; len(candidates) > 0 {
		// First allocation wins: deterministic under document order
		return candidates[0], nil
	}

	key := strings.ToLower(name)
	if candidates := r.byLabel[key]; len(candidates) > 0 {
		for _, f := range candidates {
			if f.Panel == panel {
				return f, nil
			}
		}
		return candidates[0], nil
	}

	return nil, &types.UnknownFieldError{Name: name, Panel: panel}
}

// Lookup returns the field with the given ID, or nil.
func (r *Registry) Lookup(id types.FieldID) *types.Field {
	return r.byID[id]
}

// Fields returns all registered fields in allocation order.
func (r *Registry) Fields() []*types.Field {
	out := make([]*types.Field, len(r.allocated))
	copy(out, r.allocated)
	return out
}

// Len returns the number of registered fields.
func (r *Registry) Len() int {
	return len(r.allocated)
}
