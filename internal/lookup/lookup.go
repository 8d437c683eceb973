// Package lookup provides resolution of external reference tables.
//
// EXTERNAL_DROPDOWN_LOOKUP and table-driven VALIDATE rules bind to a
// lookup table by identifier and map destination fields positionally onto
// its columns. The table definitions live in a catalog database (sqlite
// for development, postgres for shared catalogs) or, for catalog-less runs
// and tests, in a static in-memory set.
package lookup

import (
	"fmt"
	"sort"

	"github.com/solatis/formforge/internal/types"
)

// Static resolves lookup tables from an in-memory definition set.
// Satisfies rules.LookupResolver.
type Static struct {
	tables map[string]types.LookupTable
}

// NewStatic creates a static resolver from table definitions.
func NewStatic(tables ...types.LookupTable) *Static {
	m := make(map[string]types.LookupTable, len(tables))
	for _, t := range tables {
		m[t.Name] = t
	}
	return &Static{tables: m}
}

// Resolve returns the named table or ErrUnknownLookupTable.
func (s *Static) Resolve(name string) (types.LookupTable, error) {
	t, ok := s.tables[name]
	if !ok {
		return types.LookupTable{}, fmt.Errorf("%w: %s", types.ErrUnknownLookupTable, name)
	}
	return t, nil
}

// Names returns the registered table identifiers, sorted.
func (s *Static) Names() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
