// internal/rules/build.go
package rules

import (
	"fmt"

	"github.com/solatis/formforge/internal/registry"
	"github.com/solatis/formforge/internal/types"
)

/*
 * Rule building.
 *
 * Materializes a classifier intent into an unfinalized Rule: every field
 * name resolved to its registry ID, every structural key filled with its
 * fixed default, processingType stamped from the action table. The rule
 * leaves here with ID 0; final sequential IDs are the linker's job.
 *
 * Why build-time validation: enforcing limits and lookup-column bounds
 * here moves error detection to extraction time rather than form-render
 * time. A rule that cannot be built correctly is skipped and reported,
 * never emitted half-filled.
 *
 * Name resolution failures are per-intent fatal only: the caller reports
 * the skip and continues with the rest of the batch.
 */

// LookupResolver resolves lookup-table identifiers for table-driven
// actions. Implemented by lookup.Catalog and lookup.Static.
type LookupResolver interface {
	Resolve(name string) (types.LookupTable, error)
}

// Builder materializes intents against one schema's field registry.
type Builder struct {
	registry *registry.Registry
	lookups  LookupResolver
}

// NewBuilder creates a builder. lookups may be nil when the schema uses no
// table-driven actions; resolving against a nil resolver fails with
// ErrUnknownLookupTable.
func NewBuilder(reg *registry.Registry, lookups LookupResolver) *Builder {
	return &Builder{registry: reg, lookups: lookups}
}

// Build resolves and materializes one intent. panelIndex and fieldPos
// locate the intent's origin in the document; the linker orders final IDs
// by them.
func (b *Builder) Build(intent types.RuleIntent, panelIndex, fieldPos int) (types.Rule, error) {
	if len(intent.ConditionalValues) > types.MaxConditionalValues {
		return types.Rule{}, types.ErrTooManyConditionalValues
	}

	sourceIDs, err := b.resolveAll(intent.OriginPanel, intent.SourceFieldNames)
	if err != nil {
		return types.Rule{}, err
	}
	destinationIDs, err := b.resolveAll(intent.OriginPanel, intent.DestinationNames)
	if err != nil {
		return types.Rule{}, err
	}

	if len(destinationIDs) > types.MaxDestinationsPerRule {
		return types.Rule{}, types.ErrTooManyDestinations
	}
	if len(destinationIDs) == 0 && needsDestinations(intent.ActionKind) {
		return types.Rule{}, types.ErrNoDestination
	}

	rule := types.Rule{
		ID:                 0, // unfinalized; assigned by the linker
		CreateUser:         types.SystemUser,
		UpdateUser:         types.SystemUser,
		ActionType:         intent.ActionKind,
		ProcessingType:     processingType(intent.ActionKind),
		SourceIDs:          sourceIDs,
		DestinationIDs:     destinationIDs,
		ConditionalValues:  append([]string{}, intent.ConditionalValues...),
		Condition:          intent.Condition,
		ConditionValueType: intent.ValueType,
		PostTriggerRuleIDs: []types.RuleID{},

		// Opaque pass-through flags: always populated, never omitted.
		Button:               false,
		Searchable:           intent.ActionKind == types.ActionExternalLookup,
		ExecuteOnFill:        true,
		ExecuteOnRead:        false,
		ExecuteOnEsign:       false,
		ExecutePostEsign:     false,
		RunPostConditionFail: false,

		PanelIndex:  panelIndex,
		FieldPos:    fieldPos,
		OriginField: intent.OriginField,
	}

	if rule.Condition == "" {
		rule.Condition = types.ConditionNone
	}
	if rule.ConditionValueType == "" {
		rule.ConditionValueType = types.ValueTypeText
	}

	switch intent.ActionKind {
	case types.ActionExecuteExpr:
		rule.Params.Expression = intent.ParamsRaw
	case types.ActionExternalLookup:
		if err := b.resolveLookup(&rule, intent, true); err != nil {
			return types.Rule{}, err
		}
	case types.ActionValidate:
		// Table-driven only when the cell named a master table.
		if intent.ParamsRaw != "" {
			if err := b.resolveLookup(&rule, intent, false); err != nil {
				return types.Rule{}, err
			}
		}
	}

	return rule, nil
}

// resolveAll maps field names to IDs through the registry, preserving order.
func (b *Builder) resolveAll(panel string, fieldNames []string) ([]types.FieldID, error) {
	ids := make([]types.FieldID, 0, len(fieldNames))
	seen := make(map[types.FieldID]bool)
	for _, name := range fieldNames {
		f, err := b.registry.Resolve(panel, name)
		if err != nil {
			return nil, err
		}
		if seen[f.ID] {
			continue // a field mentioned twice in one cell is one reference
		}
		seen[f.ID] = true
		ids = append(ids, f.ID)
	}
	return ids, nil
}

// resolveLookup binds a table-driven rule to its catalog table and builds
// the positional column mapping. Column 0 is the key column; destination
// fields consume columns 1..n in order. Running out of columns is a fatal
// build error for this rule.
func (b *Builder) resolveLookup(rule *types.Rule, intent types.RuleIntent, requireColumns bool) error {
	if b.lookups == nil {
		return fmt.Errorf("%w: %s", types.ErrUnknownLookupTable, intent.ParamsRaw)
	}
	table, err := b.lookups.Resolve(intent.ParamsRaw)
	if err != nil {
		return err
	}

	rule.Params.LookupTable = table.Name
	if len(rule.DestinationIDs) == 0 && !requireColumns {
		return nil
	}

	columnMap := make([]int, len(rule.DestinationIDs))
	for i := range rule.DestinationIDs {
		col := i + 1
		if col >= len(table.Columns) {
			return fmt.Errorf("%w: destination %d needs column %d, table %s has %d columns",
				types.ErrColumnOutOfRange, i, col, table.Name, len(table.Columns))
		}
		columnMap[i] = col
	}
	rule.Params.ColumnMap = columnMap
	return nil
}
