// internal/rules/consolidate.go
package rules

import (
	"sort"
	"strconv"
	"strings"

	"github.com/solatis/formforge/internal/types"
)

/*
 * Rule consolidation.
 *
 * A single logic phrase affecting many fields ("always disabled" on twenty
 * fields) must not explode into twenty independent rules; downstream
 * consumers expect one rule with twenty destinations. Rules sharing a
 * grouping key - (sourceIds as a set, actionType, condition,
 * conditionalValues as a set) - merge into one, with destinationIds set to
 * the union of all members in first-seen order.
 *
 * The accumulator is an explicit ordered map (key slice + index map) so
 * merge order is deterministic across runs regardless of map iteration.
 *
 * Consolidation is panel-scoped: the caller passes one panel's batch at a
 * time and cross-panel merging never happens.
 *
 * Idempotent: consolidating an already-consolidated batch changes nothing,
 * since every surviving rule owns a distinct key and destination union is
 * stable.
 */

// Consolidate merges same-key rules of one panel batch. Returns
// ConsolidationConflictError when two rules share a key but diverge on a
// non-mergeable attribute.
func Consolidate(batch []types.Rule) ([]types.Rule, error) {
	index := make(map[string]int)
	var out []types.Rule

	for _, rule := range batch {
		key := groupKey(&rule)
		at, exists := index[key]
		if !exists {
			index[key] = len(out)
			merged := rule
			merged.DestinationIDs = append([]types.FieldID{}, rule.DestinationIDs...)
			out = append(out, merged)
			continue
		}

		if err := checkMergeable(&out[at], &rule); err != nil {
			return nil, err
		}
		out[at].DestinationIDs = unionIDs(out[at].DestinationIDs, rule.DestinationIDs)
		if len(out[at].DestinationIDs) > types.MaxDestinationsPerRule {
			return nil, types.ErrTooManyDestinations
		}
	}

	return out, nil
}

// groupKey builds the canonical composite key: sorted source set, action,
// condition, sorted value set. Destinations are deliberately absent - they
// are what merging accumulates.
func groupKey(r *types.Rule) string {
	sources := make([]string, len(r.SourceIDs))
	for i, id := range r.SourceIDs {
		sources[i] = strconv.Itoa(int(id))
	}
	sort.Strings(sources)

	values := append([]string{}, r.ConditionalValues...)
	sort.Strings(values)

	var b strings.Builder
	b.WriteString(strings.Join(sources, ","))
	b.WriteByte('|')
	b.WriteString(string(r.ActionType))
	b.WriteByte('|')
	b.WriteString(string(r.Condition))
	b.WriteByte('|')
	b.WriteString(strings.Join(values, ","))
	return b.String()
}

// checkMergeable verifies two same-key rules agree on every attribute that
// cannot be unioned. Divergence is a batch-fatal conflict.
func checkMergeable(acc, in *types.Rule) error {
	conflict := func(attr string) error {
		return &types.ConsolidationConflictError{
			Existing:  acc.OriginField,
			Incoming:  in.OriginField,
			Attribute: attr,
		}
	}

	if acc.ConditionValueType != in.ConditionValueType {
		return conflict("conditionValueType")
	}
	if acc.ProcessingType != in.ProcessingType {
		return conflict("processingType")
	}
	if acc.Params.LookupTable != in.Params.LookupTable {
		return conflict("lookupTable")
	}
	if acc.Params.Expression != in.Params.Expression {
		return conflict("expression")
	}
	if acc.Button != in.Button || acc.Searchable != in.Searchable ||
		acc.ExecuteOnFill != in.ExecuteOnFill || acc.ExecuteOnRead != in.ExecuteOnRead ||
		acc.ExecuteOnEsign != in.ExecuteOnEsign || acc.ExecutePostEsign != in.ExecutePostEsign ||
		acc.RunPostConditionFail != in.RunPostConditionFail {
		return conflict("executionFlags")
	}
	return nil
}

// unionIDs appends ids not already present, preserving first-seen order.
func unionIDs(acc, in []types.FieldID) []types.FieldID {
	seen := make(map[types.FieldID]bool, len(acc))
	for _, id := range acc {
		seen[id] = true
	}
	for _, id := range in {
		if !seen[id] {
			seen[id] = true
			acc = append(acc, id)
		}
	}
	return acc
}
