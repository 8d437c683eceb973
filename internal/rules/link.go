// internal/rules/link.go
package rules

import (
	"sort"

	"github.com/solatis/formforge/internal/types"
)

/*
 * Chain linking and ID finalization.
 *
 * Two-pass algorithm over the full, already-consolidated rule set of a
 * schema (trigger chains may cross panel boundaries, so linking runs once
 * globally):
 *
 *   Pass 1 - final sequential IDs. Stable sort by (panel index, field
 *   position, action priority) so producers always precede consumers and
 *   identical inputs always yield identical IDs. IDs start at 1.
 *
 *   Pass 2 - symbolic trigger resolution. Every OCR rule post-triggers the
 *   VERIFY rules whose source set equals its destination set; every
 *   SEND_OTP rule post-triggers the VALIDATE_OTP rule of the same origin
 *   field. Matches are recorded as arena indices first and remapped to
 *   final IDs in one sweep, so no mutable ID counter threads through the
 *   matching logic.
 *
 * An OCR rule with no matching VERIFY is valid, just unchecked: reported
 * as a warning, never an error. A post-trigger cycle is a batch-aborting
 * error, never silently dropped or auto-broken.
 */

// UnresolvedTrigger reports an OCR rule whose extracted value no VERIFY
// rule checks.
type UnresolvedTrigger struct {
	RuleID      types.RuleID
	ActionType  types.ActionKind
	OriginField string
}

// Link finalizes IDs and wires post-trigger chains. The input slice is not
// modified; the returned slice is ordered by final ID.
func Link(all []types.Rule) ([]types.Rule, []UnresolvedTrigger, error) {
	rules := make([]types.Rule, len(all))
	copy(rules, all)

	// Pass 1: deterministic final order and sequential IDs.
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := &rules[i], &rules[j]
		if a.PanelIndex != b.PanelIndex {
			return a.PanelIndex < b.PanelIndex
		}
		if a.FieldPos != b.FieldPos {
			return a.FieldPos < b.FieldPos
		}
		return actionPriority(a.ActionType) < actionPriority(b.ActionType)
	})
	for i := range rules {
		rules[i].ID = types.RuleID(i + 1)
		rules[i].ArenaIndex = i
		rules[i].PostArena = nil
	}

	// Pass 2: resolve symbolic trigger relationships into arena indices.
	var warnings []UnresolvedTrigger
	for i := range rules {
		switch rules[i].ActionType {
		case types.ActionOCR:
			matches := findVerifiers(rules, rules[i].DestinationIDs)
			if len(matches) == 0 {
				warnings = append(warnings, UnresolvedTrigger{
					RuleID:      rules[i].ID,
					ActionType:  rules[i].ActionType,
					OriginField: rules[i].OriginField,
				})
				continue
			}
			rules[i].PostArena = append(rules[i].PostArena, matches...)
		case types.ActionSendOTP:
			for j := range rules {
				if rules[j].ActionType == types.ActionValidateOTP && rules[j].OriginField == rules[i].OriginField {
					rules[i].PostArena = append(rules[i].PostArena, j)
				}
			}
		}
	}

	// Remap arena indices to final IDs.
	for i := range rules {
		ids := make([]types.RuleID, 0, len(rules[i].PostArena))
		for _, arena := range rules[i].PostArena {
			ids = append(ids, rules[arena].ID)
		}
		rules[i].PostTriggerRuleIDs = ids
		rules[i].PostArena = nil
	}

	if err := checkAcyclic(rules); err != nil {
		return nil, nil, err
	}

	return rules, warnings, nil
}

// findVerifiers returns arena indices of VERIFY rules whose source set
// equals the given destination set, in final-ID order.
func findVerifiers(rules []types.Rule, destinations []types.FieldID) []int {
	var matches []int
	for j := range rules {
		if rules[j].ActionType != types.ActionVerify {
			continue
		}
		if sameIDSet(rules[j].SourceIDs, destinations) {
			matches = append(matches, j)
		}
	}
	return matches
}

// sameIDSet compares two ID sequences as unordered sets.
func sameIDSet(a, b []types.FieldID) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	as := append([]types.FieldID{}, a...)
	bs := append([]types.FieldID{}, b...)
	sort.Slice(as, func(i, j int) bool { return as[i] < as[j] })
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// checkAcyclic walks the post-trigger graph. A rule must never, directly
// or transitively, post-trigger itself; depth beyond MaxChainDepth is
// rejected even when acyclic.
func checkAcyclic(rules []types.Rule) error {
	byID := make(map[types.RuleID]*types.Rule, len(rules))
	for i := range rules {
		byID[rules[i].ID] = &rules[i]
	}

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[types.RuleID]int, len(rules))

	var visit func(id types.RuleID, path []types.RuleID, depth int) error
	visit = func(id types.RuleID, path []types.RuleID, depth int) error {
		if depth > types.MaxChainDepth {
			return types.ErrChainTooDeep
		}
		switch state[id] {
		case done:
			return nil
		case inStack:
			// Close the loop for the report: path from first occurrence.
			cycle := append(cycleFrom(path, id), id)
			return &types.CycleDetectedError{Path: cycle}
		}
		state[id] = inStack
		rule := byID[id]
		for _, next := range rule.PostTriggerRuleIDs {
			if _, ok := byID[next]; !ok {
				// Cannot happen via arena remapping, but the invariant is
				// checked regardless.
				return types.ErrDanglingRuleReference
			}
			if err := visit(next, append(path, id), depth+1); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}

	for i := range rules {
		if err := visit(rules[i].ID, nil, 0); err != nil {
			return err
		}
	}
	return nil
}

// cycleFrom trims the path to start at the repeated rule.
func cycleFrom(path []types.RuleID, id types.RuleID) []types.RuleID {
	for i, p := range path {
		if p == id {
			return append([]types.RuleID{}, path[i:]...)
		}
	}
	return append([]types.RuleID{}, path...)
}
