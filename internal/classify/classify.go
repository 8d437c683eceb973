// Package classify turns free-text logic cells into rule intents.
package classify

import (
	"strings"

	"github.com/solatis/formforge/internal/types"
)

/*
 * Logic classification.
 *
 * A BUD logic cell is loosely-structured English ("Make visible if Account
 * Type is 'Savings'"). Classification scans the cell against a registry of
 * (pattern predicate -> intent producer) pairs in a fixed priority order
 * and emits one RuleIntent per matching pattern. Redundant emissions are
 * resolved downstream by the consolidator, never dropped here.
 *
 * Priority order matters: OCR/lookup/OTP patterns run before the generic
 * conditional and validation patterns so that "OCR extract then verify"
 * produces an OCR+VERIFY pair instead of a lone VALIDATE.
 *
 * Classification never fails. Unrecognized or empty text degrades to zero
 * intents; the orchestrator reports the field as "no rule extracted" and
 * continues.
 *
 * Why function-based: a fixed table of producer functions over an enum
 * beats interface polymorphism here - two dozen patterns with minimal
 * behavior variation, all sharing the same scan context.
 */

// Input carries one field's logic cell plus the context needed to resolve
// same-panel references mentioned by label instead of variable name.
type Input struct {
	Field     *types.Field
	LogicText string
	// Peers are the other fields of the same panel, document order.
	Peers []*types.Field
	// Refs optionally maps display labels to variable names (the BUD's
	// intra-panel reference table). Consulted before peer label scanning.
	Refs map[string]string
}

// scanCtx is the shared state every pattern inspects.
type scanCtx struct {
	in    Input
	text  string // original text, trimmed
	lower string // lower-cased text for keyword scans
}

// pattern pairs a name with an intent producer. A producer returns nil
// when its pattern does not apply.
type pattern struct {
	name    string
	produce func(*scanCtx) []types.RuleIntent
}

// Classify scans one logic cell and returns zero or more rule intents in
// pattern priority order.
func Classify(in Input) []types.RuleIntent {
	text := strings.TrimSpace(in.LogicText)
	if text == "" {
		return nil
	}

	ctx := &scanCtx{
		in:    in,
		text:  text,
		lower: strings.ToLower(text),
	}

	var intents []types.RuleIntent
	for _, p := range patterns {
		if out := p.produce(ctx); len(out) > 0 {
			intents = append(intents, out...)
		}
	}
	return intents
}

// self returns a single-element slice naming the origin field.
func (c *scanCtx) self() []string {
	return []string{c.in.Field.VariableName}
}

// intent builds the common skeleton stamped with origin metadata.
func (c *scanCtx) intent(kind types.ActionKind) types.RuleIntent {
	return types.RuleIntent{
		ActionKind:  kind,
		OriginField: c.in.Field.VariableName,
		OriginPanel: c.in.Field.Panel,
	}
}
