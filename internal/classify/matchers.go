package classify

import (
	"strings"

	"github.com/solatis/formforge/internal/types"
)

/*
 * Pattern registry.
 *
 * Evaluated top to bottom; order is the priority order. Specific,
 * action-bearing vocabularies (OCR, lookup, OTP) come before the generic
 * conditional/unconditional toggles, and the unconditional toggles are
 * keyed on "always ..." phrasings so a cell like "mandatory if X is 'Yes'"
 * only hits the conditional pattern.
 *
 * Every producer that applies emits an intent; nothing is suppressed when
 * several vocabularies overlap. The consolidator merges the redundancy.
 */

var patterns = []pattern{
	{name: "ocr", produce: matchOCR},
	{name: "verify", produce: matchVerify},
	{name: "external-lookup", produce: matchExternalLookup},
	{name: "otp", produce: matchOTP},
	{name: "set-date", produce: matchSetDate},
	{name: "transaction-attr", produce: matchTransactionAttr},
	{name: "session-mandatory", produce: matchSessionMandatory},
	{name: "copy", produce: matchCopy},
	{name: "concat", produce: matchConcat},
	{name: "convert", produce: matchConvert},
	{name: "expression", produce: matchExpression},
	{name: "conditional-visibility", produce: matchConditionalVisibility},
	{name: "conditional-mandatory", produce: matchConditionalMandatory},
	{name: "conditional-enablement", produce: matchConditionalEnablement},
	{name: "always-invisible", produce: matchAlwaysInvisible},
	{name: "always-visible", produce: matchAlwaysVisible},
	{name: "always-disabled", produce: matchAlwaysDisabled},
	{name: "always-enabled", produce: matchAlwaysEnabled},
	{name: "always-mandatory", produce: matchAlwaysMandatory},
	{name: "always-optional", produce: matchAlwaysOptional},
	{name: "validate", produce: matchValidate},
}

// matchOCR emits an OCR intent, and a paired VERIFY intent when the cell
// also asks for the extracted value to be checked. The chain linker wires
// the OCR rule to post-trigger the VERIFY rule.
func matchOCR(c *scanCtx) []types.RuleIntent {
	if !containsAny(c.lower, "ocr", "extract from document", "extract from the document", "scan and extract") {
		return nil
	}

	ocr := c.intent(types.ActionOCR)
	ocr.DestinationNames = c.self()
	ocr.Condition = types.ConditionNone
	ocr.ValueType = types.ValueTypeText
	out := []types.RuleIntent{ocr}

	if containsAny(c.lower, "verify", "verified", "validate against", "check against") {
		verify := c.intent(types.ActionVerify)
		verify.SourceFieldNames = c.self()
		verify.Condition = types.ConditionNone
		verify.ValueType = types.ValueTypeText
		verify.ConditionText = c.text
		out = append(out, verify)
	}
	return out
}

// matchVerify handles standalone verification cells without an OCR step.
func matchVerify(c *scanCtx) []types.RuleIntent {
	if containsAny(c.lower, "ocr", "extract from document", "extract from the document", "scan and extract") {
		return nil // handled by matchOCR as a pair
	}
	if !containsAny(c.lower, "verify against", "verified against", "match against", "check against") {
		return nil
	}
	verify := c.intent(types.ActionVerify)
	verify.SourceFieldNames = c.self()
	verify.Condition = types.ConditionNone
	verify.ValueType = types.ValueTypeText
	verify.ConditionText = c.text
	return []types.RuleIntent{verify}
}

// matchExternalLookup emits an EXTERNAL_DROPDOWN_LOOKUP intent carrying the
// master table identifier. Peer fields named in the cell become additional
// destinations, populated positionally from the matched row.
func matchExternalLookup(c *scanCtx) []types.RuleIntent {
	if !containsAny(c.lower, "lookup", "master table", "fetch from master", "populate from master") {
		return nil
	}
	table := tableIdentifier(c.text)
	if table == "" {
		return nil
	}

	intent := c.intent(types.ActionExternalLookup)
	intent.SourceFieldNames = c.self()
	intent.DestinationNames = append(c.self(), names(peerMention(c, c.text))...)
	intent.ParamsRaw = table
	intent.Condition = types.ConditionNone
	intent.ValueType = types.ValueTypeText
	return []types.RuleIntent{intent}
}

// matchOTP recognizes both halves of the OTP flow. A cell describing the
// full flow emits both intents; the linker chains SEND before VALIDATE.
func matchOTP(c *scanCtx) []types.RuleIntent {
	if !strings.Contains(c.lower, "otp") {
		return nil
	}
	var out []types.RuleIntent
	if containsAny(c.lower, "send otp", "trigger otp", "generate otp") {
		send := c.intent(types.ActionSendOTP)
		send.SourceFieldNames = c.self()
		send.DestinationNames = c.self()
		send.Condition = types.ConditionNone
		send.ValueType = types.ValueTypeText
		out = append(out, send)
	}
	if containsAny(c.lower, "validate otp", "verify otp", "confirm otp") {
		val := c.intent(types.ActionValidateOTP)
		val.SourceFieldNames = c.self()
		val.Condition = types.ConditionNone
		val.ValueType = types.ValueTypeText
		out = append(out, val)
	}
	return out
}

// matchSetDate recognizes system-date defaulting.
func matchSetDate(c *scanCtx) []types.RuleIntent {
	if !containsAny(c.lower, "current date", "today's date", "todays date", "system date") {
		return nil
	}
	intent := c.intent(types.ActionSetDate)
	intent.DestinationNames = c.self()
	intent.Condition = types.ConditionNone
	intent.ValueType = types.ValueTypeDate
	return []types.RuleIntent{intent}
}

// matchTransactionAttr recognizes transaction-attribute plumbing.
func matchTransactionAttr(c *scanCtx) []types.RuleIntent {
	if !containsAny(c.lower, "transaction attribute", "transaction attr") {
		return nil
	}
	kind := types.ActionTxnAttrCopy
	if containsAny(c.lower, "set transaction", "write to transaction", "store in transaction") {
		kind = types.ActionTxnAttrSet
	}
	intent := c.intent(kind)
	if kind == types.ActionTxnAttrCopy {
		intent.DestinationNames = c.self()
	} else {
		intent.SourceFieldNames = c.self()
	}
	intent.ParamsRaw = c.text
	intent.Condition = types.ConditionNone
	intent.ValueType = types.ValueTypeText
	return []types.RuleIntent{intent}
}

// matchSessionMandatory recognizes session-scoped mandatory toggles.
func matchSessionMandatory(c *scanCtx) []types.RuleIntent {
	if !strings.Contains(c.lower, "session") {
		return nil
	}
	var kind types.ActionKind
	switch {
	case containsAny(c.lower, "non-mandatory", "non mandatory", "optional"):
		kind = types.ActionSessionOptional
	case containsAny(c.lower, "mandatory", "required"):
		kind = types.ActionSessionMandatory
	default:
		return nil
	}
	intent := c.intent(kind)
	intent.DestinationNames = c.self()
	intent.Condition = types.ConditionNone
	intent.ValueType = types.ValueTypeText
	return []types.RuleIntent{intent}
}

// matchCopy recognizes value copying between fields. "copied from X" makes
// X the source and self the destination; "copy to X" inverts that.
func matchCopy(c *scanCtx) []types.RuleIntent {
	if !containsAny(c.lower, "copy", "copied", "same as", "auto-populate from", "auto populate from", "populated from") {
		return nil
	}
	peers := peerMention(c, c.text)
	if len(peers) == 0 {
		return nil
	}

	intent := c.intent(types.ActionCopyTo)
	if containsAny(c.lower, "copy to", "copied to") {
		intent.SourceFieldNames = c.self()
		intent.DestinationNames = names(peers)
	} else {
		intent.SourceFieldNames = []string{peers[0].VariableName}
		intent.DestinationNames = c.self()
	}
	intent.Condition = types.ConditionNone
	intent.ValueType = types.ValueTypeText
	return []types.RuleIntent{intent}
}

// matchConcat recognizes concatenation of several peers into self.
func matchConcat(c *scanCtx) []types.RuleIntent {
	if !containsAny(c.lower, "concat", "concatenation", "combination of", "combine ") {
		return nil
	}
	peers := peerMention(c, c.text)
	if len(peers) == 0 {
		return nil
	}
	intent := c.intent(types.ActionConcat)
	intent.SourceFieldNames = names(peers)
	intent.DestinationNames = c.self()
	intent.Condition = types.ConditionNone
	intent.ValueType = types.ValueTypeText
	return []types.RuleIntent{intent}
}

// matchConvert recognizes in-place value conversion.
func matchConvert(c *scanCtx) []types.RuleIntent {
	if !containsAny(c.lower, "convert to", "converted to", "uppercase", "upper case", "title case", "lowercase") {
		return nil
	}
	intent := c.intent(types.ActionConvertTo)
	intent.SourceFieldNames = c.self()
	intent.DestinationNames = c.self()
	intent.ParamsRaw = c.text
	intent.Condition = types.ConditionNone
	intent.ValueType = types.ValueTypeText
	return []types.RuleIntent{intent}
}

// matchExpression recognizes computed fields; the expression text rides
// along in ParamsRaw for the server-side evaluator.
func matchExpression(c *scanCtx) []types.RuleIntent {
	if !containsAny(c.lower, "calculated as", "computed as", "formula", "expression:") {
		return nil
	}
	intent := c.intent(types.ActionExecuteExpr)
	intent.SourceFieldNames = names(peerMention(c, c.text))
	intent.DestinationNames = c.self()
	intent.ParamsRaw = expressionText(c.text)
	intent.Condition = types.ConditionNone
	intent.ValueType = types.ValueTypeText
	return []types.RuleIntent{intent}
}

// expressionText strips the recognition prefix, keeping the formula body.
func expressionText(text string) string {
	lower := strings.ToLower(text)
	for _, m := range []string{"calculated as", "computed as", "expression:", "formula"} {
		if idx := strings.Index(lower, m); idx >= 0 {
			return strings.TrimSpace(strings.TrimPrefix(text[idx+len(m):], ":"))
		}
	}
	return text
}

// conditionalIntent assembles the shared shape of a conditional toggle:
// source from the condition clause, self as destination, quoted tokens as
// comparison values.
func conditionalIntent(c *scanCtx, kind types.ActionKind, cond types.Condition) types.RuleIntent {
	clause := conditionClause(c.text)
	values := quotedValues(clause)

	intent := c.intent(kind)
	intent.SourceFieldNames = names(peerMention(c, clause))
	intent.DestinationNames = c.self()
	intent.ConditionText = clause
	intent.Condition = cond
	intent.ConditionalValues = values
	intent.ValueType = InferValueType(values)
	return intent
}

// matchConditionalVisibility recognizes "visible if ..." / "hide when ...".
func matchConditionalVisibility(c *scanCtx) []types.RuleIntent {
	if !hasConditionalMarker(c.lower) {
		return nil
	}
	switch {
	case containsAny(c.lower, "invisible", "hidden", "hide"):
		return []types.RuleIntent{conditionalIntent(c, types.ActionMakeInvisible, types.ConditionIn)}
	case containsAny(c.lower, "visible", "show", "display"):
		return []types.RuleIntent{conditionalIntent(c, types.ActionMakeVisible, types.ConditionIn)}
	}
	return nil
}

// matchConditionalMandatory recognizes "mandatory if ..." and its negation.
func matchConditionalMandatory(c *scanCtx) []types.RuleIntent {
	if !hasConditionalMarker(c.lower) {
		return nil
	}
	switch {
	case containsAny(c.lower, "non-mandatory", "non mandatory", "not mandatory", "optional"):
		return []types.RuleIntent{conditionalIntent(c, types.ActionMakeNonMandatory, types.ConditionIn)}
	case containsAny(c.lower, "mandatory", "required"):
		return []types.RuleIntent{conditionalIntent(c, types.ActionMakeMandatory, types.ConditionIn)}
	}
	return nil
}

// matchConditionalEnablement recognizes "enabled if ..." / "disabled when ...".
func matchConditionalEnablement(c *scanCtx) []types.RuleIntent {
	if !hasConditionalMarker(c.lower) {
		return nil
	}
	switch {
	case containsAny(c.lower, "disabled", "read-only", "read only", "non-editable"):
		return []types.RuleIntent{conditionalIntent(c, types.ActionMakeDisabled, types.ConditionIn)}
	case containsAny(c.lower, "enabled", "editable"):
		return []types.RuleIntent{conditionalIntent(c, types.ActionMakeEnabled, types.ConditionIn)}
	}
	return nil
}

// unconditionalIntent assembles a default toggle targeting self.
func unconditionalIntent(c *scanCtx, kind types.ActionKind, cond types.Condition) []types.RuleIntent {
	intent := c.intent(kind)
	intent.DestinationNames = c.self()
	intent.Condition = cond
	intent.ValueType = types.ValueTypeText
	return []types.RuleIntent{intent}
}

// matchAlwaysInvisible recognizes unconditional hiding. The NOT_IN
// condition with no values is how the downstream engine encodes "never
// visible regardless of any source value".
func matchAlwaysInvisible(c *scanCtx) []types.RuleIntent {
	if hasConditionalMarker(c.lower) {
		return nil
	}
	if !containsAny(c.lower, "always invisible", "never visible", "hidden", "not visible") {
		return nil
	}
	return unconditionalIntent(c, types.ActionMakeInvisible, types.ConditionNotIn)
}

func matchAlwaysVisible(c *scanCtx) []types.RuleIntent {
	if hasConditionalMarker(c.lower) || !strings.Contains(c.lower, "always visible") {
		return nil
	}
	return unconditionalIntent(c, types.ActionMakeVisible, types.ConditionNone)
}

func matchAlwaysDisabled(c *scanCtx) []types.RuleIntent {
	if hasConditionalMarker(c.lower) {
		return nil
	}
	if !containsAny(c.lower, "always disabled", "read-only", "read only", "non-editable", "system-generated", "system generated") {
		return nil
	}
	return unconditionalIntent(c, types.ActionMakeDisabled, types.ConditionNone)
}

func matchAlwaysEnabled(c *scanCtx) []types.RuleIntent {
	if hasConditionalMarker(c.lower) || !strings.Contains(c.lower, "always enabled") {
		return nil
	}
	return unconditionalIntent(c, types.ActionMakeEnabled, types.ConditionNone)
}

func matchAlwaysMandatory(c *scanCtx) []types.RuleIntent {
	if hasConditionalMarker(c.lower) || strings.Contains(c.lower, "session") {
		return nil
	}
	if !containsAny(c.lower, "always mandatory", "always required") {
		return nil
	}
	return unconditionalIntent(c, types.ActionMakeMandatory, types.ConditionNone)
}

func matchAlwaysOptional(c *scanCtx) []types.RuleIntent {
	if hasConditionalMarker(c.lower) || strings.Contains(c.lower, "session") {
		return nil
	}
	if !containsAny(c.lower, "always optional", "never mandatory", "always non-mandatory") {
		return nil
	}
	return unconditionalIntent(c, types.ActionMakeNonMandatory, types.ConditionNone)
}

// matchValidate recognizes table-driven or format validation. A master
// table identifier in the cell makes it a table-driven validation with the
// identifier in ParamsRaw.
func matchValidate(c *scanCtx) []types.RuleIntent {
	if containsAny(c.lower, "ocr", "otp", "verify against", "verified against", "match against", "check against") {
		return nil // claimed by more specific patterns
	}
	if !containsAny(c.lower, "validate", "validation") {
		return nil
	}
	intent := c.intent(types.ActionValidate)
	intent.SourceFieldNames = c.self()
	intent.DestinationNames = names(peerMention(c, c.text))
	intent.ParamsRaw = tableIdentifier(c.text)
	intent.Condition = types.ConditionNone
	intent.ValueType = types.ValueTypeText
	return []types.RuleIntent{intent}
}
