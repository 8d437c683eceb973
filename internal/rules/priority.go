// internal/rules/priority.go
package rules

import "github.com/solatis/formforge/internal/types"

/*
 * Fixed action tables.
 *
 * Defines the canonical action-kind ordering used for final ID assignment
 * and the action -> processing-type mapping. Both are single-source-of-
 * truth tables: the linker and builder consult them, tests pin them.
 *
 * Ordering rationale: chains reference forward, so producers must receive
 * lower IDs than their consumers. OCR produces values that VERIFY checks;
 * visibility defaults must exist before the toggles that depend on the
 * fields they reveal. Everything else ties on the default band and falls
 * back to field position (stable sort).
 */

// Action priority bands. Lower runs earlier within one field position.
const (
	priorityOCR        = 0
	priorityVerify     = 1
	priorityVisibility = 2
	priorityMandatory  = 3
	priorityDefault    = 4
)

// actionPriority returns the ID-assignment band for an action kind.
func actionPriority(kind types.ActionKind) int {
	switch kind {
	case types.ActionOCR:
		return priorityOCR
	case types.ActionVerify:
		return priorityVerify
	case types.ActionMakeVisible, types.ActionMakeInvisible:
		return priorityVisibility
	case types.ActionMakeMandatory, types.ActionMakeNonMandatory,
		types.ActionSessionMandatory, types.ActionSessionOptional:
		return priorityMandatory
	default:
		return priorityDefault
	}
}

// processingType returns where the downstream engine evaluates an action.
// Server-side actions touch external systems (OCR pipeline, lookup tables,
// expression evaluator, OTP gateway); pure form-state toggles stay client-side.
func processingType(kind types.ActionKind) types.ProcessingType {
	switch kind {
	case types.ActionOCR, types.ActionVerify, types.ActionExecuteExpr,
		types.ActionExternalLookup, types.ActionValidate,
		types.ActionSendOTP, types.ActionValidateOTP,
		types.ActionTxnAttrCopy, types.ActionTxnAttrSet:
		return types.ProcessingServer
	default:
		return types.ProcessingClient
	}
}

// needsDestinations reports whether an action is invalid without
// destination fields. Pure verification/validation actions operate on
// their source and legitimately have none.
func needsDestinations(kind types.ActionKind) bool {
	switch kind {
	case types.ActionVerify, types.ActionValidate, types.ActionValidateOTP,
		types.ActionTxnAttrSet:
		return false
	default:
		return true
	}
}
