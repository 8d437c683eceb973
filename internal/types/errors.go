package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for per-rule build failures. These skip the offending
// intent; the batch continues.
var (
	// ErrLogicTextTooLong indicates a logic cell exceeds MaxLogicTextLength.
	ErrLogicTextTooLong = errors.New("logic text exceeds maximum length")

	// ErrTooManyConditionalValues indicates a rule exceeds MaxConditionalValues.
	ErrTooManyConditionalValues = errors.New("too many conditional values")

	// ErrTooManyDestinations indicates a rule exceeds MaxDestinationsPerRule.
	ErrTooManyDestinations = errors.New("too many destination fields")

	// ErrChainTooDeep indicates a post-trigger chain exceeds MaxChainDepth.
	ErrChainTooDeep = errors.New("post-trigger chain exceeds maximum depth")

	// ErrColumnOutOfRange indicates a lookup column mapping references a
	// column the lookup table does not have.
	ErrColumnOutOfRange = errors.New("lookup column index out of range")

	// ErrUnknownLookupTable indicates the lookup-table identifier did not
	// resolve in the catalog.
	ErrUnknownLookupTable = errors.New("unknown lookup table")

	// ErrNoDestination indicates an action that requires destinations had none.
	ErrNoDestination = errors.New("rule has no destination fields")

	// ErrDanglingRuleReference indicates a post-trigger ID that resolves to
	// no rule in the finalized batch.
	ErrDanglingRuleReference = errors.New("post-trigger references a rule that does not exist")
)

// UnknownFieldError reports a field name that did not resolve in the
// registry. Non-fatal: the offending intent is skipped and reported.
type UnknownFieldError struct {
	Name  string
	Panel string
}

func (e *UnknownFieldError) Error() string {
	if e.Panel == "" {
		return fmt.Sprintf("unknown field %q", e.Name)
	}
	return fmt.Sprintf("unknown field %q in panel %q", e.Name, e.Panel)
}

// DuplicateFieldError reports a registry collision. Fatal: surfaces before
// any rule building starts.
type DuplicateFieldError struct {
	Name  string
	Panel string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate field %q in panel %q", e.Name, e.Panel)
}

// ConsolidationConflictError reports two rules sharing a grouping key with
// incompatible non-mergeable attributes. Fatal, reported with both rule
// identities.
type ConsolidationConflictError struct {
	Existing  string // origin field of the accumulated rule
	Incoming  string // origin field of the conflicting rule
	Attribute string // which attribute diverged
}

func (e *ConsolidationConflictError) Error() string {
	return fmt.Sprintf("consolidation conflict on %s between rules from %q and %q",
		e.Attribute, e.Existing, e.Incoming)
}

// CycleDetectedError reports a post-trigger cycle. Fatal, batch-aborting;
// Path holds the rule IDs along the cycle, first repeated last.
type CycleDetectedError struct {
	Path []RuleID
}

func (e *CycleDetectedError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "post-trigger cycle detected: " + strings.Join(parts, " -> ")
}
