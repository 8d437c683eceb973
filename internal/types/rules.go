// internal/types/rules.go
package types

/*
 * Domain types for rule extraction.
 *
 * Provides RuleIntent (classifier output), Rule (finalized record) and the
 * enumerations both share. These types are wire-format agnostic on input;
 * Rule carries the exact JSON shape the downstream form-rendering engine
 * consumes, so every structural key is always populated.
 *
 * Key types:
 *   - ActionKind: what a rule does (visibility, OCR, lookup, ...)
 *   - RuleIntent: unresolved candidate, names instead of IDs, transient
 *   - Rule: finalized record with numeric field/rule references
 *
 * Lifecycle: RuleIntent -> Rule(id=0, arena index) -> consolidated ->
 * linked (final sequential ID, post-trigger references resolved) ->
 * immutable.
 */

// ActionKind enumerates rule actions extracted from logic text.
type ActionKind string

const (
	ActionMakeVisible      ActionKind = "MAKE_VISIBLE"
	ActionMakeInvisible    ActionKind = "MAKE_INVISIBLE"
	ActionMakeMandatory    ActionKind = "MAKE_MANDATORY"
	ActionMakeNonMandatory ActionKind = "MAKE_NON_MANDATORY"
	ActionMakeDisabled     ActionKind = "MAKE_DISABLED"
	ActionMakeEnabled      ActionKind = "MAKE_ENABLED"
	ActionCopyTo           ActionKind = "COPY_TO"
	ActionConvertTo        ActionKind = "CONVERT_TO"
	ActionValidate         ActionKind = "VALIDATE"
	ActionExecuteExpr      ActionKind = "EXECUTE_EXPRESSION"
	ActionOCR              ActionKind = "OCR"
	ActionVerify           ActionKind = "VERIFY"
	ActionExternalLookup   ActionKind = "EXTERNAL_DROPDOWN_LOOKUP"
	ActionConcat           ActionKind = "CONCAT"
	ActionSetDate          ActionKind = "SET_DATE"
	ActionSendOTP          ActionKind = "SEND_OTP"
	ActionValidateOTP      ActionKind = "VALIDATE_OTP"
	ActionSessionMandatory ActionKind = "SESSION_MANDATORY"
	ActionSessionOptional  ActionKind = "SESSION_NON_MANDATORY"
	ActionTxnAttrCopy      ActionKind = "TRANSACTION_ATTR_COPY"
	ActionTxnAttrSet       ActionKind = "TRANSACTION_ATTR_SET"
)

// ProcessingType says where the downstream engine evaluates a rule.
type ProcessingType string

const (
	ProcessingClient ProcessingType = "CLIENT"
	ProcessingServer ProcessingType = "SERVER"
)

// Condition enumerates how a source value is matched against
// conditionalValues.
type Condition string

const (
	ConditionNone        Condition = "NONE"
	ConditionIn          Condition = "IN"
	ConditionNotIn       Condition = "NOT_IN"
	ConditionEquals      Condition = "EQUALS"
	ConditionNotEquals   Condition = "NOT_EQUALS"
	ConditionGreaterThan Condition = "GREATER_THAN"
	ConditionLessThan    Condition = "LESS_THAN"
)

// ConditionValueType enumerates the coercion applied to conditionalValues.
type ConditionValueType string

const (
	ValueTypeText   ConditionValueType = "TEXT"
	ValueTypeNumber ConditionValueType = "NUMBER"
	ValueTypeDate   ConditionValueType = "DATE"
)

// RuleIntent is an unresolved rule candidate produced by the classifier.
// Field references are names (variable names or labels); resolution to IDs
// happens in the builder. Never persisted.
type RuleIntent struct {
	ActionKind        ActionKind
	SourceFieldNames  []string
	DestinationNames  []string
	ConditionText     string
	Condition         Condition
	ConditionalValues []string
	ValueType         ConditionValueType
	ParamsRaw         string // expression text or lookup-table identifier
	OriginField       string // variable name of the field whose logic cell produced this intent
	OriginPanel       string
}

// RuleID is the final sequential identifier of a rule within one schema.
type RuleID int

// Rule is a finalized form-fill rule record. JSON tags define the exact
// wire shape; every key is always present on output.
type Rule struct {
	ID                   RuleID             `json:"id"`
	CreateUser           string             `json:"createUser"`
	UpdateUser           string             `json:"updateUser"`
	ActionType           ActionKind         `json:"actionType"`
	ProcessingType       ProcessingType     `json:"processingType"`
	SourceIDs            []FieldID          `json:"sourceIds"`
	DestinationIDs       []FieldID          `json:"destinationIds"`
	ConditionalValues    []string           `json:"conditionalValues"`
	Condition            Condition          `json:"condition"`
	ConditionValueType   ConditionValueType `json:"conditionValueType"`
	PostTriggerRuleIDs   []RuleID           `json:"postTriggerRuleIds"`
	Button               bool               `json:"button"`
	Searchable           bool               `json:"searchable"`
	ExecuteOnFill        bool               `json:"executeOnFill"`
	ExecuteOnRead        bool               `json:"executeOnRead"`
	ExecuteOnEsign       bool               `json:"executeOnEsign"`
	ExecutePostEsign     bool               `json:"executePostEsign"`
	RunPostConditionFail bool               `json:"runPostConditionFail"`

	// Linker bookkeeping, not part of the wire format.
	ArenaIndex  int        `json:"-"` // placeholder identity before final IDs exist
	PanelIndex  int        `json:"-"`
	FieldPos    int        `json:"-"`
	OriginField string     `json:"-"`
	PostArena   []int      `json:"-"` // arena indices pending remap to final IDs
	Params      RuleParams `json:"-"`
}

// RuleParams carries resolved auxiliary data for server-side actions.
type RuleParams struct {
	Expression  string
	LookupTable string
	// ColumnMap maps destination position -> lookup table column index.
	ColumnMap []int
}

// SystemUser is the constant audit identity stamped on every rule.
const SystemUser = "formfill-extractor"
