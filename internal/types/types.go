// Package types provides domain models shared across FormForge components.
//
// Zero-dependency design: types.go, rules.go and errors.go use only the
// standard library so the model can be embedded anywhere. ID utilities in
// ids.go import uuid but are isolated for selective inclusion.
package types

// FieldID is the stable numeric identifier of a form field.
// Positive once assigned; 0 means "not yet allocated".
type FieldID int

// FieldType enumerates the input widget kinds a BUD document describes.
type FieldType string

const (
	FieldText             FieldType = "TEXT"
	FieldDropdown         FieldType = "DROPDOWN"
	FieldExternalDropdown FieldType = "EXTERNAL_DROPDOWN"
	FieldDate             FieldType = "DATE"
	FieldCheckbox         FieldType = "CHECKBOX"
	FieldRadio            FieldType = "RADIO"
	FieldLabel            FieldType = "LABEL"
	FieldFile             FieldType = "FILE"
)

// Field is a registered form input. VariableName is unique within a panel,
// ID is unique within a schema.
type Field struct {
	ID           FieldID
	VariableName string
	Label        string
	FieldType    FieldType
	Panel        string
	Position     int // zero-based document order, used for deterministic ID assignment
}

// FieldSpec is one field slot in the input/output document.
// Rules is nil on input and populated by the schema populator on output.
type FieldSpec struct {
	ID           FieldID   `json:"id,omitempty"`
	VariableName string    `json:"variableName"`
	Label        string    `json:"label,omitempty"`
	FieldType    FieldType `json:"fieldType"`
	LogicText    string    `json:"logicText,omitempty"`
	Rules        []Rule    `json:"formFillRules"`
}

// Panel is a named grouping of fields presented together in the form.
type Panel struct {
	Name   string      `json:"name"`
	Fields []FieldSpec `json:"fields"`
}

// Document is the schema object the populator transforms. Only the
// per-field formFillRules arrays are written; everything else passes
// through untouched.
type Document struct {
	Name   string  `json:"name,omitempty"`
	Panels []Panel `json:"panels"`
}

// Resource limits enforced by the extraction engine. Violations are
// detected at build/link time rather than by downstream consumers.
const (
	// MaxLogicTextLength bounds a single logic cell. Longer cells indicate
	// a table extraction fault, not a legitimate rule description.
	MaxLogicTextLength = 4096

	// MaxConditionalValues bounds the IN/NOT_IN value list of one rule.
	MaxConditionalValues = 64

	// MaxDestinationsPerRule bounds consolidation fan-out. A rule touching
	// more destinations than this indicates a runaway merge.
	MaxDestinationsPerRule = 256

	// MaxChainDepth bounds transitive post-trigger chains. Anything deeper
	// is either a modelling error or an undetected cycle.
	MaxChainDepth = 32
)
