package populate

import (
	"github.com/solatis/formforge/internal/rules"
	"github.com/solatis/formforge/internal/types"
)

// Notice records a non-fatal per-field condition, e.g. "no rule extracted".
type Notice struct {
	Panel   string `json:"panel"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SkippedIntent records an intent that could not be built. The batch
// continues without it.
type SkippedIntent struct {
	Panel      string           `json:"panel"`
	Field      string           `json:"field"`
	ActionType types.ActionKind `json:"actionType"`
	Reason     string           `json:"reason"`
}

// Report summarizes one extraction run. Persisted beside the schema output
// for regression comparison; every slice is ordered by document position
// so identical inputs produce identical reports.
type Report struct {
	RunID        types.RunID               `json:"runId"`
	FieldsSeen   int                       `json:"fieldsSeen"`
	IntentsFound int                       `json:"intentsFound"`
	RulesBuilt   int                       `json:"rulesBuilt"`
	RulesFinal   int                       `json:"rulesFinal"`
	ActionCounts map[types.ActionKind]int  `json:"actionCounts"`
	Notices      []Notice                  `json:"notices"`
	Skipped      []SkippedIntent           `json:"skipped"`
	Unresolved   []rules.UnresolvedTrigger `json:"unresolvedTriggers"`
}

func newReport() *Report {
	return &Report{
		RunID:        types.NewRunID(),
		ActionCounts: make(map[types.ActionKind]int),
		Notices:      []Notice{},
		Skipped:      []SkippedIntent{},
		Unresolved:   []rules.UnresolvedTrigger{},
	}
}
