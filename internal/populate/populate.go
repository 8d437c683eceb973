// Package populate orchestrates rule extraction over a whole schema.
package populate

import (
	"go.uber.org/zap"

	"github.com/solatis/formforge/internal/classify"
	"github.com/solatis/formforge/internal/registry"
	"github.com/solatis/formforge/internal/rules"
	"github.com/solatis/formforge/internal/types"
)

/*
 * Schema population.
 *
 * Control flow per populate call:
 *   1. register every field, document order (registry collision aborts)
 *   2. per field: classify -> build, accumulating one batch per panel
 *   3. per panel: consolidate (conflict aborts)
 *   4. once globally: link (chains cross panels; cycle aborts)
 *   5. write each field's finalized rules back into a copy of the document
 *
 * Error isolation: per-intent failures (unknown name, lookup bounds) skip
 * that intent and are reported; panel/global invariant violations abort
 * the whole batch so partial, inconsistent output is never persisted.
 *
 * The input document is never mutated; the registry and the accumulating
 * rule set are exclusively owned by one call. Given identical input, two
 * runs yield byte-identical output (IDs, ordering, report slices).
 */

// PanelRefs maps panel name -> display label -> variable name, the BUD's
// optional intra-panel reference metadata.
type PanelRefs map[string]map[string]string

// Populator drives extraction for one or more documents.
type Populator struct {
	lookups rules.LookupResolver
	refs    PanelRefs
	logger  *zap.Logger
}

// New creates a populator. lookups may be nil for schemas without
// table-driven rules; refs may be nil; a nil logger disables logging.
func New(lookups rules.LookupResolver, refs PanelRefs, logger *zap.Logger) *Populator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Populator{lookups: lookups, refs: refs, logger: logger}
}

// Populate extracts rules from every field's logic text and returns a new
// document with per-field formFillRules arrays filled in, plus the run
// report. The input document is left untouched.
func (p *Populator) Populate(doc *types.Document) (*types.Document, *Report, error) {
	out := copyDocument(doc)
	report := newReport()

	reg := registry.New()
	peersByPanel := make([][]*types.Field, len(out.Panels))

	// Registration pass: collisions must surface before any rule building.
	for pi := range out.Panels {
		panel := &out.Panels[pi]
		peers := make([]*types.Field, 0, len(panel.Fields))
		for fi := range panel.Fields {
			spec := &panel.Fields[fi]
			f, err := reg.Allocate(spec.VariableName, spec.Label, spec.FieldType, panel.Name, fi, spec.ID)
			if err != nil {
				return nil, nil, err
			}
			spec.ID = f.ID
			peers = append(peers, f)
		}
		peersByPanel[pi] = peers
	}

	builder := rules.NewBuilder(reg, p.lookups)
	var all []types.Rule

	for pi := range out.Panels {
		panel := &out.Panels[pi]
		var batch []types.Rule

		for fi := range panel.Fields {
			spec := &panel.Fields[fi]
			report.FieldsSeen++

			if len(spec.LogicText) > types.MaxLogicTextLength {
				report.Skipped = append(report.Skipped, SkippedIntent{
					Panel:  panel.Name,
					Field:  spec.VariableName,
					Reason: types.ErrLogicTextTooLong.Error(),
				})
				p.logger.Warn("logic text too long, field skipped",
					zap.String("panel", panel.Name),
					zap.String("field", spec.VariableName),
					zap.Int("length", len(spec.LogicText)))
				continue
			}

			intents := classify.Classify(classify.Input{
				Field:     peersByPanel[pi][fi],
				LogicText: spec.LogicText,
				Peers:     peersByPanel[pi],
				Refs:      p.refs[panel.Name],
			})
			report.IntentsFound += len(intents)

			if len(intents) == 0 {
				report.Notices = append(report.Notices, Notice{
					Panel:   panel.Name,
					Field:   spec.VariableName,
					Message: "no rule extracted",
				})
				p.logger.Debug("no rule extracted",
					zap.String("panel", panel.Name),
					zap.String("field", spec.VariableName))
				continue
			}

			for _, intent := range intents {
				rule, err := builder.Build(intent, pi, fi)
				if err != nil {
					report.Skipped = append(report.Skipped, SkippedIntent{
						Panel:      panel.Name,
						Field:      spec.VariableName,
						ActionType: intent.ActionKind,
						Reason:     err.Error(),
					})
					p.logger.Warn("intent skipped",
						zap.String("panel", panel.Name),
						zap.String("field", spec.VariableName),
						zap.String("action", string(intent.ActionKind)),
						zap.Error(err))
					continue
				}
				report.RulesBuilt++
				batch = append(batch, rule)
			}
		}

		consolidated, err := rules.Consolidate(batch)
		if err != nil {
			return nil, nil, err
		}
		all = append(all, consolidated...)
	}

	finalized, unresolved, err := rules.Link(all)
	if err != nil {
		return nil, nil, err
	}
	report.RulesFinal = len(finalized)
	report.Unresolved = append(report.Unresolved, unresolved...)
	for _, w := range unresolved {
		p.logger.Warn("unresolved trigger: extracted value is never verified",
			zap.Int("ruleId", int(w.RuleID)),
			zap.String("field", w.OriginField))
	}

	p.writeBack(out, finalized, report)

	p.logger.Info("schema populated",
		zap.String("runId", string(report.RunID)),
		zap.Int("fields", report.FieldsSeen),
		zap.Int("rules", report.RulesFinal),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("unresolvedTriggers", len(report.Unresolved)))

	return out, report, nil
}

// writeBack inserts each finalized rule into its origin field's slot, in
// final-ID order.
func (p *Populator) writeBack(doc *types.Document, finalized []types.Rule, report *Report) {
	type slot struct{ panel, field int }
	slots := make(map[slot]*types.FieldSpec)
	for pi := range doc.Panels {
		for fi := range doc.Panels[pi].Fields {
			spec := &doc.Panels[pi].Fields[fi]
			spec.Rules = []types.Rule{} // always present, marshals as []
			slots[slot{pi, fi}] = spec
		}
	}

	for _, rule := range finalized {
		report.ActionCounts[rule.ActionType]++
		if spec, ok := slots[slot{rule.PanelIndex, rule.FieldPos}]; ok {
			spec.Rules = append(spec.Rules, rule)
		}
	}
}

// copyDocument deep-copies the schema structure so the input is never
// mutated. Rules arrays are reset; everything else carries over.
func copyDocument(doc *types.Document) *types.Document {
	out := &types.Document{Name: doc.Name, Panels: make([]types.Panel, len(doc.Panels))}
	for pi, panel := range doc.Panels {
		fields := make([]types.FieldSpec, len(panel.Fields))
		copy(fields, panel.Fields)
		for fi := range fields {
			fields[fi].Rules = nil
		}
		out.Panels[pi] = types.Panel{Name: panel.Name, Fields: fields}
	}
	return out
}
