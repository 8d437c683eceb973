package rules

import (
	"errors"
	"reflect"
	"testing"

	"github.com/solatis/formforge/internal/types"
)

// arenaRule builds an unfinalized rule positioned in the document.
func arenaRule(kind types.ActionKind, panel, pos int, origin string, sources, dests []types.FieldID) types.Rule {
	return types.Rule{
		CreateUser:         types.SystemUser,
		UpdateUser:         types.SystemUser,
		ActionType:         kind,
		ProcessingType:     processingType(kind),
		SourceIDs:          append([]types.FieldID{}, sources...),
		DestinationIDs:     append([]types.FieldID{}, dests...),
		ConditionalValues:  []string{},
		Condition:          types.ConditionNone,
		ConditionValueType: types.ValueTypeText,
		PostTriggerRuleIDs: []types.RuleID{},
		ExecuteOnFill:      true,
		PanelIndex:         panel,
		FieldPos:           pos,
		OriginField:        origin,
	}
}

func TestLink_SequentialIDsByDocumentOrder(t *testing.T) {
	all := []types.Rule{
		arenaRule(types.ActionMakeVisible, 1, 0, "x", nil, []types.FieldID{5}),
		arenaRule(types.ActionMakeVisible, 0, 1, "b", nil, []types.FieldID{2}),
		arenaRule(types.ActionMakeVisible, 0, 0, "a", nil, []types.FieldID{1}),
	}

	out, _, err := Link(all)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}

	wantOrigins := []string{"a", "b", "x"}
	for i, want := range wantOrigins {
		if out[i].ID != types.RuleID(i+1) {
			t.Errorf("out[%d].ID = %v, want %v", i, out[i].ID, i+1)
		}
		if out[i].OriginField != want {
			t.Errorf("out[%d].OriginField = %q, want %q", i, out[i].OriginField, want)
		}
	}
}

func TestLink_ActionPriorityWithinField(t *testing.T) {
	// Same field position: OCR must take the lower ID, VERIFY next,
	// visibility after, regardless of arrival order.
	all := []types.Rule{
		arenaRule(types.ActionMakeVisible, 0, 0, "pan", nil, []types.FieldID{1}),
		arenaRule(types.ActionVerify, 0, 0, "pan", []types.FieldID{1}, nil),
		arenaRule(types.ActionOCR, 0, 0, "pan", nil, []types.FieldID{1}),
	}

	out, _, err := Link(all)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}

	want := []types.ActionKind{types.ActionOCR, types.ActionVerify, types.ActionMakeVisible}
	for i, kind := range want {
		if out[i].ActionType != kind {
			t.Errorf("out[%d].ActionType = %v, want %v", i, out[i].ActionType, kind)
		}
	}
}

func TestLink_OCRTriggersVerify(t *testing.T) {
	all := []types.Rule{
		arenaRule(types.ActionOCR, 0, 2, "pan", nil, []types.FieldID{3}),
		arenaRule(types.ActionVerify, 0, 2, "pan", []types.FieldID{3}, nil),
		arenaRule(types.ActionMakeInvisible, 0, 0, "code", nil, []types.FieldID{1}),
	}

	out, warnings, err := Link(all)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}

	var ocr, verify *types.Rule
	for i := range out {
		switch out[i].ActionType {
		case types.ActionOCR:
			ocr = &out[i]
		case types.ActionVerify:
			verify = &out[i]
		}
	}
	if ocr == nil || verify == nil {
		t.Fatalf("missing OCR or VERIFY in output: %+v", out)
	}
	if !reflect.DeepEqual(ocr.PostTriggerRuleIDs, []types.RuleID{verify.ID}) {
		t.Errorf("OCR PostTriggerRuleIDs = %v, want [%v]", ocr.PostTriggerRuleIDs, verify.ID)
	}
	if ocr.ID >= verify.ID {
		t.Errorf("OCR ID %v not below VERIFY ID %v", ocr.ID, verify.ID)
	}
	if len(verify.PostTriggerRuleIDs) != 0 {
		t.Errorf("VERIFY PostTriggerRuleIDs = %v, want empty", verify.PostTriggerRuleIDs)
	}
}

func TestLink_OCRWithoutVerifyWarns(t *testing.T) {
	all := []types.Rule{
		arenaRule(types.ActionOCR, 0, 0, "photo", nil, []types.FieldID{1}),
	}

	out, warnings, err := Link(all)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	if warnings[0].RuleID != out[0].ID || warnings[0].OriginField != "photo" {
		t.Errorf("warning = %+v, want rule %v from photo", warnings[0], out[0].ID)
	}
	if len(out[0].PostTriggerRuleIDs) != 0 {
		t.Errorf("PostTriggerRuleIDs = %v, want empty", out[0].PostTriggerRuleIDs)
	}
}

func TestLink_VerifySourceMustMatchOCRDestinations(t *testing.T) {
	// VERIFY over a different field set is not this OCR's checker.
	all := []types.Rule{
		arenaRule(types.ActionOCR, 0, 0, "pan", nil, []types.FieldID{1}),
		arenaRule(types.ActionVerify, 0, 1, "other", []types.FieldID{2}, nil),
	}

	out, warnings, err := Link(all)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one unresolved OCR", warnings)
	}
	if len(out[0].PostTriggerRuleIDs) != 0 {
		t.Errorf("PostTriggerRuleIDs = %v, want empty", out[0].PostTriggerRuleIDs)
	}
}

func TestLink_SendOTPTriggersValidateOTP(t *testing.T) {
	all := []types.Rule{
		arenaRule(types.ActionSendOTP, 0, 0, "mobile", []types.FieldID{1}, []types.FieldID{1}),
		arenaRule(types.ActionValidateOTP, 0, 0, "mobile", []types.FieldID{1}, nil),
		arenaRule(types.ActionValidateOTP, 0, 1, "email", []types.FieldID{2}, nil),
	}

	out, _, err := Link(all)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}

	var send, validate *types.Rule
	for i := range out {
		switch {
		case out[i].ActionType == types.ActionSendOTP:
			send = &out[i]
		case out[i].ActionType == types.ActionValidateOTP && out[i].OriginField == "mobile":
			validate = &out[i]
		}
	}
	if send == nil || validate == nil {
		t.Fatalf("missing SEND_OTP or VALIDATE_OTP in output: %+v", out)
	}
	if !reflect.DeepEqual(send.PostTriggerRuleIDs, []types.RuleID{validate.ID}) {
		t.Errorf("SEND_OTP PostTriggerRuleIDs = %v, want [%v] (same origin only)", send.PostTriggerRuleIDs, validate.ID)
	}
}

func TestLink_ChainsCrossPanels(t *testing.T) {
	all := []types.Rule{
		arenaRule(types.ActionOCR, 0, 0, "pan", nil, []types.FieldID{1}),
		arenaRule(types.ActionVerify, 1, 0, "panCheck", []types.FieldID{1}, nil),
	}

	out, warnings, err := Link(all)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none (cross-panel chain resolves)", warnings)
	}
	if !reflect.DeepEqual(out[0].PostTriggerRuleIDs, []types.RuleID{out[1].ID}) {
		t.Errorf("PostTriggerRuleIDs = %v, want [%v]", out[0].PostTriggerRuleIDs, out[1].ID)
	}
}

func TestLink_InputNotModified(t *testing.T) {
	all := []types.Rule{
		arenaRule(types.ActionOCR, 0, 0, "pan", nil, []types.FieldID{1}),
		arenaRule(types.ActionVerify, 0, 0, "pan", []types.FieldID{1}, nil),
	}
	snapshot := make([]types.Rule, len(all))
	copy(snapshot, all)

	if _, _, err := Link(all); err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if !reflect.DeepEqual(all, snapshot) {
		t.Errorf("Link() modified its input: %+v", all)
	}
}

func TestLink_Deterministic(t *testing.T) {
	all := []types.Rule{
		arenaRule(types.ActionMakeVisible, 0, 3, "d", []types.FieldID{1}, []types.FieldID{4}),
		arenaRule(types.ActionOCR, 0, 1, "b", nil, []types.FieldID{2}),
		arenaRule(types.ActionVerify, 0, 1, "b", []types.FieldID{2}, nil),
		arenaRule(types.ActionMakeInvisible, 0, 0, "a", nil, []types.FieldID{1}),
	}

	first, warnFirst, err := Link(all)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	second, warnSecond, err := Link(all)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Link() not deterministic:\nfirst  = %+v\nsecond = %+v", first, second)
	}
	if !reflect.DeepEqual(warnFirst, warnSecond) {
		t.Errorf("warnings not deterministic: %v vs %v", warnFirst, warnSecond)
	}
}

func TestCheckAcyclic_Cycle(t *testing.T) {
	rules := []types.Rule{
		{ID: 1, PostTriggerRuleIDs: []types.RuleID{2}},
		{ID: 2, PostTriggerRuleIDs: []types.RuleID{3}},
		{ID: 3, PostTriggerRuleIDs: []types.RuleID{1}},
	}

	err := checkAcyclic(rules)
	var cycle *types.CycleDetectedError
	if !errors.As(err, &cycle) {
		t.Fatalf("checkAcyclic() error = %v, want CycleDetectedError", err)
	}
	want := []types.RuleID{1, 2, 3, 1}
	if !reflect.DeepEqual(cycle.Path, want) {
		t.Errorf("cycle path = %v, want %v", cycle.Path, want)
	}
}

func TestCheckAcyclic_SelfCycle(t *testing.T) {
	rules := []types.Rule{
		{ID: 1, PostTriggerRuleIDs: []types.RuleID{1}},
	}

	err := checkAcyclic(rules)
	var cycle *types.CycleDetectedError
	if !errors.As(err, &cycle) {
		t.Fatalf("checkAcyclic() error = %v, want CycleDetectedError", err)
	}
}

func TestCheckAcyclic_DanglingReference(t *testing.T) {
	rules := []types.Rule{
		{ID: 1, PostTriggerRuleIDs: []types.RuleID{99}},
	}

	if err := checkAcyclic(rules); !errors.Is(err, types.ErrDanglingRuleReference) {
		t.Errorf("checkAcyclic() error = %v, want ErrDanglingRuleReference", err)
	}
}

func TestCheckAcyclic_ChainTooDeep(t *testing.T) {
	n := types.MaxChainDepth + 2
	rules := make([]types.Rule, n)
	for i := 0; i < n; i++ {
		rules[i] = types.Rule{ID: types.RuleID(i + 1)}
		if i+1 < n {
			rules[i].PostTriggerRuleIDs = []types.RuleID{types.RuleID(i + 2)}
		}
	}

	if err := checkAcyclic(rules); !errors.Is(err, types.ErrChainTooDeep) {
		t.Errorf("checkAcyclic() error = %v, want ErrChainTooDeep", err)
	}
}

func TestCheckAcyclic_ValidChain(t *testing.T) {
	rules := []types.Rule{
		{ID: 1, PostTriggerRuleIDs: []types.RuleID{2, 3}},
		{ID: 2, PostTriggerRuleIDs: []types.RuleID{4}},
		{ID: 3, PostTriggerRuleIDs: []types.RuleID{4}},
		{ID: 4},
	}

	if err := checkAcyclic(rules); err != nil {
		t.Errorf("checkAcyclic() error = %v, want nil (diamond is acyclic)", err)
	}
}

func TestActionPriority_Bands(t *testing.T) {
	if actionPriority(types.ActionOCR) >= actionPriority(types.ActionVerify) {
		t.Error("OCR must order before VERIFY")
	}
	if actionPriority(types.ActionVerify) >= actionPriority(types.ActionMakeVisible) {
		t.Error("VERIFY must order before visibility toggles")
	}
	if actionPriority(types.ActionMakeVisible) >= actionPriority(types.ActionMakeMandatory) {
		t.Error("visibility must order before mandatory toggles")
	}
	if actionPriority(types.ActionMakeMandatory) >= actionPriority(types.ActionCopyTo) {
		t.Error("mandatory toggles must order before the default band")
	}
}
