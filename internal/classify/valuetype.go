package classify

import (
	"strconv"
	"strings"
	"time"

	"github.com/solatis/formforge/internal/types"
)

/*
 * Condition value typing.
 *
 * Downstream rule evaluation coerces the source value before comparing it
 * against conditionalValues, so every conditional rule must declare a
 * value type. Inference is strict-to-lenient: NUMBER only when every value
 * parses as a number, DATE only when every value parses in a known date
 * layout, TEXT otherwise. Mixed lists fall back to TEXT rather than fail -
 * a lenient default mirrors how the form engine compares strings.
 */

// dateLayouts are the formats BUD authors actually use in logic cells.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// InferValueType classifies conditional values as NUMBER, DATE or TEXT.
// An empty list is TEXT: there is nothing to coerce.
func InferValueType(values []string) types.ConditionValueType {
	if len(values) == 0 {
		return types.ValueTypeText
	}

	allNumber := true
	for _, v := range values {
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			allNumber = false
			break
		}
	}
	if allNumber {
		return types.ValueTypeNumber
	}

	allDate := true
	for _, v := range values {
		if !parsesAsDate(strings.TrimSpace(v)) {
			allDate = false
			break
		}
	}
	if allDate {
		return types.ValueTypeDate
	}

	return types.ValueTypeText
}

func parsesAsDate(v string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}
