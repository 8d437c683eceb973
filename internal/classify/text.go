package classify

import (
	"strings"

	"github.com/solatis/formforge/internal/types"
)

/*
 * Text scanning helpers.
 *
 * All scans operate on the lower-cased cell text and are position-aware
 * where ordering matters (earliest peer mention wins) so that repeated
 * runs over the same cell are deterministic.
 */

// containsAny reports whether text contains any of the keywords.
func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// conditionalMarkers are the phrases that turn an action into a
// conditional rule.
var conditionalMarkers = []string{
	"true if", "if selected", " if ", "when ", " when", "depends on", "based on",
}

// hasConditionalMarker reports whether the cell describes a conditional
// action rather than an unconditional default.
func hasConditionalMarker(lower string) bool {
	if strings.HasPrefix(lower, "if ") {
		return true
	}
	return containsAny(lower, conditionalMarkers...)
}

// conditionClause returns the text from the conditional marker onward,
// which is where source fields and comparison values are named.
func conditionClause(text string) string {
	lower := strings.ToLower(text)
	best := -1
	markers := append([]string{"if "}, conditionalMarkers...)
	for _, m := range markers {
		if idx := strings.Index(lower, m); idx >= 0 && (best == -1 || idx < best) {
			best = idx
		}
	}
	if best == -1 {
		return text
	}
	return strings.TrimSpace(text[best:])
}

// quotedValues extracts single- or double-quoted tokens in order of
// appearance. These are the comparison values of a conditional rule.
func quotedValues(text string) []string {
	var values []string
	var quote byte
	start := -1
	for i := 0; i < len(text); i++ {
		c := text[i]
		if start == -1 {
			if c == '\'' || c == '"' {
				quote = c
				start = i + 1
			}
			continue
		}
		if c == quote {
			v := strings.TrimSpace(text[start:i])
			if v != "" {
				values = append(values, v)
			}
			start = -1
		}
	}
	return values
}

// peerMention finds same-panel fields named in text, earliest mention
// first. Matches variable names, display labels, and intra-panel reference
// labels, excluding the origin field itself.
func peerMention(c *scanCtx, text string) []*types.Field {
	lower := strings.ToLower(text)

	type hit struct {
		pos   int
		field *types.Field
	}
	var hits []hit
	seen := make(map[types.FieldID]bool)

	record := func(pos int, f *types.Field) {
		if f == nil || f.ID == c.in.Field.ID || seen[f.ID] {
			return
		}
		seen[f.ID] = true
		hits = append(hits, hit{pos: pos, field: f})
	}

	// Intra-panel reference labels take precedence: the BUD author chose
	// them explicitly.
	for label, varName := range c.in.Refs {
		if pos := indexToken(lower, strings.ToLower(label)); pos >= 0 {
			record(pos, peerByName(c, varName))
		}
	}

	for _, peer := range c.in.Peers {
		if pos := indexToken(lower, strings.ToLower(peer.VariableName)); pos >= 0 {
			record(pos, peer)
			continue
		}
		if peer.Label != "" {
			if pos := indexToken(lower, strings.ToLower(peer.Label)); pos >= 0 {
				record(pos, peer)
			}
		}
	}

	// Insertion order above is map-dependent for Refs; sort by position,
	// then variable name, for a stable result.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0; j-- {
			a, b := hits[j-1], hits[j]
			if b.pos < a.pos || (b.pos == a.pos && b.field.VariableName < a.field.VariableName) {
				hits[j-1], hits[j] = b, a
			} else {
				break
			}
		}
	}

	fields := make([]*types.Field, len(hits))
	for i, h := range hits {
		fields[i] = h.field
	}
	return fields
}

// peerByName finds a peer by exact variable name.
func peerByName(c *scanCtx, name string) *types.Field {
	for _, peer := range c.in.Peers {
		if peer.VariableName == name {
			return peer
		}
	}
	return nil
}

// indexToken finds needle in haystack at a token boundary. Plain
// strings.Index would match "id" inside "valid".
func indexToken(haystack, needle string) int {
	if needle == "" {
		return -1
	}
	from := 0
	for {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return -1
		}
		idx += from
		before := idx == 0 || isBoundary(haystack[idx-1])
		end := idx + len(needle)
		after := end == len(haystack) || isBoundary(haystack[end])
		if before && after {
			return idx
		}
		from = idx + 1
	}
}

func isBoundary(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return false
	case c >= 'A' && c <= 'Z':
		return false
	case c >= '0' && c <= '9':
		return false
	case c == '_':
		return false
	}
	return true
}

// tableIdentifier extracts a lookup-table name: the first token written in
// ALL_CAPS with at least one underscore (the BUD convention for master
// table names, e.g. IFSC_MASTER).
func tableIdentifier(text string) string {
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z') && !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '_'
	}) {
		if !strings.Contains(tok, "_") {
			continue
		}
		upper := true
		for _, r := range tok {
			if r >= 'a' && r <= 'z' {
				upper = false
				break
			}
		}
		if upper {
			return tok
		}
	}
	return ""
}

// names converts fields to their variable names.
func names(fields []*types.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.VariableName
	}
	return out
}
