package translator

// ============================================================================
// RESPONSE PARSER — Locates JSON in model output
// ============================================================================
// Models wrap JSON in prose, markdown fences, or both. Instead of trusting
// the whole body, the parser finds the first balanced {...} span and hands
// only that to the JSON decoder.
// ============================================================================

// ExtractJSONObject returns the first balanced JSON object span in s.
// String literals and escapes are respected so braces inside values do not
// unbalance the scan. ok is false when no complete object exists.
func ExtractJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue // stray close before any open
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
