package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Stringify renders a record value the way the UI does before a text
// comparison. Nil reads as the empty string; everything else goes through
// the default formatting.
func Stringify(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

// Coerce converts a record value to a number using Brazilian decimal-comma
// semantics: every character that is not a digit or comma is stripped, the
// first comma becomes the decimal separator, and the longest leading numeric
// run is parsed. Anything unparseable is 0. "R$ 5.400,00" coerces to 5400.
// This is intentionally locale-specific and must stay bit-compatible with
// stored filters.
func Coerce(value any) float64 {
	return CoerceString(Stringify(value))
}

// CoerceString is Coerce for an already-stringified value.
func CoerceString(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Replace(b.String(), ",", ".", 1)

	// Longest valid numeric prefix: digits, at most one decimal point.
	end := 0
	seenDot := false
	for i := 0; i < len(cleaned); i++ {
		c := cleaned[i]
		if c >= '0' && c <= '9' {
			end = i + 1
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			continue
		}
		break
	}
	cleaned = cleaned[:end]
	if cleaned == "" || cleaned == "." {
		return 0
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}
