// Package filter evaluates saved filters (nested AND/OR rule blocks)
// against catalog records. Evaluation is pure structural recursion and never
// fails: unknown fields fall back to the text operator family, unknown
// operators are vacuously satisfied, both logged as unexpected.
package filter

import (
	"log"
	"strings"

	"github.com/acervohq/acervo/internal/schema"
	"github.com/acervohq/acervo/internal/types"
)

// Evaluate reports whether record matches the saved filter, using the field
// bank in s to pick the operator family per rule.
func Evaluate(f types.SavedFilter, record types.Record, s types.Schema) bool {
	return combine(f.GlobalLogic, len(f.Blocks), func(i int) bool {
		return evalBlock(f.Blocks[i], record, s)
	})
}

func evalBlock(b types.FilterBlock, record types.Record, s types.Schema) bool {
	return combine(b.Logic, len(b.Rules), func(i int) bool {
		return evalRule(b.Rules[i], record, s)
	})
}

// combine applies every/some semantics: AND over zero items is vacuously
// true, OR over zero items is false.
func combine(logic types.Logic, n int, item func(int) bool) bool {
	if logic == types.LogicOr {
		for i := 0; i < n; i++ {
			if item(i) {
				return true
			}
		}
		return false
	}
	for i := 0; i < n; i++ {
		if !item(i) {
			return false
		}
	}
	return true
}

func evalRule(rule types.FilterRule, record types.Record, s types.Schema) bool {
	value := record.Data[rule.FieldID]

	// Emptiness applies uniformly, before any type dispatch.
	switch rule.Operator {
	case "is_empty":
		return IsEmpty(value)
	case "is_not_empty":
		return !IsEmpty(value)
	}

	def, found := schema.FieldByID(s, rule.FieldID)
	if !found {
		log.Printf("filter: rule references unknown field %q, using text operators", rule.FieldID)
	}
	if found && def.Type.IsNumeric() {
		return evalNumeric(rule, value)
	}
	return evalText(rule, value)
}

func evalText(rule types.FilterRule, value any) bool {
	have := strings.ToLower(Stringify(value))
	want := strings.ToLower(rule.Value)

	switch rule.Operator {
	case "equals":
		return have == want
	case "not_equals":
		return have != want
	case "contains":
		return strings.Contains(have, want)
	case "not_contains":
		return !strings.Contains(have, want)
	case "starts":
		return strings.HasPrefix(have, want)
	case "ends":
		return strings.HasSuffix(have, want)
	}
	log.Printf("filter: unknown text operator %q, rule passes", rule.Operator)
	return true
}

func evalNumeric(rule types.FilterRule, value any) bool {
	have := Coerce(value)

	switch rule.Operator {
	case "equals":
		return have == CoerceString(rule.Value)
	case "not_equals":
		return have != CoerceString(rule.Value)
	case "greater_than":
		return have > CoerceString(rule.Value)
	case "greater_equal":
		return have >= CoerceString(rule.Value)
	case "less_than":
		return have < CoerceString(rule.Value)
	case "less_equal":
		return have <= CoerceString(rule.Value)
	case "between":
		return have >= CoerceString(rule.Value) && have <= CoerceString(rule.Value2)
	}
	log.Printf("filter: unknown numeric operator %q, rule passes", rule.Operator)
	return true
}

// IsEmpty reports whether a record value counts as empty: nil, the empty
// string, or a zero-length array.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	}
	return false
}
