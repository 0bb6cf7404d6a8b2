package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/acervohq/acervo/internal/types"
)

// The system-field catalog is declared in CUE so the list stays versioned
// data with its constraints attached, not Go literals.
//
//go:embed system_fields.cue
var systemFieldsCUE string

var (
	systemOnce   sync.Once
	systemFields []types.FieldDefinition
)

// SystemFields returns the mandatory field definitions, decoded from the
// embedded catalog on first use. The catalog is a build artifact; a catalog
// that fails to compile is a programming error, so this panics rather than
// limping along with an empty list.
func SystemFields() []types.FieldDefinition {
	systemOnce.Do(func() {
		defs, err := decodeSystemFields()
		if err != nil {
			panic(fmt.Sprintf("schema: invalid system field catalog: %v", err))
		}
		systemFields = defs
	})
	out := make([]types.FieldDefinition, len(systemFields))
	copy(out, systemFields)
	return out
}

func decodeSystemFields() ([]types.FieldDefinition, error) {
	ctx := cuecontext.New()
	val := ctx.CompileString(systemFieldsCUE, cue.Filename("system_fields.cue"))
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("compiling catalog: %w", err)
	}
	if err := val.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}

	var defs []types.FieldDefinition
	if err := val.LookupPath(cue.ParsePath("fields")).Decode(&defs); err != nil {
		return nil, fmt.Errorf("decoding fields: %w", err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("catalog has no fields")
	}
	return defs, nil
}

// CatalogVersion reports the version of the embedded system-field catalog.
func CatalogVersion() int {
	ctx := cuecontext.New()
	val := ctx.CompileString(systemFieldsCUE, cue.Filename("system_fields.cue"))
	v, err := val.LookupPath(cue.ParsePath("version")).Int64()
	if err != nil {
		return 0
	}
	return int(v)
}
