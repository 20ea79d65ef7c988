package manifest

import (
	"github.com/invopop/jsonschema"
)

// Schema describes Document. Additional properties are allowed since
// unknown keys survive rewrites.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.AllowAdditionalProperties = true
	reflector.DoNotReference = true
	return reflector.Reflect(&Document{})
}
