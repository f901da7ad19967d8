package ai

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// generateSchema reflects T into a strict JSON schema accepted by the
// structured-output API: closed objects, every property required.
func generateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}

	tightenSchema(m)
	return m
}

func tightenSchema(schema map[string]interface{}) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false

		if properties, ok := schema["properties"].(map[string]interface{}); ok {
			var required []string
			for name := range properties {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}

	if properties, ok := schema["properties"].(map[string]interface{}); ok {
		for _, prop := range properties {
			if m, ok := prop.(map[string]interface{}); ok {
				tightenSchema(m)
			}
		}
	}
	if items, ok := schema["items"].(map[string]interface{}); ok {
		tightenSchema(items)
	}
}
