package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema_StrictObject(t *testing.T) {
	schema := generateSchema[synthesisResponse]()

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])

	properties, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, properties, "title")
	assert.Contains(t, properties, "description")

	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"title", "description"}, required)
}

func TestDecodeModelJSON(t *testing.T) {
	var out synthesisResponse

	require.NoError(t, decodeModelJSON(`{"title":"Маг-Правитель","description":"опис"}`, &out))
	assert.Equal(t, "Маг-Правитель", out.Title)

	// Prose around the object is tolerated.
	out = synthesisResponse{}
	require.NoError(t, decodeModelJSON("Ось результат:\n```json\n{\"title\":\"X\",\"description\":\"Y\"}\n```", &out))
	assert.Equal(t, "X", out.Title)
	assert.Equal(t, "Y", out.Description)

	assert.Error(t, decodeModelJSON("", &out))
	assert.Error(t, decodeModelJSON("no json here", &out))
}
