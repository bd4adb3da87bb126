package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_BareObject(t *testing.T) {
	got, err := ExtractJSON(`{"themes": ["Partition"]}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"themes": ["Partition"]}`, got)
}

func TestExtractJSON_MarkdownFence(t *testing.T) {
	response := "Here is the extraction:\n```json\n{\"summary\": \"a life\"}\n```\nLet me know if you need more."
	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary": "a life"}`, got)
}

func TestExtractJSON_ThinkTags(t *testing.T) {
	response := "<think>\nThe user wants structured data...\n</think>\n{\"themes\": []}"
	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"themes": []}`, got)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	response := `{"summary": "he said \"go {west}\" and left"}`
	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, response, got)
}

func TestExtractJSON_Array(t *testing.T) {
	got, err := ExtractJSON("The themes are:\n[\"Partition\", \"Migration\"]")
	require.NoError(t, err)
	assert.JSONEq(t, `["Partition", "Migration"]`, got)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I could not find any structured data in the transcript.")
	assert.Error(t, err)
}

func TestExtractJSON_UnbalancedObject(t *testing.T) {
	_, err := ExtractJSON(`{"summary": "truncated`)
	assert.Error(t, err)
}
