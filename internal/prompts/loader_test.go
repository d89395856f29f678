package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClassificationPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("classify.json", "thesis-classification")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Text}}")
	assert.Contains(t, prompt, "{{.Source}}")
	assert.Contains(t, prompt, "consumer_cpg")
}

func TestGetMissingKey(t *testing.T) {
	_, err := Get("classify.json", "nonexistent-key")
	assert.Error(t, err)

	_, err = Get("missing.json", "thesis-classification")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	template := "Classify {{.Source}} signal: {{.Text}}"
	result := Format(template, map[string]string{
		"Source": "hn",
		"Text":   "Olipop raises series B",
	})

	assert.Equal(t, "Classify hn signal: Olipop raises series B", result)
	assert.False(t, strings.Contains(result, "{{"))
}

func TestList(t *testing.T) {
	keys, err := List("classify.json")
	require.NoError(t, err)
	assert.Contains(t, keys, "thesis-classification")
}
