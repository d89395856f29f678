package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["score", "category"],
	"properties": {
		"score": {"type": "number", "minimum": 0, "maximum": 1},
		"category": {"type": "string"}
	}
}`

func TestValidateJSONString(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"score": 0.7, "category": "consumer_cpg"}`)
	assert.NoError(t, err)
}

func TestValidateJSONStringMissingField(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"score": 0.7}`)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateJSONStringOutOfRange(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"score": 1.5, "category": "other"}`)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestValidateJSONStringBadDocument(t *testing.T) {
	err := ValidateJSONString(testSchema, `{not json}`)
	assert.Error(t, err)
}
