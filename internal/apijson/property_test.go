package apijson

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyReturnsNestedObject(t *testing.T) {
	doc := map[string]any{"Value": map[string]any{"GCPeriod": "1h"}}

	v, err := Property[map[string]any](doc, "Value", 0)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"GCPeriod": "1h"}, v)
}

func TestPropertyMissingFieldNamesTheField(t *testing.T) {
	doc := map[string]any{"Value": map[string]any{"GCPeriod": "1h"}}

	_, err := Property[map[string]any](doc, "Other", 7)
	require.Error(t, err)

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Other", missing.Field)
	assert.Equal(t, 7, missing.Line)
	assert.Contains(t, missing.Doc, "GCPeriod", "error carries the serialized document")
}

func TestPropertyTypeMismatch(t *testing.T) {
	doc := map[string]any{"Name": map[string]any{}}

	_, err := Property[string](doc, "Name", 0)
	require.Error(t, err)

	var typeErr *FieldTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "Name", typeErr.Field)
}

func TestParseDocumentSyntaxErrorCarriesInput(t *testing.T) {
	_, err := ParseDocument([]byte("{broken"))
	require.Error(t, err)

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, "{broken", syntaxErr.Input)
}

func TestParseObjectRejectsNonObject(t *testing.T) {
	_, err := ParseObject([]byte("[1,2,3]"))
	require.Error(t, err)

	var typeErr *FieldTypeError
	assert.True(t, errors.As(err, &typeErr))
}
