package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReadDataArgs(t *testing.T) {
	query, err := DecodeReadDataArgs(`{"query": "SELECT 1"}`)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", query)
}

func TestDecodeReadDataArgsInvalidJSON(t *testing.T) {
	_, err := DecodeReadDataArgs(`{"query": `)
	require.Error(t, err)
}

func TestDecodeReadDataArgsMissingQuery(t *testing.T) {
	_, err := DecodeReadDataArgs(`{"sql": "SELECT 1"}`)
	require.Error(t, err)
}

func TestSpecsNameTheAdvertisedTools(t *testing.T) {
	assert.Equal(t, GetSchema, GetSchemaSpec().Function.Name)
	assert.Equal(t, ReadData, ReadDataSpec().Function.Name)
}
