package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lk2023060901/internet-data-toolkit/internal/pkg/errors"
)

func TestDecodeInput(t *testing.T) {
	var in searchInput
	require.NoError(t, decodeInput("   ", &in))
	assert.Nil(t, in.Limit)

	require.NoError(t, decodeInput(`{"query":"go","limit":3,"extra":true}`, &in))
	assert.Equal(t, "go", in.Query)
	assert.Equal(t, 3, *in.Limit)

	err := decodeInput(`{"query":`, &in)
	assert.True(t, apperrors.Is(err, apperrors.ErrToolInvalidInput))

	err = decodeInput(`{"limit":"five"}`, &in)
	assert.True(t, apperrors.Is(err, apperrors.ErrToolInvalidInput))
}

func TestJSONEncoding(t *testing.T) {
	v := searchFailure{Error: "a <b> & c", Query: "café"}

	assert.Equal(t, "{\n \"error\": \"a <b> & c\",\n \"query\": \"café\"\n}", jsonIndent(v))
	assert.Equal(t, `{"error":"a <b> & c","query":"café"}`, jsonCompact(v))
}
