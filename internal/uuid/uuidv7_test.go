package uuid

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsVersion7(t *testing.T) {
	id := New()
	parsed, err := googleuuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, googleuuid.Version(7), parsed.Version())
}

func TestNewIsOrdered(t *testing.T) {
	a := New()
	b := New()
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, a[:13], b[:13])
}

func TestParse(t *testing.T) {
	got, err := Parse("0190A3C2-7B1E-7000-8000-000000000001")
	require.NoError(t, err)
	assert.Equal(t, "0190a3c2-7b1e-7000-8000-000000000001", got)

	_, err = Parse("nope")
	assert.Error(t, err)
	assert.False(t, IsValid("nope"))
	assert.True(t, IsValid(New()))
}
