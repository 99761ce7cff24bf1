package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalListNilBecomesEmptyArray(t *testing.T) {
	data, err := MarshalList(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestUnmarshalListNullBecomesEmptyList(t *testing.T) {
	for _, input := range [][]byte{nil, {}, []byte("null")} {
		out, err := UnmarshalList(input)
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	}
}

func TestListRoundTrip(t *testing.T) {
	in := []string{"go", "postgres", "redis"}
	data, err := MarshalList(in)
	require.NoError(t, err)
	out, err := UnmarshalList(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestUnmarshalListRejectsMalformed(t *testing.T) {
	_, err := UnmarshalList([]byte(`{"not":"a list"}`))
	assert.Error(t, err)
}

func TestMarshalValueNilBecomesEmptyObject(t *testing.T) {
	data, err := MarshalValue(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestUnmarshalMapNullBecomesEmptyMap(t *testing.T) {
	for _, input := range [][]byte{nil, []byte("null")} {
		out, err := UnmarshalMap(input)
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	}
}

func TestUnmarshalSliceNullBecomesEmpty(t *testing.T) {
	type skill struct {
		Name  string `json:"name"`
		Level int    `json:"level"`
	}
	var skills []skill
	require.NoError(t, UnmarshalSlice([]byte("null"), &skills))
	assert.Empty(t, skills)

	require.NoError(t, UnmarshalSlice([]byte(`[{"name":"go","level":90}]`), &skills))
	require.Len(t, skills, 1)
	assert.Equal(t, "go", skills[0].Name)
}
