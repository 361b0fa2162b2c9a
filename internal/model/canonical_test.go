package model

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalScalars(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"string", "hello", `"hello"`},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"int slice", []int{3, 1, 2}, "[3,1,2]"},
		{"string slice", []string{"b", "a"}, `["b","a"]`},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"zebra":  1,
		"apple":  2,
		"mango":  3,
		"Banana": 4,
	})
	require.NoError(t, err)

	// Uppercase sorts before lowercase in UTF-16 code units.
	assert.Equal(t, `{"Banana":4,"apple":2,"mango":3,"zebra":1}`, string(got))
}

func TestMarshalCanonicalSortsKeysByUTF16(t *testing.T) {
	// U+1D11E is the surrogate pair D834 DD1E in UTF-16, which sorts
	// before U+FFFD. A UTF-8 byte sort would order them the other way.
	got, err := MarshalCanonical(map[string]any{
		"\uFFFD":     1,
		"\U0001D11E": 2,
	})
	require.NoError(t, err)

	clef := bytes.Index(got, []byte("\U0001D11E"))
	replacement := bytes.Index(got, []byte("\uFFFD"))
	require.NotEqual(t, -1, clef)
	require.NotEqual(t, -1, replacement)
	assert.Less(t, clef, replacement)
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(got))
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// e + combining acute accent normalizes to the precomposed form.
	decomposed := "e\u0301"
	precomposed := "\u00e9"

	got1, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	got2, err := MarshalCanonical(precomposed)
	require.NoError(t, err)

	assert.Equal(t, got2, got1)
}

func TestMarshalCanonicalRejectsForbiddenValues(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"null", nil},
		{"float64", 3.14},
		{"float32", float32(1.5)},
		{"nested null", map[string]any{"a": nil}},
		{"nested float", []any{1.0}},
		{"unsupported type", struct{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestMarshalCanonicalNested(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"b": []any{map[string]any{"y": 1, "x": 2}},
		"a": "v",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"v","b":[{"x":2,"y":1}]}`, string(got))
}

func TestMarshalCanonicalDeterministic(t *testing.T) {
	obj := map[string]any{
		"input":  "A",
		"output": "B",
		"seq":    int64(1),
		"steps":  []int{16, 4, 21},
	}

	first, err := MarshalCanonical(obj)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := MarshalCanonical(obj)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
