package artifact

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type celsius float64

func (c celsius) String() string {
	return fmt.Sprintf("%.1f°C", float64(c))
}

func TestFormat_Serialize(t *testing.T) {
	type result struct {
		Sum int `json:"sum"`
	}

	out, err := Format(result{Sum: 2}, KindSerialize)
	require.NoError(t, err)
	assert.Equal(t, `{"sum":2}`, out)

	out, err = Format(1+1, KindSerialize)
	require.NoError(t, err)
	assert.Equal(t, "2", out)
}

func TestFormat_SerializeSortsMapKeys(t *testing.T) {
	out, err := Format(map[string]int{"b": 2, "a": 1}, KindSerialize)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, out)
}

func TestFormat_Debug(t *testing.T) {
	type pair struct {
		A, B int
	}
	out, err := Format(pair{A: 1, B: 2}, KindDebug)
	require.NoError(t, err)
	assert.Equal(t, "artifact.pair{A:1, B:2}", out)
}

func TestFormat_Display(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "hello", "hello"},
		{"stringer", celsius(21.5), "21.5°C"},
		{"error", errors.New("boom"), "boom"},
		{"int", 42, "42"},
		{"float", 2.5, "2.5"},
		{"bool", false, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Format(tt.value, KindDisplay)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestFormat_DisplayRejectsOpaqueValues(t *testing.T) {
	type opaque struct{ N int }

	_, err := Format(opaque{N: 1}, KindDisplay)
	require.Error(t, err)
	assert.True(t, IsFormat(err))

	_, err = Format(nil, KindDisplay)
	require.Error(t, err)
	assert.True(t, IsFormat(err))
}

func TestFormat_SerializeRejectsUnserializable(t *testing.T) {
	_, err := Format(make(chan int), KindSerialize)
	require.Error(t, err)
	assert.True(t, IsFormat(err))
}

func TestFormat_UnknownKind(t *testing.T) {
	_, err := Format(1, Kind("binary"))
	require.Error(t, err)
	assert.True(t, IsFormat(err))
}

func TestFormat_Deterministic(t *testing.T) {
	values := []any{
		map[string]any{"a": 1, "b": []int{1, 2, 3}},
		"plain string",
		3.25,
	}
	kinds := []Kind{KindSerialize, KindDebug}

	for _, v := range values {
		for _, k := range kinds {
			first, err := Format(v, k)
			require.NoError(t, err)
			for i := 0; i < 20; i++ {
				again, err := Format(v, k)
				require.NoError(t, err)
				require.Equal(t, first, again, "kind %s must be deterministic", k)
			}
		}
	}
}

func TestKind_Valid(t *testing.T) {
	assert.True(t, KindSerialize.Valid())
	assert.True(t, KindDebug.Valid())
	assert.True(t, KindDisplay.Valid())
	assert.False(t, Kind("").Valid())
	assert.False(t, Kind("yaml").Valid())
}
