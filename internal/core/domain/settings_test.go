package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_EncodeEmpty(t *testing.T) {
	for name, s := range map[string]Settings{
		"nil map":   NewSettings(nil),
		"empty map": NewSettings(map[string]any{}),
		"zero":      {},
	} {
		t.Run(name, func(t *testing.T) {
			b, err := s.Encode()
			require.NoError(t, err)
			assert.Equal(t, "{}", string(b))
		})
	}
}

func TestSettings_EncodeValues(t *testing.T) {
	s := NewSettings(map[string]any{
		"env":  "production",
		"port": 8080,
		"db":   map[string]any{"hosts": []any{"a", "b"}},
	})

	b, err := s.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"env":"production","port":8080,"db":{"hosts":["a","b"]}}`, string(b))
}

func TestSettings_EncodeKeepsHTML(t *testing.T) {
	s := NewSettings(map[string]any{"banner": "<b>a & b</b>"})

	b, err := s.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"banner":"<b>a & b</b>"}`, string(b))
}

func TestSettings_EncodeFailures(t *testing.T) {
	cyclic := map[string]any{}
	cyclic["self"] = cyclic

	cases := map[string]map[string]any{
		"function": {"hook": func() {}},
		"channel":  {"ch": make(chan int)},
		"nan":      {"ratio": math.NaN()},
		"cycle":    cyclic,
	}

	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			b, err := NewSettings(values).Encode()
			assert.Nil(t, b)

			var serr *SerializationError
			require.True(t, errors.As(err, &serr))
			assert.Error(t, serr.Unwrap())
			assert.Contains(t, err.Error(), "serialize settings")
		})
	}
}

func TestSettings_Accessors(t *testing.T) {
	s := NewSettings(map[string]any{"b": 2, "a": 1})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.Keys())

	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}
