package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringArg(t *testing.T) {
	t.Parallel()

	args := map[string]interface{}{
		"root":  "/repo",
		"count": 3.0,
		"empty": "",
	}

	t.Run("present", func(t *testing.T) {
		val, err := parseStringArg(args, "root", true)
		require.NoError(t, err)
		assert.Equal(t, "/repo", val)
	})

	t.Run("missing required", func(t *testing.T) {
		_, err := parseStringArg(args, "nope", true)
		assert.Error(t, err)
	})

	t.Run("missing optional", func(t *testing.T) {
		val, err := parseStringArg(args, "nope", false)
		require.NoError(t, err)
		assert.Empty(t, val)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := parseStringArg(args, "count", false)
		assert.Error(t, err)
	})

	t.Run("empty required", func(t *testing.T) {
		_, err := parseStringArg(args, "empty", true)
		assert.Error(t, err)
	})
}

func TestParseClampedInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args map[string]interface{}
		want int
	}{
		{"missing uses default", map[string]interface{}{}, 20},
		{"in range", map[string]interface{}{"limit": 7.0}, 7},
		{"below min clamps", map[string]interface{}{"limit": 0.0}, 1},
		{"above max clamps", map[string]interface{}{"limit": 500.0}, 100},
		{"wrong type uses default", map[string]interface{}{"limit": "ten"}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseClampedInt(tt.args, "limit", 20, 1, 100))
		})
	}
}
