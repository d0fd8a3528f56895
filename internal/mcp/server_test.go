package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavierFrauca/mcp-code-manager/internal/config"
)

func TestNewServer(t *testing.T) {
	t.Parallel()

	t.Run("nil config uses defaults", func(t *testing.T) {
		srv, err := NewServer(nil, "test")
		require.NoError(t, err)
		defer srv.Close()
		assert.NotNil(t, srv.engine)
		assert.NotNil(t, srv.mcp)
	})

	t.Run("cache disabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Enabled = false
		srv, err := NewServer(cfg, "test")
		require.NoError(t, err)
		require.NoError(t, srv.Close())
	})
}
