package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"forumhub/internal/app"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forum.log")

	l, err := Init(app.LoggingConfig{Level: "debug", Filename: path, MaxSize: 1})
	require.NoError(t, err)
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	l.Info("forum created", zap.String("slug", "general"))
	require.NoError(t, l.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"forum created"`)
	assert.Contains(t, string(b), `"slug":"general"`)
	assert.Same(t, l, zap.L())
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	_, err := Init(app.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}
