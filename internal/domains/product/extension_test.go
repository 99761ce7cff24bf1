package product

import (
	"testing"

	"augustlab-backend/internal/infrastructure/filestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryTypes(t *testing.T) {
	r := DefaultRegistry()

	for _, typ := range []string{TypeStatic, TypeSPA, TypeGame, TypeTool} {
		ext, err := r.Get(typ)
		require.NoError(t, err, typ)
		assert.NotEmpty(t, ext.EntryFiles(), typ)
	}
	assert.Len(t, r.Types(), 4)
}

func TestRegistryUnknownType(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.Get("vr-experience")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestRegistryRegisterOverrides(t *testing.T) {
	r := DefaultRegistry()
	custom := &baseExtension{entryFiles: []string{"start.html"}}
	r.Register(TypeGame, custom)

	ext, err := r.Get(TypeGame)
	require.NoError(t, err)
	assert.Equal(t, []string{"start.html"}, ext.EntryFiles())
}

func TestBaseExtensionValidate(t *testing.T) {
	ext := &baseExtension{entryFiles: []string{"tool.html", "index.html"}}

	err := ext.Validate([]filestore.FileInfo{
		{Path: "assets/app.js"},
		{Path: "index.html"},
	})
	assert.NoError(t, err)

	err = ext.Validate([]filestore.FileInfo{
		{Path: "assets/app.js"},
		{Path: "sub/index.html"},
	})
	assert.Error(t, err)

	assert.Error(t, ext.Validate(nil))
}

func TestBaseExtensionProcess(t *testing.T) {
	ext := &baseExtension{entryFiles: []string{"index.html"}}

	paths := ext.Process([]filestore.FileInfo{
		{Path: "index.html", Size: 10},
		{Path: "style.css", Size: 20},
	})
	assert.Equal(t, []string{"index.html", "style.css"}, paths)
	assert.Empty(t, ext.Process(nil))
}

func TestLaunchConfigMergePrecedence(t *testing.T) {
	ext := &baseExtension{launch: map[string]any{"mode": "iframe", "history_fallback": true}}

	t.Run("stored config wins over defaults", func(t *testing.T) {
		merged := ext.LaunchConfig(map[string]any{"mode": "fullscreen", "theme": "dark"})
		assert.Equal(t, "fullscreen", merged["mode"])
		assert.Equal(t, true, merged["history_fallback"])
		assert.Equal(t, "dark", merged["theme"])
	})

	t.Run("nil config yields defaults", func(t *testing.T) {
		merged := ext.LaunchConfig(nil)
		assert.Equal(t, "iframe", merged["mode"])
	})

	t.Run("defaults are not mutated", func(t *testing.T) {
		_ = ext.LaunchConfig(map[string]any{"mode": "fullscreen"})
		assert.Equal(t, "iframe", ext.launch["mode"])
	})
}
