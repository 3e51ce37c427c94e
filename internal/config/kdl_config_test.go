package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searcherrors "github.com/standardbeagle/searcher/internal/errors"
)

func TestParseKDL_Empty(t *testing.T) {
	cfg := Default("/repo")
	require.NoError(t, parseKDLInto(cfg, ""))

	assert.Equal(t, Default("/repo"), cfg)
}

func TestParseKDL_FullConfig(t *testing.T) {
	kdlContent := `
// searcher settings
search {
    color "Auto"
    stats true
}
walk {
    respect_gitignore true
    skip_build_artifacts true
}
include "**/*.go" "**/*.md"
exclude {
    "**/vendor/**"
    "**/testdata/**"
}
`
	cfg := Default("/repo")
	require.NoError(t, parseKDLInto(cfg, kdlContent))

	assert.Equal(t, ColorAuto, cfg.Search.Color)
	assert.True(t, cfg.Search.Stats)
	assert.True(t, cfg.Walk.RespectGitignore)
	assert.True(t, cfg.Walk.SkipBuildArtifacts)
	assert.Equal(t, []string{"**/*.go", "**/*.md"}, cfg.Include)
	assert.Equal(t, []string{"**/vendor/**", "**/testdata/**"}, cfg.Exclude)
}

func TestParseKDL_BoolColor(t *testing.T) {
	cfg := Default("/repo")
	require.NoError(t, parseKDLInto(cfg, "search {\n    color false\n}\n"))
	assert.Equal(t, ColorNever, cfg.Search.Color)

	require.NoError(t, parseKDLInto(cfg, "search {\n    color true\n}\n"))
	assert.Equal(t, ColorAlways, cfg.Search.Color)
}

func TestParseKDL_ExcludesAccumulate(t *testing.T) {
	cfg := Default("/repo")
	cfg.Exclude = []string{"**/node_modules/**"}

	require.NoError(t, parseKDLInto(cfg, `exclude "**/dist/**" "**/node_modules/**"`))

	assert.Equal(t, []string{"**/node_modules/**", "**/dist/**"}, cfg.Exclude)
}

func TestParseKDL_IncludeReplaces(t *testing.T) {
	cfg := Default("/repo")
	cfg.Include = []string{"**/*.txt"}

	require.NoError(t, parseKDLInto(cfg, `include "**/*.go"`))
	assert.Equal(t, []string{"**/*.go"}, cfg.Include)

	// an include node without values keeps what was there
	require.NoError(t, parseKDLInto(cfg, `include`))
	assert.Equal(t, []string{"**/*.go"}, cfg.Include)
}

func TestParseKDL_UnknownNodesIgnored(t *testing.T) {
	cfg := Default("/repo")
	require.NoError(t, parseKDLInto(cfg, "index {\n    max_file_size \"10MB\"\n}\n"))

	assert.Equal(t, Default("/repo"), cfg)
}

func TestParseKDL_Malformed(t *testing.T) {
	cfg := Default("/repo")
	err := parseKDLInto(cfg, "search {\n    color \"auto\"\n")
	assert.Error(t, err)
}

func TestLoadKDLInto_MissingFile(t *testing.T) {
	cfg := Default("/repo")
	loaded, err := LoadKDLInto(cfg, filepath.Join(t.TempDir(), FileName))

	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, Default("/repo"), cfg)
}

func TestLoadKDLInto_ParseErrorIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("walk {"), 0644))

	loaded, err := LoadKDLInto(Default("/repo"), path)

	assert.False(t, loaded)
	var cfgErr *searcherrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "file", cfgErr.Field)
	assert.Equal(t, path, cfgErr.Value)
}
