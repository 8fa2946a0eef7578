package egress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfig_BootstrapsOnFirstUse(t *testing.T) {
	root := t.TempDir()

	cfg, err := ResolveConfig(root)
	require.NoError(t, err)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, DefaultArtifactDir, cfg.ArtifactDir)

	// The config file now exists and resolves identically.
	_, err = os.Stat(filepath.Join(root, ConfigFile))
	require.NoError(t, err)

	again, err := ResolveConfig(root)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestResolveConfig_ReadsExistingFile(t *testing.T) {
	root := t.TempDir()
	content := "artifact_dir: snapshots/store\ndisable_history: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0o644))

	cfg, err := ResolveConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "snapshots/store", cfg.ArtifactDir)
	assert.True(t, cfg.DisableHistory)
	assert.Equal(t, filepath.Join(root, "snapshots", "store"), cfg.StoreDir())
}

func TestResolveConfig_EmptyArtifactDirFallsBack(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte("{}\n"), 0o644))

	cfg, err := ResolveConfig(root)
	require.NoError(t, err)
	assert.Equal(t, DefaultArtifactDir, cfg.ArtifactDir)
}

func TestResolveConfig_RejectsMalformedYAML(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte(":\n\t- nope"), 0o644))

	_, err := ResolveConfig(root)
	require.Error(t, err)
}
