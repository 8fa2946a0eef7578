package egress

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the store configuration file, looked up and
// bootstrapped in the store root.
const ConfigFile = "egress.yaml"

// DefaultArtifactDir is where artifact files live, relative to the root.
const DefaultArtifactDir = "egress/artifacts"

// Config locates the artifact store for a session. It is passed
// explicitly into Open rather than living in process-global state, so
// tests can point sessions at temporary stores.
type Config struct {
	// Root is the directory holding egress.yaml and the artifact tree.
	// Typically the repository or package root. Not persisted.
	Root string `yaml:"-"`

	// ArtifactDir is the artifact tree location relative to Root.
	ArtifactDir string `yaml:"artifact_dir"`

	// DisableHistory turns off the acceptance/run ledger.
	DisableHistory bool `yaml:"disable_history,omitempty"`
}

// DefaultConfig returns the configuration used when no egress.yaml
// exists yet.
func DefaultConfig(root string) Config {
	return Config{
		Root:        root,
		ArtifactDir: DefaultArtifactDir,
	}
}

// ResolveConfig reads egress.yaml from the given root, creating it with
// defaults on first use so a repository can adopt the engine with zero
// setup.
func ResolveConfig(root string) (Config, error) {
	path := filepath.Join(root, ConfigFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig(root)
		if err := writeConfig(path, cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Config{Root: root}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Root = root
	if cfg.ArtifactDir == "" {
		cfg.ArtifactDir = DefaultArtifactDir
	}
	return cfg, nil
}

// StoreDir returns the resolved artifact store directory.
func (c Config) StoreDir() string {
	return filepath.Join(c.Root, filepath.FromSlash(c.ArtifactDir))
}

func writeConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
