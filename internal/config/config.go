package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Backend selects the persistence strategy.
const (
	BackendLocal  = "local"
	BackendMock   = "mock"
	BackendRemote = "remote"
)

// Config is the reminder CLI configuration.
type Config struct {
	// DataDir holds the slot database. Defaults under the user config
	// dir.
	DataDir string `yaml:"data_dir"`

	// Backend is one of "local", "mock", "remote".
	Backend string `yaml:"backend"`

	// ServerAddr is the sync backend address for the remote backend.
	ServerAddr string `yaml:"server_addr"`

	// SpeechCommand is the text-to-speech command line; the text is
	// appended as the last argument.
	SpeechCommand string `yaml:"speech_command"`

	// SummaryCron schedules the spoken daily agenda (cron syntax).
	SummaryCron string `yaml:"summary_cron"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend:       BackendLocal,
		ServerAddr:    "localhost:50051",
		SpeechCommand: "espeak-ng -v zh -s 140",
		SummaryCron:   "0 8 * * *",
	}
}

// DefaultPath resolves the per-user config location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "senior-scheduler", "config.yaml"), nil
}

// ResolveDataDir returns the slot-store directory, creating it if
// needed. An empty configured DataDir falls back beside the config.
func (c *Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "senior-scheduler")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Load reads the config at path, creating it with defaults on first
// run. Unset fields fall back to defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		conf := DefaultConfig()
		if serr := Save(path, conf); serr != nil {
			return nil, serr
		}
		return conf, nil
	}
	if err != nil {
		return nil, err
	}

	conf := DefaultConfig()
	if err := yaml.Unmarshal(raw, conf); err != nil {
		return nil, err
	}
	if conf.Backend == "" {
		conf.Backend = BackendLocal
	}
	return conf, nil
}

// Save writes the config with 0600 permissions, creating parent
// directories as needed.
func Save(path string, conf *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := yaml.Marshal(conf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}
