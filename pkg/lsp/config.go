package lsp

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/cooklsp/pkg/completion"
	"gitlab.com/tozd/go/errors"
)

const configFileName = "cooklsp.toml"

// Config is the optional workspace configuration read from cooklsp.toml
// at the workspace root. It only extends the static completion
// dictionaries; everything else is built in.
type Config struct {
	Completion CompletionConfig `toml:"completion"`
}

type CompletionConfig struct {
	// ExtraUnits maps unit abbreviations to their spelled-out names,
	// e.g. sprig = "sprig".
	ExtraUnits map[string]string `toml:"extra_units"`
	// ExtraCookware lists additional cookware suggestions.
	ExtraCookware []string `toml:"extra_cookware"`
}

// LoadConfig reads cooklsp.toml under rootDir. A missing file yields an
// empty config; a malformed one is an error so the user hears about it.
func LoadConfig(fs afero.Fs, rootDir string) (*Config, error) {
	path := filepath.Join(rootDir, configFileName)

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Dictionaries extends the built-in completion dictionaries with the
// configured extras.
func (c *Config) Dictionaries() *completion.Dictionaries {
	base := completion.DefaultDictionaries()
	if c == nil {
		return base
	}

	var units []completion.UnitEntry
	for short, long := range c.Completion.ExtraUnits {
		units = append(units, completion.UnitEntry{Short: short, Long: long})
	}
	if len(units) == 0 && len(c.Completion.ExtraCookware) == 0 {
		return base
	}
	return base.Extend(units, c.Completion.ExtraCookware)
}

// loadWorkspaceConfig resolves config for a workspace root, logging and
// falling back to defaults on failure so a bad config never takes the
// server down.
func loadWorkspaceConfig(ctx context.Context, fs afero.Fs, rootDir string) *Config {
	if rootDir == "" {
		return &Config{}
	}
	cfg, err := LoadConfig(fs, rootDir)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("root", rootDir).Msg("workspace config ignored")
		return &Config{}
	}
	return cfg
}
