package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Board   BoardConfig   `toml:"board"`
	Data    DataConfig    `toml:"data"`
	Archive ArchiveConfig `toml:"archive"`
	Prune   PruneConfig   `toml:"prune"`
	REPL    REPLConfig    `toml:"repl"`
	Logging LoggingConfig `toml:"logging"`
	Theme   ThemeConfig   `toml:"theme"`
}

type BoardConfig struct {
	Width int `toml:"width"` // 0 = detect terminal width
}

type DataConfig struct {
	Path string `toml:"path"`
}

type ArchiveConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // empty = archive.db next to the data file
}

type PruneConfig struct {
	MaxDoneAgeDays int `toml:"max_done_age_days"` // 0 disables pruning
}

type REPLConfig struct {
	AltScreen bool `toml:"alt_screen"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type ThemeConfig struct {
	Primary    string `toml:"primary"`
	Todo       string `toml:"todo"`
	InProgress string `toml:"in_progress"`
	Done       string `toml:"done"`
}

func Default(dataPath string) Config {
	return Config{
		Board: BoardConfig{
			Width: 0,
		},
		Data: DataConfig{
			Path: dataPath,
		},
		Archive: ArchiveConfig{
			Enabled: true,
			Path:    "",
		},
		Prune: PruneConfig{
			MaxDoneAgeDays: 7,
		},
		REPL: REPLConfig{
			AltScreen: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".kanbo/log",
			},
		},
		Theme: ThemeConfig{},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Data.Path) == "" {
		return errors.New("data path is required")
	}
	if c.Board.Width < 0 {
		return fmt.Errorf("board.width must be >= 0, got %d", c.Board.Width)
	}
	if c.Prune.MaxDoneAgeDays < 0 {
		return fmt.Errorf("prune.max_done_age_days must be >= 0, got %d", c.Prune.MaxDoneAgeDays)
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when the dev file sink is enabled")
	}

	for _, entry := range []struct {
		key   string
		value string
	}{
		{"theme.primary", c.Theme.Primary},
		{"theme.todo", c.Theme.Todo},
		{"theme.in_progress", c.Theme.InProgress},
		{"theme.done", c.Theme.Done},
	} {
		if entry.value == "" {
			continue
		}
		if !validHex(entry.value) {
			return fmt.Errorf("invalid %s: %q (want six hex digits)", entry.key, entry.value)
		}
	}

	return nil
}

func validHex(raw string) bool {
	hex := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(hex) != 6 {
		return false
	}
	for _, r := range hex {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
