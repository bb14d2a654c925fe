package loader

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Settings holds engine-level operational parameters that live outside any
// one journey's authored YAML: a PIPELINE/ITERATE recursion depth, a
// compiled step-artifact cache size, and a default log level. These values
// are only decoded here; the compiler, the evaluator and the CLI do not read
// them, so no recursion bound, artifact cache or log level is applied from
// them.
type Settings struct {
	MaxRecursionDepth int    `toml:"max_recursion_depth"`
	CacheSize         int    `toml:"cache_size"`
	LogLevel          string `toml:"log_level"`
}

// DefaultSettings returns the engine's built-in settings, used whenever no
// settings file is supplied.
func DefaultSettings() Settings {
	return Settings{
		MaxRecursionDepth: 64,
		CacheSize:         1024,
		LogLevel:          "info",
	}
}

// LoadSettings decodes an engine settings TOML file over DefaultSettings,
// so a file that only sets one field leaves the rest at their defaults. An
// empty path returns the defaults unchanged.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	if _, err := toml.DecodeFile(path, &settings); err != nil {
		return Settings{}, fmt.Errorf("decode engine settings %s: %w", path, err)
	}
	return settings, nil
}
