package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/errshape/pkg/errshape"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	DBPath       string `yaml:"db_path"`
	DefaultTitle string `yaml:"default_title"`
	ResourceName string `yaml:"resource_name"`
	CacheEntries int    `yaml:"cache_entries"`
	CacheTTL     string `yaml:"cache_ttl"`
}

// EngineDefaults are the effective Parse defaults after flag/env/config resolution.
type EngineDefaults struct {
	DefaultTitle string `json:"default_title"`
	ResourceName string `json:"resource_name"`
}

// Options converts the defaults into errshape parse options.
func (d EngineDefaults) Options() []errshape.Option {
	return []errshape.Option{
		errshape.WithDefaultTitle(d.DefaultTitle),
		errshape.WithResourceName(d.ResourceName),
	}
}

// CacheSettings are effective runtime values for the batch parse cache.
type CacheSettings struct {
	EntriesPerResource int           `json:"entries_per_resource"`
	TTL                time.Duration `json:"ttl"`
}

const (
	defaultCacheEntries = 256
	maxCacheEntries     = 65536
	defaultCacheTTL     = 10 * time.Minute
)

// ResolveEngineDefaults applies the documented precedence for each setting:
// flag value, then ERRSHAPE_DEFAULT_TITLE / ERRSHAPE_RESOURCE, then
// config.yaml, then the built-in defaults.
func ResolveEngineDefaults(flagTitle, flagResource string) EngineDefaults {
	d := EngineDefaults{
		DefaultTitle: errshape.DefaultTitle,
		ResourceName: errshape.DefaultResourceName,
	}

	s, _ := LoadSettings()
	d.DefaultTitle = firstSet(flagTitle, os.Getenv("ERRSHAPE_DEFAULT_TITLE"), s.DefaultTitle, d.DefaultTitle)
	d.ResourceName = firstSet(flagResource, os.Getenv("ERRSHAPE_RESOURCE"), s.ResourceName, d.ResourceName)
	return d
}

// EffectiveCacheSettings returns validated cache settings with defaults.
// Invalid or missing config values fall back to safe defaults.
func EffectiveCacheSettings() CacheSettings {
	cfg := CacheSettings{
		EntriesPerResource: defaultCacheEntries,
		TTL:                defaultCacheTTL,
	}

	s, err := LoadSettings()
	if err != nil {
		return cfg
	}
	return applyCacheSettings(cfg, s)
}

func applyCacheSettings(cfg CacheSettings, s Settings) CacheSettings {
	if s.CacheEntries > 0 {
		cfg.EntriesPerResource = s.CacheEntries
	}
	if cfg.EntriesPerResource > maxCacheEntries {
		cfg.EntriesPerResource = maxCacheEntries
	}
	if s.CacheTTL != "" {
		if d, err := time.ParseDuration(s.CacheTTL); err == nil && d >= 0 {
			cfg.TTL = d
		}
	}
	return cfg
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
// dbPathOverrideMu and dbPathOverride implement a mutex-protected process-wide override for CLI --db-path.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	dbPathOverrideMu sync.RWMutex
	dbPathOverride   string
)

// SetDBPathOverride sets a process-wide database path override.
// Intended for CLI flag support (e.g. --db-path).
func SetDBPathOverride(path string) {
	dbPathOverrideMu.Lock()
	dbPathOverride = path
	dbPathOverrideMu.Unlock()
}

func getDBPathOverride() string {
	dbPathOverrideMu.RLock()
	v := dbPathOverride
	dbPathOverrideMu.RUnlock()
	return v
}

// settingsPaths lists config files in lookup order (first found wins).
func settingsPaths() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(string(os.PathSeparator), "etc", "errshape", "config.yaml"),
		"config.yaml",
	}, nil
}

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/errshape/config.yaml
// 2) /etc/errshape/config.yaml
// 3) ./config.yaml (lowest priority; allows repo-local overrides if desired)
// Environment variables are handled separately.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings, settingsErr = loadFirstSettings()
	})
	return settings, settingsErr
}

func loadFirstSettings() (Settings, error) {
	paths, err := settingsPaths()
	if err != nil {
		return Settings{}, err
	}
	for _, p := range paths {
		s, err := loadSettingsFile(p)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return Settings{}, err
		}
	}
	return Settings{}, nil
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
