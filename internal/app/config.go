package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/errshape/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "errshape"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# errshape configuration
# Run: errshape --help

# Optional: override the SQLite sample corpus location.
# Can also be set via ERRSHAPE_DB_PATH or --db-path.
# db_path: ~/.config/errshape/errshape.db

# Toast title used when a payload yields nothing better.
# Can also be set via ERRSHAPE_DEFAULT_TITLE or --title.
# default_title: Operation Failed

# Resource that qualifies canonical field paths (invoice, bill, expense, ...).
# Can also be set via ERRSHAPE_RESOURCE or --resource.
# resource_name: resource

# Batch parse cache: entries kept per resource, and how long they stay fresh.
# cache_entries: 256
# cache_ttl: 10m
`
