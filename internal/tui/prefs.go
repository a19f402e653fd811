package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Prefs holds user preferences for the TUI that persist across sessions.
type Prefs struct {
	// TruncatePayloads shortens payloads in the detail pane to their first
	// and last characters.
	TruncatePayloads bool `json:"truncate_payloads"`
}

// DefaultPrefs returns the default preferences.
func DefaultPrefs() Prefs {
	return Prefs{TruncatePayloads: true}
}

func prefsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".imgstrip", "tui_prefs.json"), nil
}

// LoadPrefs loads user preferences from disk, returning defaults if not found.
func LoadPrefs() Prefs {
	prefs := DefaultPrefs()

	path, err := prefsPath()
	if err != nil {
		return prefs
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}

	_ = json.Unmarshal(data, &prefs) //nolint:errcheck // Intentionally ignore: fall back to defaults
	return prefs
}

// SavePrefs persists user preferences to disk.
func SavePrefs(prefs Prefs) error {
	path, err := prefsPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// truncatePayload keeps the head and tail of long payloads when enabled.
func truncatePayload(s string, enabled bool) string {
	if !enabled {
		return s
	}
	r := []rune(s)
	if len(r) <= 64 {
		return s
	}
	return string(r[:48]) + "..." + string(r[len(r)-12:])
}
