// Package settings persists user-facing options as a JSON file in the
// config directory. Writes go through sjson so unknown keys added by hand
// survive a save.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Settings holds the options the editor client can change at runtime.
type Settings struct {
	// Enabled controls whether return type hints are rendered at all.
	Enabled bool `json:"enabled"`
	// HoverTypes controls whether function hovers show the resolved type.
	HoverTypes bool `json:"hoverTypes"`
}

func defaultSettings() Settings {
	return Settings{
		Enabled:    true,
		HoverTypes: true,
	}
}

// Manager loads and persists a settings file.
type Manager struct {
	mu       sync.RWMutex
	path     string
	settings Settings
}

// NewManager reads the settings file at path, falling back to defaults when
// the file does not exist yet.
func NewManager(path string) (*Manager, error) {
	m := &Manager{
		path:     path,
		settings: defaultSettings(),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(data, &m.settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	return m, nil
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.settings
}

// ToggleEnabled flips the hint toggle and persists it, returning the new
// state.
func (m *Manager) ToggleEnabled() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings.Enabled = !m.settings.Enabled
	if err := m.saveLocked("enabled", m.settings.Enabled); err != nil {
		return false, err
	}

	return m.settings.Enabled, nil
}

// SetHoverTypes enables or disables hover types and persists the change.
func (m *Manager) SetHoverTypes(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings.HoverTypes = enabled
	return m.saveLocked("hoverTypes", enabled)
}

func (m *Manager) saveLocked(key string, value any) error {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		data, err = json.Marshal(m.settings)
		if err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	data, err = sjson.SetBytes(data, key, value)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	return os.WriteFile(m.path, pretty.Pretty(data), 0o644)
}
