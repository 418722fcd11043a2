package settings

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// LoadPreset reads a saved settings preset and returns the normalized
// record. The on-disk form is YAML so presets stay hand-editable.
func LoadPreset(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrSettings, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("%w: %s: %v", ErrSettings, path, err)
	}
	return Normalize(s)
}

// SavePreset writes s as a YAML preset file.
func SavePreset(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSettings, err)
	}
	return os.WriteFile(path, data, 0644)
}
