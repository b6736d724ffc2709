// Package settings holds the user-facing configuration shared between the
// UI side, which mutates it, and the aim loop, which reads it once per cycle.
package settings

import (
	"maps"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// KeyState reports whether a physical key or mouse button is held.
type KeyState interface {
	IsHeld(key string) bool
}

// Store is a concurrency-safe set of named toggles, key bindings, sliders
// and dropdowns. Unknown names read as the zero value.
type Store struct {
	mu        sync.RWMutex
	toggles   map[string]bool
	bindings  map[string]string
	sliders   map[string]float64
	dropdowns map[string]string
	keys      KeyState
}

// File is the on-disk layout of a Store.
type File struct {
	Toggles   map[string]bool    `json:"toggles" yaml:"toggles"`
	Bindings  map[string]string  `json:"bindings" yaml:"bindings"`
	Sliders   map[string]float64 `json:"sliders" yaml:"sliders"`
	Dropdowns map[string]string  `json:"dropdowns" yaml:"dropdowns"`
}

// NewStore returns a store seeded with defaults.
func NewStore() *Store {
	return &Store{
		toggles:   defaultToggles(),
		bindings:  defaultBindings(),
		sliders:   defaultSliders(),
		dropdowns: defaultDropdowns(),
	}
}

// Load reads a YAML file over the defaults. Names missing from the file keep
// their default values.
//
// Arguments:
//   - path: The YAML file to read.
//
// Returns:
//   - *Store: The populated store.
//   - error: An error if the file cannot be read or parsed.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading settings %s", path)
	}

	s := NewStore()
	if err := s.Unmarshal(data); err != nil {
		return nil, errors.Wrapf(err, "parsing settings %s", path)
	}
	return s, nil
}

// Unmarshal merges YAML data into the store.
func (s *Store) Unmarshal(data []byte) error {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.toggles, f.Toggles)
	maps.Copy(s.bindings, f.Bindings)
	maps.Copy(s.sliders, f.Sliders)
	maps.Copy(s.dropdowns, f.Dropdowns)
	return nil
}

// Marshal encodes the store as YAML.
func (s *Store) Marshal() ([]byte, error) {
	s.mu.RLock()
	f := File{
		Toggles:   maps.Clone(s.toggles),
		Bindings:  maps.Clone(s.bindings),
		Sliders:   maps.Clone(s.sliders),
		Dropdowns: maps.Clone(s.dropdowns),
	}
	s.mu.RUnlock()
	return yaml.Marshal(f)
}

// SetKeyState installs the source used by Keybind.
func (s *Store) SetKeyState(ks KeyState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = ks
}

// Toggle returns the state of a toggle.
func (s *Store) Toggle(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.toggles[name]
}

// SetToggle sets a toggle.
func (s *Store) SetToggle(name string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggles[name] = on
}

// Binding returns the key bound to a keybind name.
func (s *Store) Binding(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bindings[name]
}

// SetBinding binds a key to a keybind name.
func (s *Store) SetBinding(name, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[name] = key
}

// Keybind reports whether the key bound to name is currently held. Without
// a KeyState no key is ever held.
func (s *Store) Keybind(name string) bool {
	s.mu.RLock()
	key, ks := s.bindings[name], s.keys
	s.mu.RUnlock()

	if ks == nil || key == "" {
		return false
	}
	return ks.IsHeld(key)
}

// Slider returns the value of a slider.
func (s *Store) Slider(name string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sliders[name]
}

// SetSlider sets a slider.
func (s *Store) SetSlider(name string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sliders[name] = v
}

// Dropdown returns the selected entry of a dropdown.
func (s *Store) Dropdown(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dropdowns[name]
}

// SetDropdown selects a dropdown entry.
func (s *Store) SetDropdown(name, v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropdowns[name] = v
}
