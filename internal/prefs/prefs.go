// Package prefs stores client-side preferences: the display theme and the
// remembered weather key. Nothing here is sent to the backend except the key
// as part of a weather pull.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const (
	keyTheme      = "theme"
	keyWeatherKey = "weather_key"
)

// DefaultTheme is used when nothing (or an unknown name) is stored.
const DefaultTheme = "indigo"

// Themes lists the known theme names in cycling order.
var Themes = []string{"indigo", "teal", "emerald", "slate", "night"}

// Store is a small YAML file backed by its own viper instance.
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// Open loads path; a missing file yields an empty store.
func Open(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault(keyTheme, DefaultTheme)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read prefs %q: %w", path, err)
		}
	}
	return &Store{v: v, path: path}, nil
}

// Theme returns the remembered theme, falling back to DefaultTheme.
func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NormalizeTheme(s.v.GetString(keyTheme))
}

// SetTheme remembers name (unknown names store the default).
func (s *Store) SetTheme(name string) error {
	return s.set(keyTheme, NormalizeTheme(name))
}

// WeatherKey returns the remembered weather credential, if any.
func (s *Store) WeatherKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.TrimSpace(s.v.GetString(keyWeatherKey))
}

// SetWeatherKey remembers key. Empty keys are ignored.
func (s *Store) SetWeatherKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	return s.set(keyWeatherKey, key)
}

func (s *Store) set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, value)
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write prefs %q: %w", s.path, err)
	}
	return nil
}

// NormalizeTheme maps unknown names to DefaultTheme.
func NormalizeTheme(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if slices.Contains(Themes, name) {
		return name
	}
	return DefaultTheme
}

// NextTheme returns the theme after current in cycling order.
func NextTheme(current string) string {
	i := slices.Index(Themes, NormalizeTheme(current))
	return Themes[(i+1)%len(Themes)]
}
