// Package prefs persists the display preferences: accent color and font
// scale.
package prefs

import (
	"errors"
	"fmt"
	"sync"

	"github.com/matheus3301/parley/internal/bus"
	"github.com/matheus3301/parley/internal/kv"
	"github.com/matheus3301/parley/internal/logging"
	"go.uber.org/zap"
)

// FontScale is one of the enumerated text sizes.
type FontScale string

const (
	Small  FontScale = "small"
	Medium FontScale = "medium"
	Large  FontScale = "large"
)

// DefaultAccentColor is used until the user picks one.
const DefaultAccentColor = "#3b82f6"

// DefaultFontScale is used until the user picks one.
const DefaultFontScale = Medium

var ErrInvalidFontScale = errors.New("invalid font scale")

// ParseFontScale accepts small, medium or large.
func ParseFontScale(s string) (FontScale, error) {
	switch FontScale(s) {
	case Small, Medium, Large:
		return FontScale(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFontScale, s)
}

// Swatch is an advisory accent color.
type Swatch struct {
	Name  string
	Color string
}

// Palette lists the suggested accent colors. Any color string is accepted.
var Palette = []Swatch{
	{"Blue", "#3b82f6"},
	{"Green", "#10b981"},
	{"Purple", "#8b5cf6"},
	{"Red", "#ef4444"},
	{"Pink", "#ec4899"},
	{"Indigo", "#6366f1"},
}

// Preferences is the current display configuration.
type Preferences struct {
	AccentColor string
	FontScale   FontScale
}

// Defaults returns the preferences of a fresh profile.
func Defaults() Preferences {
	return Preferences{AccentColor: DefaultAccentColor, FontScale: DefaultFontScale}
}

// Update names the fields to change; nil fields are left alone.
type Update struct {
	AccentColor *string
	FontScale   *FontScale
}

// Store reads and writes preferences through a kv.Store.
type Store struct {
	kv     kv.Store
	bus    *bus.Bus
	logger *zap.Logger
	mu     sync.Mutex
}

// New creates a preference store.
func New(store kv.Store, b *bus.Bus, logger *zap.Logger) *Store {
	return &Store{kv: store, bus: b, logger: logging.OrNop(logger)}
}

// Get returns the persisted preferences. Missing or unreadable values fall
// back to their defaults.
func (s *Store) Get() Preferences {
	p := Defaults()

	if v, ok, err := s.kv.Get(kv.KeyAccentColor); err != nil {
		s.logger.Warn("failed to read accent color", zap.Error(err))
	} else if ok && v != "" {
		p.AccentColor = v
	}

	if v, ok, err := s.kv.Get(kv.KeyFontScale); err != nil {
		s.logger.Warn("failed to read font scale", zap.Error(err))
	} else if ok {
		if fs, err := ParseFontScale(v); err == nil {
			p.FontScale = fs
		} else {
			s.logger.Warn("ignoring stored font scale", zap.String("value", v))
		}
	}
	return p
}

// Set persists each provided field independently. A field that fails to
// persist does not prevent the other from being written; the first error
// is returned.
func (s *Store) Set(u Update) (Preferences, error) {
	if u.FontScale != nil {
		if _, err := ParseFontScale(string(*u.FontScale)); err != nil {
			return s.Get(), err
		}
	}

	s.mu.Lock()
	var firstErr error
	if u.AccentColor != nil {
		if err := s.kv.Set(kv.KeyAccentColor, *u.AccentColor); err != nil {
			s.logger.Error("failed to persist accent color", zap.Error(err))
			firstErr = fmt.Errorf("persist accent color: %w", err)
		}
	}
	if u.FontScale != nil {
		if err := s.kv.Set(kv.KeyFontScale, string(*u.FontScale)); err != nil {
			s.logger.Error("failed to persist font scale", zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("persist font scale: %w", err)
			}
		}
	}
	s.mu.Unlock()

	p := s.Get()
	s.bus.Emit(bus.PrefsChanged, p)
	return p, firstErr
}

// SetAccentColor is shorthand for Set with only the accent color.
func (s *Store) SetAccentColor(color string) (Preferences, error) {
	return s.Set(Update{AccentColor: &color})
}

// SetFontScale is shorthand for Set with only the font scale.
func (s *Store) SetFontScale(fs FontScale) (Preferences, error) {
	return s.Set(Update{FontScale: &fs})
}
