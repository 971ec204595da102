package kv

import (
	"path/filepath"
	"testing"
)

// exerciseStore runs the behaviour every Store implementation shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	if _, ok, err := s.Get(KeyToken); err != nil || ok {
		t.Fatalf("Get(absent) = ok %v, err %v; want false, nil", ok, err)
	}

	if err := s.Set(KeyToken, "abc"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, ok, err := s.Get(KeyToken)
	if err != nil || !ok || v != "abc" {
		t.Fatalf("Get() = %q, %v, %v; want abc, true, nil", v, ok, err)
	}

	if err := s.Set(KeyToken, "def"); err != nil {
		t.Fatalf("overwrite error = %v", err)
	}
	if v, _, _ := s.Get(KeyToken); v != "def" {
		t.Errorf("after overwrite Get() = %q, want def", v)
	}

	if err := s.Remove(KeyToken); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok, _ := s.Get(KeyToken); ok {
		t.Error("key still present after Remove")
	}
	if err := s.Remove(KeyToken); err != nil {
		t.Errorf("Remove(absent) error = %v", err)
	}
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestPebble(t *testing.T) {
	p, err := OpenPebble(filepath.Join(t.TempDir(), "state.pebble"))
	if err != nil {
		t.Fatalf("OpenPebble() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	exerciseStore(t, p)
}

func TestPebbleSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state.pebble")

	p, err := OpenPebble(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Set(KeyAccentColor, "#10b981"); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	p2, err := OpenPebble(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = p2.Close() }()

	v, ok, err := p2.Get(KeyAccentColor)
	if err != nil || !ok || v != "#10b981" {
		t.Errorf("Get() after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestPebbleCloseNil(t *testing.T) {
	var p *Pebble
	if err := p.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
}
