// Package state holds the persisted bake bookkeeping: the source to baked
// material cache and per-material size settings.
package state

import (
	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/targets"
)

// FirstUID is the first uid handed out by a new store.
const FirstUID = 100

// Entry links a source material to its current baked material.
type Entry struct {
	UID    int
	Source host.Material
	Baked  host.Material
}

// MaterialSettings overrides the global map sizes for one material.
type MaterialSettings struct {
	Material host.Material
	Sizes    map[targets.SizeKey]int
}

// Store keeps at most one Entry per source material and at most one
// MaterialSettings per material.
type Store struct {
	autoIncrement int
	entries       []*Entry
	settings      []*MaterialSettings
}

// New creates an empty store.
func New() *Store {
	return &Store{autoIncrement: FirstUID}
}

// NextUID returns the next uid and advances the counter.
func (s *Store) NextUID() int {
	uid := s.autoIncrement
	s.autoIncrement++
	return uid
}

// AutoIncrement returns the uid the next NextUID call will return.
func (s *Store) AutoIncrement() int { return s.autoIncrement }

// SetAutoIncrement restores a persisted counter.
func (s *Store) SetAutoIncrement(n int) {
	if n < FirstUID {
		n = FirstUID
	}
	s.autoIncrement = n
}

// Same reports whether a and b are the same material.
func Same(a, b host.Material) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	return a.ID() != "" && a.ID() == b.ID()
}

// Lookup finds the entry whose source or baked material is m.
func (s *Store) Lookup(m host.Material) *Entry {
	if m == nil {
		return nil
	}
	for _, e := range s.entries {
		if Same(e.Source, m) || Same(e.Baked, m) {
			return e
		}
	}
	return nil
}

// Put records baked as the current result for source, creating the entry
// with uid when none exists. An existing entry keeps its uid.
func (s *Store) Put(uid int, source, baked host.Material) *Entry {
	e := s.Lookup(source)
	if e == nil {
		e = &Entry{UID: uid, Source: source}
		s.entries = append(s.entries, e)
		if uid >= s.autoIncrement {
			s.autoIncrement = uid + 1
		}
	}
	e.Baked = baked
	return e
}

// Remove drops the entry for m.
func (s *Store) Remove(m host.Material) {
	for i, e := range s.entries {
		if Same(e.Source, m) || Same(e.Baked, m) {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Entries returns the cache entries in insertion order.
func (s *Store) Entries() []*Entry {
	return append([]*Entry(nil), s.entries...)
}

// Settings returns the size settings for m, or nil.
func (s *Store) Settings(m host.Material) *MaterialSettings {
	if m == nil {
		return nil
	}
	for _, ms := range s.settings {
		if Same(ms.Material, m) {
			return ms
		}
	}
	return nil
}

// AddSettings creates size settings for m as a copy of global. Existing
// settings are returned unchanged.
func (s *Store) AddSettings(m host.Material, global map[targets.SizeKey]int) *MaterialSettings {
	if m == nil {
		return nil
	}
	if ms := s.Settings(m); ms != nil {
		return ms
	}
	sizes := make(map[targets.SizeKey]int, len(global))
	for k, v := range global {
		sizes[k] = v
	}
	ms := &MaterialSettings{Material: m, Sizes: sizes}
	s.settings = append(s.settings, ms)
	return ms
}

// RemoveSettings drops the size settings for m.
func (s *Store) RemoveSettings(m host.Material) {
	for i, ms := range s.settings {
		if Same(ms.Material, m) {
			s.settings = append(s.settings[:i], s.settings[i+1:]...)
			return
		}
	}
}

// AllSettings returns every material's size settings.
func (s *Store) AllSettings() []*MaterialSettings {
	return append([]*MaterialSettings(nil), s.settings...)
}
