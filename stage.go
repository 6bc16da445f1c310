package door

import (
	"sync"

	"github.com/soypat/door/material"
)

// Stage holds the assembly currently on display. Rebuilds are built
// detached and swapped in only when they succeed, so a failed rebuild
// leaves the previous door in place. A Stage is safe for concurrent use.
type Stage struct {
	mu      sync.RWMutex
	current *Assembly
	// seq numbers rebuild requests; applied is the seq of current.
	seq     uint64
	applied uint64
}

// Rebuild builds cfg and, on success, makes it current and releases the
// previous assembly. If a rebuild requested later has already been
// applied the new assembly is discarded and ErrSuperseded returned.
func (s *Stage) Rebuild(cfg Config, mats *material.Set) (*Assembly, error) {
	seq := s.next()
	a, err := Build(cfg, mats)
	if err != nil {
		Logger().Warn("door rebuild failed, keeping previous", "err", err)
		return nil, err
	}
	return s.commit(seq, a)
}

// next reserves the sequence number of a rebuild request.
func (s *Stage) next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// commit makes a, built for request seq, current unless a later request
// was applied first, in which case a is released.
func (s *Stage) commit(seq uint64, a *Assembly) (*Assembly, error) {
	s.mu.Lock()
	if seq < s.applied {
		s.mu.Unlock()
		Logger().Debug("door rebuild superseded", "seq", seq, "applied", s.applied)
		a.Release()
		return nil, ErrSuperseded
	}
	prev := s.current
	s.current = a
	s.applied = seq
	s.mu.Unlock()
	// Readers go through View under the read lock, so none can hold prev now.
	prev.Release()
	return a, nil
}

// View calls fn with the current assembly, which is nil before the first
// successful rebuild. The assembly must not be retained after fn returns.
func (s *Stage) View(fn func(*Assembly) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.current)
}

// Current returns the config of the current assembly.
func (s *Stage) Current() (Config, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Config{}, false
	}
	return s.current.Config, true
}

// Close releases the current assembly.
func (s *Stage) Close() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()
	prev.Release()
}
