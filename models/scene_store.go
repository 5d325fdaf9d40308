package models

import (
	"sync"
)

// SceneStore keeps the latest scene build. It is safe for concurrent use.
type SceneStore struct {
	mutex  sync.RWMutex
	latest *Build
}

// Set replaces the latest build.
func (s *SceneStore) Set(b *Build) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.latest = b
	instrumentBuild(b)
}

// Latest returns the latest build, if any.
func (s *SceneStore) Latest() (*Build, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.latest, s.latest != nil
}
