package testutil

import (
	"finsight/internal/storage"
	"finsight/internal/storage/memory"
)

// StaticProvider always returns the same backend.
type StaticProvider struct {
	Store storage.Storage
}

// Current implements storage.Provider.
func (p *StaticProvider) Current() storage.Storage { return p.Store }

// SetupTestStore returns a fresh in-memory backend and a provider serving it.
func SetupTestStore() (*memory.Store, *StaticProvider) {
	s := memory.New()
	return s, &StaticProvider{Store: s}
}
