package testsupport

import (
	"testing"

	"rote/internal/config"
	"rote/internal/manifest"
)

// MustOpenManifest opens the manifest store for cfg and closes it when the
// test finishes.
func MustOpenManifest(t testing.TB, cfg *config.Config) *manifest.Store {
	t.Helper()
	store, err := manifest.Open(cfg)
	if err != nil {
		t.Fatalf("open manifest store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
