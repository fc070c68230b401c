package testsupport

import (
	"testing"

	"poselabel/internal/config"
	"poselabel/internal/store"
)

// MustOpenStore opens a project store for the provided config and registers
// cleanup on test completion.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
