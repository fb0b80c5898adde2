// ABOUTME: Tests for the server-side prompt registry
// ABOUTME: Verifies known-key resolution and the default for unknown keys

package services

import "testing"

func TestRegistry_ResolveKnownKeys(t *testing.T) {
	r := NewRegistry()

	for _, key := range []string{"onboarding", "station-coach", "profile-review"} {
		t.Run(key, func(t *testing.T) {
			if !r.Known(key) {
				t.Fatalf("key %q should be known", key)
			}
			if got := r.Resolve(key); got == "" || got == defaultInstruction {
				t.Errorf("Resolve(%q) should return a dedicated instruction", key)
			}
		})
	}
}

func TestRegistry_UnknownKeyResolvesToDefault(t *testing.T) {
	r := NewRegistry()

	for _, key := range []string{"", "nonexistent", "admin-override"} {
		t.Run("key "+key, func(t *testing.T) {
			if got := r.Resolve(key); got != defaultInstruction {
				t.Errorf("Resolve(%q) = %q, want the default instruction", key, got)
			}
			if r.Known(key) {
				t.Errorf("Known(%q) = true, want false", key)
			}
		})
	}
}
