package session_test

import (
	"strings"
	"testing"

	"github.com/minglemoody/funnel-tracker/internal/session"
)

func TestNewID_Format(t *testing.T) {
	id := session.NewID()

	if !strings.HasPrefix(id, session.Prefix) {
		t.Fatalf("expected prefix %q, got %q", session.Prefix, id)
	}
	if !session.Valid(id) {
		t.Fatalf("expected minted id to validate, got %q", id)
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := session.NewID()
		if seen[id] {
			t.Fatalf("duplicate id generated: %q", id)
		}
		seen[id] = true
	}
}

func TestValid(t *testing.T) {
	testCases := []struct {
		name string
		id   string
		want bool
	}{
		{"minted id", session.NewID(), true},
		{"typical id", "session_1756700000000_a1b2c3d", true},
		{"empty", "", false},
		{"missing prefix", "1756700000000_a1b2c3d", false},
		{"wrong prefix", "sess_1756700000000_a1b2c3d", false},
		{"missing suffix", "session_1756700000000", false},
		{"empty suffix", "session_1756700000000_", false},
		{"non-numeric timestamp", "session_notamillis_a1b2c3d", false},
		{"uppercase suffix", "session_1756700000000_A1B2C3D", false},
		{"sql in suffix", "session_1756700000000_'; DROP", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := session.Valid(tc.id); got != tc.want {
				t.Errorf("Valid(%q) = %v, want %v", tc.id, got, tc.want)
			}
		})
	}
}
