package domain

import "testing"

func TestNormalizeRoomCode(t *testing.T) {
	code, err := NormalizeRoomCode("abc123")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if code != "ABC123" {
		t.Fatalf("expected ABC123, got %s", code)
	}

	if _, err := NormalizeRoomCode(" abc123 "); err != nil {
		t.Fatalf("expected surrounding whitespace to be tolerated, got %v", err)
	}

	for _, bad := range []string{"", "ABC12", "ABC1234", "ABC 12", "ABC-12", "ÅBC123"} {
		if _, err := NormalizeRoomCode(bad); err != ErrInvalidRoomCode {
			t.Fatalf("expected ErrInvalidRoomCode for %q, got %v", bad, err)
		}
	}
}
