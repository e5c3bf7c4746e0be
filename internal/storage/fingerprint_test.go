package storage

import (
	"strings"
	"testing"
)

func TestFingerprintNormalizesCaseAndSpace(t *testing.T) {
	t.Parallel()

	base := Fingerprint("Freight Corridors in 2026", "Rail volumes keep climbing.")
	if len(base) != 64 {
		t.Fatalf("fingerprint length = %d, want 64 hex chars", len(base))
	}
	variants := []struct {
		title string
		body  string
	}{
		{"freight corridors in 2026", "rail volumes keep climbing."},
		{"  Freight Corridors in 2026  ", "Rail volumes keep climbing.\n"},
		{"FREIGHT CORRIDORS IN 2026", "RAIL VOLUMES KEEP CLIMBING."},
	}
	for _, variant := range variants {
		if got := Fingerprint(variant.title, variant.body); got != base {
			t.Fatalf("fingerprint(%q, %q) = %s, want %s", variant.title, variant.body, got, base)
		}
	}
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	t.Parallel()

	first := Fingerprint("Freight Corridors", "Rail volumes keep climbing.")
	second := Fingerprint("Freight Corridors", "Rail volumes keep falling.")
	if first == second {
		t.Fatal("different bodies should produce different fingerprints")
	}
}

func TestMarkDuplicateTitle(t *testing.T) {
	t.Parallel()

	marked := MarkDuplicateTitle("Port Congestion Update")
	if !strings.HasSuffix(marked, DuplicateTitleMarker) {
		t.Fatalf("marked title = %q, want duplicate marker suffix", marked)
	}
	if again := MarkDuplicateTitle(marked); again != marked {
		t.Fatalf("remarking title = %q, want unchanged %q", again, marked)
	}
}
