package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// DuplicateTitleMarker is appended to a content title when its
// fingerprint matches an already-recorded content hash.
const DuplicateTitleMarker = " [Duplicate]"

// Fingerprint computes the duplicate-detection hash for one content
// item: SHA-256 over the case-normalized, trimmed title and body.
func Fingerprint(title, body string) string {
	normalized := strings.ToLower(strings.TrimSpace(title)) + "\n" + strings.ToLower(strings.TrimSpace(body))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// MarkDuplicateTitle appends the duplicate marker to a title unless it
// already carries one.
func MarkDuplicateTitle(title string) string {
	if strings.HasSuffix(title, DuplicateTitleMarker) {
		return title
	}
	return title + DuplicateTitleMarker
}
