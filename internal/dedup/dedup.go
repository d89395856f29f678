// Package dedup computes stable content fingerprints for signals so the
// store can enforce at-most-one row per upstream item.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/jonathan/signal-scout/internal/types"
)

// Normalize canonicalizes a source-native identifier prior to fingerprinting.
// It is pure and total: unknown sources fall through to trim-only handling,
// and normalizing an already-normalized id is a no-op.
func Normalize(source types.SourceAPI, rawID string) string {
	id := strings.TrimSpace(rawID)

	switch source {
	case types.SourceReddit:
		// Reddit fullnames carry a t3_ post-type prefix; listings and the
		// search API disagree about including it.
		return strings.TrimPrefix(id, "t3_")
	case types.SourceUSPTO:
		// Serial numbers appear both as "97-123456" and "97 123456".
		id = strings.ReplaceAll(id, "-", "")
		return strings.ReplaceAll(id, " ", "")
	default:
		// hn item ids and RSS GUIDs are stable as-is.
		return id
	}
}

// Fingerprint returns the 32-character lowercase hex content hash for a
// normalized source identity: the first 128 bits of SHA-256 over
// "{source_api}|{normalized_id}". It is derived only from immutable source
// identity, never from titles or content, so upstream edits neither create
// duplicates nor break matching.
func Fingerprint(source types.SourceAPI, normalizedID string) string {
	sum := sha256.Sum256([]byte(string(source) + "|" + normalizedID))
	return hex.EncodeToString(sum[:16])
}

// FingerprintSignal normalizes and fingerprints a raw signal in one step.
func FingerprintSignal(s *types.Signal) string {
	return Fingerprint(s.SourceAPI, Normalize(s.SourceAPI, s.SourceID))
}
