// Package promoid derives deterministic promoter identifiers from
// (platform, identifier) pairs.
package promoid

import (
	"crypto/sha256"
	"strings"

	"github.com/mr-tron/base58"
)

const (
	maxPlatformLen   = 6
	maxIdentifierLen = 10
)

// Derive computes the canonical promoter id for a (platform, identifier)
// pair: PROM-<PLATFORM>-<ID>, where PLATFORM keeps letters only (uppercased,
// at most 6 runes) and ID keeps alphanumerics only (uppercased, at most 10).
//
// Truncation means two distinct pairs can derive the same id; callers that
// insert into a keyed catalog must check for collisions and use
// Discriminator to widen the id.
func Derive(platform, identifier string) string {
	p := sanitize(platform, false, maxPlatformLen)
	id := sanitize(identifier, true, maxIdentifierLen)
	return "PROM-" + p + "-" + id
}

// Discriminator returns a short deterministic suffix for disambiguating
// derived-id collisions between distinct (platform, identifier) pairs.
// Formula: base58(SHA256(platform|identifier)) truncated to 4 characters.
func Discriminator(platform, identifier string) string {
	hash := sha256.Sum256([]byte(platform + "|" + identifier))
	return base58.Encode(hash[:])[:4]
}

// sanitize uppercases s and keeps letters (and digits when allowDigits),
// truncating to maxLen.
func sanitize(s string, allowDigits bool, maxLen int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		keep := (r >= 'A' && r <= 'Z') || (allowDigits && r >= '0' && r <= '9')
		if !keep {
			continue
		}
		b.WriteRune(r)
		if b.Len() >= maxLen {
			break
		}
	}
	return b.String()
}
