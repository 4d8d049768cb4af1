package chain

import (
	"regexp"
	"strings"
)

var (
	evmPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	// Base58 alphabet excludes the ambiguous glyphs 0, O, I and l.
	b58Pattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
)

// Classify maps a raw input string to an address family. EVM addresses
// must be exactly 0x plus 40 hex digits; base58 ledger addresses must be
// 32-44 characters of the base58 alphabet and not look like hex.
func Classify(input string) Kind {
	addr := strings.TrimSpace(input)
	switch {
	case evmPattern.MatchString(addr):
		return KindEVM
	case b58Pattern.MatchString(addr):
		return KindLedgerB58
	default:
		return KindInvalid
	}
}

// Normalize lower-cases an address for use as a lookup key. Base58
// addresses are case-significant and pass through untouched.
func Normalize(input string) string {
	addr := strings.TrimSpace(input)
	if evmPattern.MatchString(addr) {
		return strings.ToLower(addr)
	}
	return addr
}
