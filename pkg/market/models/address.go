package models

import "strings"

// NormalizeAddress lowercases and trims a wallet address.
//
// Upstream writers store addresses with mixed case, so every read/write
// boundary touching user_address or wallet_address must pass through this
// function. Matching anywhere else risks silently missing allocations.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
