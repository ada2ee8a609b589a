package tron

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

// encodeBase58CheckAddress converts a 21-byte Tron address (0x41 prefix +
// 20-byte hash) into its Base58Check string form, matching the encoding
// TronGrid's REST API expects/returns for account addresses.
func encodeBase58CheckAddress(raw []byte) string {
	if len(raw) != 21 {
		return ""
	}
	checksum := doubleSha256(raw)[:4]
	return base58.Encode(append(append([]byte{}, raw...), checksum...))
}

func doubleSha256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}
