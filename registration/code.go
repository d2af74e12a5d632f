package registration

import (
	"crypto/rand"
	"math/big"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 10
)

// GenerateCode returns a new human-facing registration code: 10 characters
// sampled uniformly from A-Z0-9.
func GenerateCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			panic("crypto/rand is unavailable")
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code)
}
