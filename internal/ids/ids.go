// Package ids generates the record identifiers used across the stores.
package ids

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// New generates an identifier of the form "prefix_<unix-ms>_<random>", e.g.
// "proj_1712345678901_k3x9q0m2f". The timestamp component makes collisions
// unlikely in practice but the scheme is not collision-proof; creates guard
// with a conditional not-exists write.
func New(prefix string) (string, error) {
	suffix, err := randomString(base36, 9)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix), nil
}

func randomString(alphabet string, length int) (string, error) {
	b := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}

// InviteCode draws an 8-character code from the uppercase alphanumeric
// alphabet. Uniqueness is checked by the caller against the code index.
func InviteCode() (string, error) {
	return randomString("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", 8)
}
