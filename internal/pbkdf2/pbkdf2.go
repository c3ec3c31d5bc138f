// Package pbkdf2 implements PBKDF2 (RFC 8018) instantiated with HMAC-SHA-256.
//
// One HMAC instance is keyed with the password and reused for every block and
// iteration; resetting it re-primes the pads without touching the key. Each
// Reset and Sum still absorbs a full 64-byte pad block, so the reuse saves the
// key setup (the copy, or the pre-hash of a long password), not hashing work.
package pbkdf2

import (
	"github.com/codahale/mpw/internal/hmac256"
)

// Key derives keyLen bytes from the password, salt, and iteration count.
func Key(password, salt []byte, iter, keyLen int) []byte {
	prf := hmac256.New(password)
	defer prf.Close()

	var u [hmac256.Size]byte

	out := make([]byte, 0, keyLen)
	work := make([]byte, hmac256.Size)

	for block := uint32(1); len(out) < keyLen; block++ {
		// U1 = PRF(password, salt || INT(block))
		prf.Reset()
		prf.Write(salt)
		prf.WriteUint32(block)
		copy(u[:], prf.Sum())
		copy(work, u[:])

		// Ui = PRF(password, Ui-1); T ^= Ui
		for i := 1; i < iter; i++ {
			prf.Reset()
			prf.Write(u[:])
			copy(u[:], prf.Sum())

			for j, b := range u {
				work[j] ^= b
			}
		}

		n := keyLen - len(out)
		if n > hmac256.Size {
			n = hmac256.Size
		}

		out = append(out, work[:n]...)
	}

	return out
}
