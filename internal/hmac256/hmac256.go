// Package hmac256 implements HMAC-SHA-256 over the streaming hasher in
// internal/digest. The padded key survives Reset, so a single instance can
// authenticate a sequence of messages without re-deriving the pads; PBKDF2
// leans on this.
package hmac256

import (
	"crypto/subtle"

	"github.com/codahale/mpw/internal/digest"
)

// Size is the length of an HMAC-SHA-256 digest in bytes.
const Size = digest.Size

// An HMAC is a keyed SHA-256 MAC. It holds the key padded to the hash block
// size; Close wipes it.
type HMAC struct {
	key [digest.BlockSize]byte
	d   digest.Digest
}

// New returns an HMAC keyed with key. Keys longer than the hash block size
// are pre-hashed; shorter keys are zero-padded to the right.
func New(key []byte) *HMAC {
	var h HMAC

	if len(key) > digest.BlockSize {
		h.d.Reset()
		h.d.Write(key)
		copy(h.key[:], h.d.Sum())
	} else {
		copy(h.key[:], key)
	}

	h.Reset()

	return &h
}

// Reset primes the inner hash with the inner pad, discarding any message fed
// so far. The key is retained.
func (h *HMAC) Reset() {
	h.d.Reset()
	for _, b := range h.key {
		h.d.WriteByte(b ^ 0x36)
	}
}

// Write absorbs message bytes.
func (h *HMAC) Write(p []byte) {
	h.d.Write(p)
}

// WriteUint32 absorbs v as four big-endian bytes.
func (h *HMAC) WriteUint32(v uint32) {
	h.d.WriteUint32(v)
}

// Sum finalizes the current message and returns the 32-byte MAC. The instance
// must be Reset before the next message.
func (h *HMAC) Sum() []byte {
	var inner [Size]byte

	copy(inner[:], h.d.Sum())

	h.d.Reset()
	for _, b := range h.key {
		h.d.WriteByte(b ^ 0x5c)
	}
	h.d.Write(inner[:])

	return h.d.Sum()
}

// Close wipes the padded key and the hash state.
func (h *HMAC) Close() {
	zeros := make([]byte, len(h.key))
	subtle.ConstantTimeCopy(1, h.key[:], zeros)
	h.d.Wipe()
}
