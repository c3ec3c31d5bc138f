// Package scrypt implements the scrypt key derivation function (RFC 7914)
// with a sparse-V ROMix variant that trades recomputation for memory. With a
// full storage budget it is byte-for-byte the canonical algorithm; with a
// constrained budget it stores only every sparse-th V entry and rebuilds the
// rest on demand, which keeps the standard Master Password parameters
// (N=32768, r=8, p=2, 32 MiB of V) tractable in a few hundred KiB.
package scrypt

import (
	"errors"

	"github.com/codahale/mpw/internal/pbkdf2"
	"github.com/codahale/mpw/internal/salsa"
)

const maxInt = int(^uint(0) >> 1)

// ErrInvalidParams is returned when the cost parameters are out of range.
var ErrInvalidParams = errors.New("scrypt: N must be > 1 and a power of 2, with r*p < 2^30")

func checkParams(n, r, p int) error {
	if n <= 1 || n&(n-1) != 0 {
		return ErrInvalidParams
	}

	if r <= 0 || p <= 0 || uint64(r)*uint64(p) >= 1<<30 ||
		r > maxInt/128/p || r > maxInt/256 || n > maxInt/128/r {
		return ErrInvalidParams
	}

	return nil
}

// A KDF derives keys with a reusable sparse mixer. It owns the most recently
// derived key until Reset or the next derivation.
type KDF struct {
	mixer *Mixer
	p     int
	key   []byte
}

// New returns a KDF for the given cost parameters and storage config.
func New(n, r, p int, cfg MixerConfig) (*KDF, error) {
	if err := checkParams(n, r, p); err != nil {
		return nil, err
	}

	mixer, err := NewMixer(n, r, cfg)
	if err != nil {
		return nil, err
	}

	return &KDF{mixer: mixer, p: p}, nil
}

// Key derives keyLen bytes from the password and salt. The returned slice is
// owned by the KDF and valid until the next Key, Reset, or Close. Progress is
// reported at 0%, monotonically through the p ROMix stripes, and 100% at
// completion.
func (k *KDF) Key(password, salt []byte, keyLen int, progress ProgressFunc) []byte {
	r, p := k.mixer.r, k.p

	report(progress, 0)

	// Expand the password and salt into p independent 2r-block stripes.
	scratch := pbkdf2.Key(password, salt, 1, 128*r*p)

	blocks := make([]salsa.Block, len(scratch)/salsa.BlockSize)
	for i := range blocks {
		blocks[i].Decode(scratch[i*salsa.BlockSize:])
	}

	// Mix each stripe in place.
	k.mixer.Mix(blocks, p, progress)

	for i := range blocks {
		blocks[i].Encode(scratch[i*salsa.BlockSize:])
	}

	// Derive the final key from the mixed scratch.
	k.Reset()
	k.key = pbkdf2.Key(password, scratch, 1, keyLen)

	wipe(scratch)
	wipeBlocks(blocks)

	report(progress, 100)

	return k.key
}

// Reset wipes and releases the derived key.
func (k *KDF) Reset() {
	wipe(k.key)
	k.key = nil
}

// Close releases the derived key and the mixer's owned storage.
func (k *KDF) Close() {
	k.Reset()
	k.mixer.Close()
}

// Key derives a keyLen-byte key from the password, salt, and cost parameters
// using FullConfig's storage, which holds every V entry like the canonical
// algorithm except for the small-n case described on FullConfig.
func Key(password, salt []byte, n, r, p, keyLen int) ([]byte, error) {
	kdf, err := New(n, r, p, FullConfig(n, r))
	if err != nil {
		return nil, err
	}

	defer kdf.Close()

	out := make([]byte, keyLen)
	copy(out, kdf.Key(password, salt, keyLen, nil))

	return out, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
