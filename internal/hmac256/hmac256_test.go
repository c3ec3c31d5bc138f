package hmac256

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/codahale/gubbins/assert"
)

func reference(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write(msg)

	return mac.Sum(nil)
}

func TestRFC4231Vectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  []byte
		msg  []byte
		want string
	}{
		{
			name: "case 1",
			key:  bytes.Repeat([]byte{0x0b}, 20),
			msg:  []byte("Hi There"),
			want: "b0344c61d8db38535ca8afceaf0bf12b881dc200c9833da726e9376c2e32cff7",
		},
		{
			name: "case 2",
			key:  []byte("Jefe"),
			msg:  []byte("what do ya want for nothing?"),
			want: "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		},
		{
			name: "long key",
			key:  bytes.Repeat([]byte{0xaa}, 131),
			msg:  []byte("Test Using Larger Than Block-Size Key - Hash Key First"),
			want: "60e431591ee0b67f0d8a26aacbf5b77f8e0bc6213728c5140546040f0ee37f54",
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			h := New(test.key)
			h.Write(test.msg)

			assert.Equal(t, "mac", test.want, hex.EncodeToString(h.Sum()))
		})
	}
}

func TestBlockSizeBoundary(t *testing.T) {
	t.Parallel()

	msg := []byte("boundary message")

	for _, n := range []int{63, 64, 65} {
		key := bytes.Repeat([]byte{0x42}, n)

		h := New(key)
		h.Write(msg)

		assert.Equal(t, "mac", reference(key, msg), h.Sum())
	}
}

func TestLongKeyReduction(t *testing.T) {
	t.Parallel()

	key := bytes.Repeat([]byte("key material "), 10)
	msg := []byte("message")
	reduced := sha256.Sum256(key)

	long := New(key)
	long.Write(msg)

	short := New(reduced[:])
	short.Write(msg)

	assert.Equal(t, "mac", short.Sum(), long.Sum())
}

func TestChunkBoundaries(t *testing.T) {
	t.Parallel()

	key := []byte("chunky")
	msg := bytes.Repeat([]byte("0123456789"), 20)

	whole := New(key)
	whole.Write(msg)

	split := New(key)
	split.Write(msg[:7])
	split.Write(msg[7:70])
	split.Write(msg[70:])

	assert.Equal(t, "mac", whole.Sum(), split.Sum())
}

func TestResetPreservesKey(t *testing.T) {
	t.Parallel()

	key := []byte("reused key")
	h := New(key)

	h.Write([]byte("first"))
	first := append([]byte(nil), h.Sum()...)

	h.Reset()
	h.Write([]byte("second"))
	second := h.Sum()

	assert.Equal(t, "first mac", reference(key, []byte("first")), first)
	assert.Equal(t, "second mac", reference(key, []byte("second")), second)
}

func TestEmptyInputs(t *testing.T) {
	t.Parallel()

	h := New(nil)

	assert.Equal(t, "mac", reference(nil, nil), h.Sum())
}

func TestClose(t *testing.T) {
	t.Parallel()

	h := New([]byte("secret key"))
	h.Close()

	assert.Equal(t, "wiped key", make([]byte, len(h.key)), h.key[:])
}
