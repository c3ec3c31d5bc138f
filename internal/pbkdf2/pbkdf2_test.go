package pbkdf2

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/codahale/gubbins/assert"
	xpbkdf2 "golang.org/x/crypto/pbkdf2"
)

func TestRFC7914Vectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		password, salt string
		iter, keyLen   int
		want           string
	}{
		{
			name:     "one iteration",
			password: "passwd",
			salt:     "salt",
			iter:     1,
			keyLen:   64,
			want: "55ac046e56e3089fec1691c22544b605f94185216dde0465e68b9d57c20dacbc" +
				"49ca9cccf179b645991664b39d77ef317c71b845b1e30bd509112041d3a19783",
		},
		{
			name:     "80000 iterations",
			password: "Password",
			salt:     "NaCl",
			iter:     80000,
			keyLen:   64,
			want: "4ddcd8f60b98be21830cee5ef22701f9641a4418d04c0414aeff08876b34ab56" +
				"a1d425a1225833549adb841b51c9b3176a272bdebba1d078478f62b397f33c8d",
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got := Key([]byte(test.password), []byte(test.salt), test.iter, test.keyLen)

			assert.Equal(t, "derived key", test.want, hex.EncodeToString(got))
		})
	}
}

func TestPartialFinalBlock(t *testing.T) {
	t.Parallel()

	for _, keyLen := range []int{1, 31, 33, 50, 100} {
		got := Key([]byte("password"), []byte("salt"), 3, keyLen)
		want := xpbkdf2.Key([]byte("password"), []byte("salt"), 3, keyLen, sha256.New)

		assert.Equal(t, "derived key", want, got)
	}
}

func TestEmptyInputs(t *testing.T) {
	t.Parallel()

	got := Key(nil, nil, 2, 32)
	want := xpbkdf2.Key(nil, nil, 2, 32, sha256.New)

	assert.Equal(t, "derived key", want, got)
}

func BenchmarkKey(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Key([]byte("password"), []byte("salt"), 1000, 64)
	}
}
