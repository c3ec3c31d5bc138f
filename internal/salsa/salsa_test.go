package salsa

import (
	"encoding/hex"
	"testing"

	"github.com/codahale/gubbins/assert"
)

// Salsa20/8 core example from RFC 7914, section 8.
func TestCore8Vector(t *testing.T) {
	t.Parallel()

	in, _ := hex.DecodeString(
		"7e879a214f3ec9867ca940e641718f26" +
			"baee555b8c61c1b50df846116dcd3b1d" +
			"ee24f319df9b3d8514121e4b5ac5aa32" +
			"76021d2909c74829edebc68db8b8c25e")
	want, _ := hex.DecodeString(
		"a41f859c6608cc993b81cacb020cef05" +
			"044b2181a2fd337dfd7b1c6396682f29" +
			"b4393168e3c9e6bcfe6bc5b7a06d96ba" +
			"e424cc102c91745c24ad673dc7618f81")

	var b Block
	b.Decode(in)
	b.Core8()

	got := make([]byte, BlockSize)
	b.Encode(got)

	assert.Equal(t, "salsa20/8 core", want, got)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	in := make([]byte, BlockSize)
	for i := range in {
		in[i] = byte(i * 5)
	}

	var b Block
	b.Decode(in)

	out := make([]byte, BlockSize)
	b.Encode(out)

	assert.Equal(t, "round trip", in, out)
}

func TestXorOf(t *testing.T) {
	t.Parallel()

	var x, y, z Block
	for i := range x {
		x[i] = uint32(i)
		y[i] = uint32(i * 3)
	}

	z.XorOf(&x, &y)

	for i := range z {
		if z[i] != x[i]^y[i] {
			t.Fatalf("z[%d] = %08x, want %08x", i, z[i], x[i]^y[i])
		}
	}
}
