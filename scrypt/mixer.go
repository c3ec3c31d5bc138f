package scrypt

import (
	"errors"

	"github.com/codahale/mpw/internal/salsa"
)

// ErrNoStorage is returned when a Mixer is configured with no V storage at
// all: no static region, no heap budget, and no external buffer.
var ErrNoStorage = errors.New("scrypt: no V storage configured")

// A Block is a 64-byte Salsa20 block in word form. V storage is measured and
// lent in Blocks.
type Block = salsa.Block

// staticBlocks is the capacity of the fixed region embedded in every Mixer,
// in Blocks (16 KiB). It stands in for the original's stack region and is
// consumed before the heap and external regions.
const staticBlocks = 256

// A ProgressFunc receives a monotonically non-decreasing percentage in
// [0, 100]. It is called on the deriving goroutine and must not mutate the
// session it reports for.
type ProgressFunc func(percent int)

func report(progress ProgressFunc, percent int) {
	if progress != nil {
		progress(percent)
	}
}

// A MixerConfig bounds the V storage available to a Mixer. The zero value
// leaves only the fixed static region, which is maximally sparse and slow;
// use FullConfig for the canonical speed/memory point.
type MixerConfig struct {
	// NoStatic disables the fixed in-struct region.
	NoStatic bool

	// HeapBytes is the number of bytes the Mixer may allocate for V. The
	// allocation is owned by the Mixer and wiped on Close.
	HeapBytes int

	// External is a caller-supplied region. It is borrowed, never wiped, and
	// must outlive the Mixer.
	External []Block
}

// FullConfig returns a config whose heap budget, together with the static
// region, stores every V entry for the given parameters, i.e. sparse factor 1.
// When the static region alone holds more than n entries the heap budget is
// zero and NewMixer's rounding rule gives sparse factor 2.
func FullConfig(n, r int) MixerConfig {
	heap := n - staticBlocks/(2*r)
	if heap < 0 {
		heap = 0
	}

	return MixerConfig{HeapBytes: heap * 128 * r}
}

// A Mixer runs scrypt's ROMix over a sparse V array. Only every sparse-th
// V entry is stored; phase two reconstructs intermediate entries on demand
// by re-running BlockMix from the nearest stored ancestor.
//
// A Mixer is stateful scratch plus storage and must not be shared between
// goroutines.
type Mixer struct {
	n, r   int
	sparse int

	static  [staticBlocks]salsa.Block
	heap    []salsa.Block
	global  []salsa.Block
	regions [3]int // region capacities in 128r-byte chunks: static, heap, global

	x, y, t []salsa.Block
}

// NewMixer returns a Mixer for the given cost parameters and storage config.
// With cap stored entries available across the three regions, the sparse
// factor is s = max(1, min(n, n/cap)), plus one when n is not a multiple of
// cap so the stored set still covers [0, n).
func NewMixer(n, r int, cfg MixerConfig) (*Mixer, error) {
	m := &Mixer{
		n: n,
		r: r,
		x: make([]salsa.Block, 2*r),
		y: make([]salsa.Block, 2*r),
		t: make([]salsa.Block, 2*r),
	}

	if !cfg.NoStatic {
		m.regions[0] = staticBlocks / (2 * r)
	}

	m.regions[1] = cfg.HeapBytes / (128 * r)
	if m.regions[1] > n {
		m.regions[1] = n
	}

	m.global = cfg.External
	m.regions[2] = len(cfg.External) / (2 * r)

	capacity := m.regions[0] + m.regions[1] + m.regions[2]
	if capacity == 0 {
		return nil, ErrNoStorage
	}

	m.sparse = n / capacity
	if m.sparse < 1 {
		m.sparse = 1
	}

	if m.sparse > n {
		m.sparse = n
	}

	if n%capacity != 0 {
		m.sparse++
	}

	if m.regions[1] > 0 {
		m.heap = make([]salsa.Block, m.regions[1]*2*r)
	}

	return m, nil
}

// SparseFactor returns the spacing between stored V entries.
func (m *Mixer) SparseFactor() int {
	return m.sparse
}

// vChunk returns the 2r-block storage slot for logical index i, routing the
// stored index through the static, heap, and global regions in order.
func (m *Mixer) vChunk(i int) []salsa.Block {
	k := i / m.sparse

	if k < m.regions[0] {
		return m.static[k*2*m.r : (k+1)*2*m.r]
	}

	k -= m.regions[0]

	if k < m.regions[1] {
		return m.heap[k*2*m.r : (k+1)*2*m.r]
	}

	k -= m.regions[1]

	return m.global[k*2*m.r : (k+1)*2*m.r]
}

// blockMix interleaves Salsa20/8 over the 2r blocks of in, writing the
// shuffled result (even indices first, then odd) to out. in and out must not
// overlap.
func blockMix(in, out []salsa.Block, r int) {
	x := in[2*r-1]

	for i := 0; i < 2*r; i++ {
		x.Xor(&in[i])
		x.Core8()
		out[r*(i&1)+(i>>1)] = x
	}
}

// integerify interprets the first word of the last block of x as a
// little-endian integer.
func integerify(x []salsa.Block, r int) uint32 {
	return x[2*r-1][0]
}

// ROMix mixes the 2r-block vector b in place. Progress is reported at 0%,
// 5% after the V build, and linearly to 100% over the second phase.
func (m *Mixer) ROMix(b []salsa.Block, progress ProgressFunc) {
	n, r := m.n, m.r

	report(progress, 0)

	copy(m.x, b)

	// Phase 1: build V. BlockMix runs all n steps; only every sparse-th
	// write is kept.
	for i := 0; i < n; i++ {
		if i%m.sparse == 0 {
			copy(m.vChunk(i), m.x)
		}

		blockMix(m.x, m.y, r)
		m.x, m.y = m.y, m.x
	}

	report(progress, 5)

	// Phase 2: integerify mix. V[j] is rebuilt from the nearest stored entry
	// at or below j.
	for i := 0; i < n; i++ {
		j := int(integerify(m.x, r) % uint32(n))

		copy(m.t, m.vChunk(j))
		for k := j / m.sparse * m.sparse; k < j; k++ {
			blockMix(m.t, m.y, r)
			m.t, m.y = m.y, m.t
		}

		for w := range m.t {
			m.t[w].Xor(&m.x[w])
		}

		blockMix(m.t, m.x, r)

		report(progress, 5+(i+1)*95/n)
	}

	copy(b, m.x)
}

// Mix runs ROMix over p consecutive 2r-block stripes of b, weighting each
// stripe as 1/p of the reported progress.
func (m *Mixer) Mix(b []salsa.Block, p int, progress ProgressFunc) {
	for i := 0; i < p; i++ {
		i := i

		m.ROMix(b[i*2*m.r:(i+1)*2*m.r], func(percent int) {
			report(progress, i*100/p+percent/p)
		})
	}
}

// Close wipes the owned storage and scratch. The external region is borrowed
// and left untouched.
func (m *Mixer) Close() {
	wipeBlocks(m.static[:])
	wipeBlocks(m.heap)
	wipeBlocks(m.x)
	wipeBlocks(m.y)
	wipeBlocks(m.t)
	m.heap = nil
}

func wipeBlocks(b []salsa.Block) {
	for i := range b {
		b[i] = salsa.Block{}
	}
}
