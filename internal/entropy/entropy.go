// Package entropy provides the randomness and sequencing collaborators that
// feed identifier generation. Draws are synchronous and fully determined by
// the supplied inputs at call time; there is no background generation or
// caching.
package entropy

import (
	crand "crypto/rand"
	"sync"
)

// DrawSize is the number of random bytes returned per draw.
const DrawSize = 32

// Source supplies the externally provided randomness for identifier
// generation. The domain tag separates independent uses of the same source.
type Source interface {
	Random(domainTag []byte) []byte
}

// CryptoSource draws from crypto/rand.
type CryptoSource struct{}

// Random returns DrawSize bytes of high-entropy randomness. The domain tag is
// mixed in by prefixing the draw, so distinct tags can never yield identical
// outputs for the same underlying bytes.
func (CryptoSource) Random(domainTag []byte) []byte {
	buf := make([]byte, 0, len(domainTag)+DrawSize)
	buf = append(buf, domainTag...)
	random := make([]byte, DrawSize)
	if _, err := crand.Read(random); err != nil {
		// crypto/rand only fails when the platform's randomness source is
		// broken, which is not a recoverable condition for a registry that
		// must never mint colliding identifiers.
		panic(err)
	}
	return append(buf, random...)
}

// FixedSource returns a constant draw. Test use only: it makes identifier
// generation fully reproducible.
type FixedSource struct {
	Bytes []byte
}

// Random returns the fixed bytes prefixed with the domain tag.
func (s FixedSource) Random(domainTag []byte) []byte {
	buf := make([]byte, 0, len(domainTag)+len(s.Bytes))
	buf = append(buf, domainTag...)
	return append(buf, s.Bytes...)
}

// Context reports the sequencing disambiguators mixed into each identifier:
// the index of the operation within the current height, and the height
// itself. The host advances both.
type Context interface {
	OpContext() (opIndex uint32, height uint64)
}

// Sequence is a monotonic Context for hosts that process one operation at a
// time. Tick advances the op index; AdvanceHeight starts a new height and
// resets the index, mirroring a block boundary.
type Sequence struct {
	mu      sync.Mutex
	opIndex uint32
	height  uint64
}

// NewSequence creates a Sequence starting at the given height.
func NewSequence(height uint64) *Sequence {
	return &Sequence{height: height}
}

// OpContext returns the current op index and height.
func (s *Sequence) OpContext() (uint32, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opIndex, s.height
}

// Tick advances the op index.
func (s *Sequence) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opIndex++
}

// AdvanceHeight increments the height and resets the op index.
func (s *Sequence) AdvanceHeight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.height++
	s.opIndex = 0
}

// FixedContext is a Context with constant values, for tests.
type FixedContext struct {
	OpIndex uint32
	Height  uint64
}

// OpContext returns the fixed values.
func (c FixedContext) OpContext() (uint32, uint64) {
	return c.OpIndex, c.Height
}
