package registry

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// EntropyDomainTag is the domain tag minting passes to the randomness source.
const EntropyDomainTag = "unique_id"

// GenerateID derives a fresh collectible identifier and its attribute tag.
//
// The payload is the caller-supplied entropy followed by the big-endian
// operation index and height; both disambiguators keep two mints with the
// same entropy draw from colliding. The payload is hashed with BLAKE2b-128
// and the digest is the identifier. The attribute comes from the parity of
// the first digest byte: even is red, odd is yellow. Blue and green are never
// produced here.
//
// Generation is fully deterministic given its inputs. Uniqueness against the
// existing store is the caller's responsibility; a collision surfaces as
// ErrDuplicateCollectible at the mint site.
func GenerateID(entropy []byte, opIndex uint32, height uint64) (ID, Attribute) {
	payload := make([]byte, 0, len(entropy)+12)
	payload = append(payload, entropy...)
	payload = binary.BigEndian.AppendUint32(payload, opIndex)
	payload = binary.BigEndian.AppendUint64(payload, height)

	// Size is within blake2b's limits, so New cannot fail with a nil key.
	h, err := blake2b.New(IDSize, nil)
	if err != nil {
		panic(err)
	}
	h.Write(payload)

	var id ID
	copy(id[:], h.Sum(nil))

	attr := AttributeYellow
	if id[0]%2 == 0 {
		attr = AttributeRed
	}
	return id, attr
}
