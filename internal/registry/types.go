package registry

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// IDSize is the length of a collectible identifier in bytes.
const IDSize = 16

// ID is the opaque 16-byte identifier of a collectible.
type ID [IDSize]byte

// String renders the ID as lowercase hex. This is the canonical textual form
// used by the CLI, the HTTP API, and the journal.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether the ID is the all-zero value.
func (id ID) IsZero() bool {
	return id == ID{}
}

// MarshalText implements encoding.TextMarshaler using the canonical hex form.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ErrInvalidID indicates a textual identifier that is not 32 hex characters.
var ErrInvalidID = errors.New("invalid collectible id")

// ParseID parses the canonical hex form produced by ID.String.
func ParseID(s string) (ID, error) {
	var id ID
	if len(s) != IDSize*2 {
		return ID{}, ErrInvalidID
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, ErrInvalidID
	}
	copy(id[:], b)
	return id, nil
}

// AccountID identifies a caller or owner. It is produced by the host's
// authentication collaborator and is opaque to the registry.
type AccountID string

// Amount is the opaque monetary value type. The registry compares amounts but
// never performs arithmetic on them; checked arithmetic lives in the bank
// collaborator.
type Amount uint64

// Attribute is the collectible attribute tag.
//
// All four variants are part of the wire and storage contract even though
// GenerateID currently only produces Red and Yellow. Blue and Green are kept
// deliberately; collapsing the enum would change the encoding of every
// collectible.
type Attribute int

const (
	// AttributeRed is produced when the first identifier byte is even.
	AttributeRed Attribute = iota
	// AttributeYellow is produced when the first identifier byte is odd.
	AttributeYellow
	// AttributeBlue is declared but currently unreachable via GenerateID.
	AttributeBlue
	// AttributeGreen is declared but currently unreachable via GenerateID.
	AttributeGreen
)

// String returns the attribute name.
func (a Attribute) String() string {
	switch a {
	case AttributeRed:
		return "red"
	case AttributeYellow:
		return "yellow"
	case AttributeBlue:
		return "blue"
	case AttributeGreen:
		return "green"
	default:
		return fmt.Sprintf("attribute(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler using the attribute name.
func (a Attribute) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Attribute) UnmarshalText(text []byte) error {
	parsed, err := ParseAttribute(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAttribute parses the textual form produced by Attribute.String.
func ParseAttribute(s string) (Attribute, error) {
	switch s {
	case "red":
		return AttributeRed, nil
	case "yellow":
		return AttributeYellow, nil
	case "blue":
		return AttributeBlue, nil
	case "green":
		return AttributeGreen, nil
	default:
		return 0, fmt.Errorf("unknown attribute %q", s)
	}
}

// Collectible is the core entity of the registry.
type Collectible struct {
	// ID is the unique identifier assigned at mint.
	ID ID
	// Owner is the account that currently owns the collectible.
	Owner AccountID
	// Price is the marketplace listing price. nil means not for sale.
	// Any ownership change resets Price to nil.
	Price *Amount
	// Attribute is the tag assigned at mint.
	Attribute Attribute
}

// Listed reports whether the collectible is currently for sale.
func (c Collectible) Listed() bool {
	return c.Price != nil
}

// clonePrice returns a copy of the price pointer so that staged copies never
// alias stored state.
func clonePrice(p *Amount) *Amount {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a deep copy of the collectible.
func (c Collectible) Clone() Collectible {
	c.Price = clonePrice(c.Price)
	return c
}
