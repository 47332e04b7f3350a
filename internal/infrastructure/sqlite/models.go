package sqlite

import (
	"time"

	"github.com/tkaster/curio/internal/registry"
)

// JournalEntry is a persisted event row. Payload holds the JSON-encoded
// outcome record; Seq is assigned by the database and totally orders the
// journal.
type JournalEntry struct {
	Seq        int64              `json:"seq"`
	EventType  registry.EventType `json:"event_type"`
	Payload    []byte             `json:"payload"`
	RecordedAt time.Time          `json:"recorded_at"`
}

// collectibleModel is the database row for the snapshot_collectibles table.
// Price is nullable; the textual id and attribute forms match the API wire
// format so rows are greppable with the sqlite3 shell.
type collectibleModel struct {
	ID        string
	Owner     string
	Price     *int64
	Attribute string
}

func toCollectibleModel(c registry.Collectible) collectibleModel {
	m := collectibleModel{
		ID:        c.ID.String(),
		Owner:     string(c.Owner),
		Attribute: c.Attribute.String(),
	}
	if c.Price != nil {
		price := int64(*c.Price) //nolint:gosec // G115: prices beyond int64 are rejected at the API boundary
		m.Price = &price
	}
	return m
}

func (m collectibleModel) toDomain() (registry.Collectible, error) {
	id, err := registry.ParseID(m.ID)
	if err != nil {
		return registry.Collectible{}, err
	}
	attr, err := registry.ParseAttribute(m.Attribute)
	if err != nil {
		return registry.Collectible{}, err
	}
	c := registry.Collectible{
		ID:        id,
		Owner:     registry.AccountID(m.Owner),
		Attribute: attr,
	}
	if m.Price != nil {
		price := registry.Amount(*m.Price) //nolint:gosec // G115: stored prices originate from validated amounts
		c.Price = &price
	}
	return c, nil
}
