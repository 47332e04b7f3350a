package testutil

import "github.com/tkaster/curio/internal/registry"

// CollectibleOption configures a collectible during builder setup.
type CollectibleOption func(*registry.Collectible)

// ListedAt marks the collectible as for sale at the given price.
func ListedAt(price registry.Amount) CollectibleOption {
	return func(c *registry.Collectible) { c.Price = &price }
}

// Tagged sets the attribute.
func Tagged(attr registry.Attribute) CollectibleOption {
	return func(c *registry.Collectible) { c.Attribute = attr }
}

// MakeID returns a deterministic identifier with the given leading byte.
// Handy for tests that need distinct but recognizable ids.
func MakeID(b byte) registry.ID {
	return registry.ID{b}
}
