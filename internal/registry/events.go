package registry

// Outcome records deposited by successful operations. Exactly one record is
// produced per success; failures produce nothing. Records are published on
// the event bus and persisted in the journal.

// EventType identifies the kind of outcome record for routing and storage.
type EventType string

const (
	// TypeCollectibleCreated records a successful mint.
	TypeCollectibleCreated EventType = "collectible.created"
	// TypeCollectibleDestroyed records a successful destroy.
	TypeCollectibleDestroyed EventType = "collectible.destroyed"
	// TypeTransferSucceeded records a successful plain transfer.
	TypeTransferSucceeded EventType = "collectible.transferred"
	// TypePriceSet records a listing price being set.
	TypePriceSet EventType = "collectible.price_set"
	// TypeNotLongerOnSale records a collectible being retired from the market.
	TypeNotLongerOnSale EventType = "collectible.delisted"
	// TypeSold records a successful purchase.
	TypeSold EventType = "collectible.sold"
)

// Event is implemented by every outcome record.
type Event interface {
	EventType() EventType
}

// CollectibleCreated is deposited when a new collectible is minted.
type CollectibleCreated struct {
	ID    ID        `json:"id"`
	Owner AccountID `json:"owner"`
}

// EventType implements Event.
func (CollectibleCreated) EventType() EventType { return TypeCollectibleCreated }

// CollectibleDestroyed is deposited when a collectible is destroyed.
type CollectibleDestroyed struct {
	ID ID `json:"id"`
}

// EventType implements Event.
func (CollectibleDestroyed) EventType() EventType { return TypeCollectibleDestroyed }

// TransferSucceeded is deposited when a collectible changes owner outside the
// marketplace.
type TransferSucceeded struct {
	From AccountID `json:"from"`
	To   AccountID `json:"to"`
	ID   ID        `json:"id"`
}

// EventType implements Event.
func (TransferSucceeded) EventType() EventType { return TypeTransferSucceeded }

// PriceSet is deposited when an owner lists a collectible for sale.
type PriceSet struct {
	ID    ID     `json:"id"`
	Price Amount `json:"price"`
}

// EventType implements Event.
func (PriceSet) EventType() EventType { return TypePriceSet }

// NotLongerOnSale is deposited when an owner retires a collectible from the
// market.
type NotLongerOnSale struct {
	ID ID `json:"id"`
}

// EventType implements Event.
func (NotLongerOnSale) EventType() EventType { return TypeNotLongerOnSale }

// Sold is deposited when a purchase settles. Price is the listed price that
// was charged, which may be below what the buyer offered.
type Sold struct {
	Seller AccountID `json:"seller"`
	Buyer  AccountID `json:"buyer"`
	ID     ID        `json:"id"`
	Price  Amount    `json:"price"`
}

// EventType implements Event.
func (Sold) EventType() EventType { return TypeSold }
