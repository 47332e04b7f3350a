// Package registry implements the domain layer for the curio collectible registry.
//
// This package follows Domain-Driven Design (DDD) principles:
//   - Contains only pure Go code (standard library plus a hash primitive)
//   - Defines the core entity (Collectible) and value objects (ID, AccountID, Amount, Attribute)
//   - Implements domain logic (identifier generation, bounded owner collections)
//   - Has no knowledge of infrastructure concerns (persistence, transport, config)
//
// # Core Types
//
// Collectible is the core entity: a unique 16-byte ID, a current owner, an
// optional listing price (nil means not for sale), and an Attribute tag.
//
// ID is an opaque 16-byte identifier derived by GenerateID from caller-supplied
// entropy plus an operation index and height. Generation is deterministic given
// its inputs; uniqueness against existing state is the minting caller's job.
//
// Amount is the opaque monetary value type. The registry only ever compares
// amounts; arithmetic (with overflow checking) belongs to the settlement
// collaborator in internal/bank.
//
// # Owner Collections
//
// AppendOwned and RemoveOwned implement the per-account bounded collection of
// owned IDs. RemoveOwned uses swap-with-last removal and therefore does not
// preserve the relative order of remaining elements; callers must not rely on
// ordering.
//
// # Errors and Events
//
// All operation failures are sentinel errors declared in errors.go. Every
// successful operation produces exactly one outcome record from events.go;
// failed operations produce nothing and mutate nothing.
package registry
