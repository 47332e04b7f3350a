package registry

// AppendOwned returns a copy of owned with id appended, enforcing the
// per-account bound. It returns ErrMaximumOwned when the collection is
// already at max. The input slice is never mutated, so callers can stage the
// result and discard it on a later failure.
func AppendOwned(owned []ID, id ID, max uint32) ([]ID, error) {
	if uint32(len(owned)) >= max {
		return nil, ErrMaximumOwned
	}
	next := make([]ID, len(owned), len(owned)+1)
	copy(next, owned)
	return append(next, id), nil
}

// RemoveOwned returns a copy of owned with id removed.
//
// Removal is scan then swap-with-last then truncate: O(1) after the scan, but
// the relative order of the remaining elements is NOT preserved. The owner
// index carries no ordering invariant and consumers must not rely on one;
// this unordered removal is the binding contract.
//
// If id is absent the copy is returned unchanged. Absence indicates a prior
// invariant violation (the caller already confirmed ownership), so there is
// nothing sensible to report here.
func RemoveOwned(owned []ID, id ID) []ID {
	next := make([]ID, len(owned))
	copy(next, owned)
	for i := range next {
		if next[i] == id {
			next[i] = next[len(next)-1]
			return next[:len(next)-1]
		}
	}
	return next
}

// ContainsOwned reports whether id is present in owned.
func ContainsOwned(owned []ID, id ID) bool {
	for _, o := range owned {
		if o == id {
			return true
		}
	}
	return false
}
