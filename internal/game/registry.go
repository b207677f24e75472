package game

import "github.com/zyedidia/generic/mapset"

// TargetRegistry records which structures are already claimed by a worker so
// workers spread across jobs. One registry is shared by every worker of a Sim.
type TargetRegistry struct {
	claimed mapset.Set[int]
}

// NewTargetRegistry returns an empty registry.
func NewTargetRegistry() *TargetRegistry {
	return &TargetRegistry{claimed: mapset.New[int]()}
}

// Claim marks id as taken. It returns false if it was already claimed.
func (r *TargetRegistry) Claim(id int) bool {
	if r.claimed.Has(id) {
		return false
	}
	r.claimed.Put(id)
	return true
}

// Release frees id. Releasing an unclaimed id is a no-op.
func (r *TargetRegistry) Release(id int) {
	r.claimed.Remove(id)
}

// IsClaimed reports whether id is currently taken.
func (r *TargetRegistry) IsClaimed(id int) bool { return r.claimed.Has(id) }

// Len returns the number of claimed targets.
func (r *TargetRegistry) Len() int { return r.claimed.Size() }

// Reset drops every claim.
func (r *TargetRegistry) Reset() { r.claimed = mapset.New[int]() }
