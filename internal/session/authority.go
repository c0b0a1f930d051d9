// Package session holds the resolved identity of the current application session.
//
// The Authority is constructed once per application instance and shared by
// the navigation guard and any component that needs the role. It has no
// asynchronous logic of its own and never persists state.
package session

import "sync"

// Generation orders writes from concurrent navigations. Higher is newer.
type Generation uint64

// Authority stores the last resolved Profile and the Role derived from it.
//
// Role is present iff a profile is stored and its Role is non-empty. Both
// fields only change together through SetProfile/Clear or their sequenced
// variants.
type Authority struct {
	mu      sync.RWMutex
	profile *Profile
	role    Role

	issued  Generation // last ticket handed out by Begin
	applied Generation // generation of the last applied write
}

// NewAuthority returns an empty Authority.
func NewAuthority() *Authority {
	return &Authority{}
}

// SetProfile stores p and derives the role. A nil profile behaves like Clear.
// Unsequenced writes always win and supersede every outstanding ticket.
func (a *Authority) SetProfile(p *Profile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.issued++
	a.applied = a.issued
	a.set(p)
}

// Clear forgets the profile and role.
func (a *Authority) Clear() {
	a.SetProfile(nil)
}

// Begin hands out a ticket for a sequenced write.
func (a *Authority) Begin() Generation {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.issued++
	return a.issued
}

// SetProfileAt stores p unless a write from a newer generation has already
// been applied. It reports whether the write was applied.
func (a *Authority) SetProfileAt(gen Generation, p *Profile) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen < a.applied {
		return false
	}
	a.applied = gen
	a.set(p)
	return true
}

// ClearAt is the sequenced form of Clear.
func (a *Authority) ClearAt(gen Generation) bool {
	return a.SetProfileAt(gen, nil)
}

func (a *Authority) set(p *Profile) {
	if p == nil {
		a.profile = nil
		a.role = ""
		return
	}
	cp := *p
	a.profile = &cp
	a.role = cp.Role
}

// Profile returns a copy of the stored profile, or nil.
func (a *Authority) Profile() *Profile {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.profile == nil {
		return nil
	}
	cp := *a.profile
	return &cp
}

// Role returns the current role and whether one is known.
func (a *Authority) Role() (Role, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.role, a.role != ""
}

// IsAdmin reports whether the current role is exactly RoleAdmin.
func (a *Authority) IsAdmin() bool {
	role, _ := a.Role()
	return role == RoleAdmin
}
