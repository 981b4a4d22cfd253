// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

package accounts

import (
	"fmt"
	"sync"

	"github.com/cielu/go-solana/common"
	"github.com/cielu/go-solana/corelog"
)

// ErrNotFound is returned when an address has no account.
var ErrNotFound = fmt.Errorf("accounts: not found")

// ErrAlreadyExists is returned by CreateAccount when the address is already
// populated.
var ErrAlreadyExists = fmt.Errorf("accounts: already exists")

// Store is the account-state contract used by the SVM pipeline and the RPC
// dispatcher. CommitChanges is the single-writer boundary: the SVM pipeline
// stages writes into an overlay (via UpdateAccount/CreateAccount during
// speculative execution) and only CommitChanges makes them visible to
// concurrent readers going forward — callers that want the overlay
// discarded instead call DiscardOverlay.
type Store interface {
	CreateAccount(addr common.Address, acc *Account) error
	UpdateAccount(addr common.Address, acc *Account) error
	GetAccount(addr common.Address) (*Account, error)
	AccountExists(addr common.Address) bool
	GetProgramAccounts(owner common.Address) ([]*Account, error)
	GetAccountsByOwner(owner common.Address) ([]*Account, error)
	GetAllAccounts() []*Account
	CommitChanges() error
	DiscardOverlay()
}

// OverlayStore layers a speculative write-set (overlay) over a committed
// base map. Reads check the overlay first; CommitChanges folds it into base
// and clears it, giving the SVM pipeline a cheap all-or-nothing write
// barrier per transaction without copying the whole account set.
type OverlayStore struct {
	mu      sync.RWMutex
	base    map[common.Address]*Account
	overlay map[common.Address]*Account
	// ownerIndex maps an owner address to the set of addresses it owns,
	// covering both base and overlay so GetAccountsByOwner never misses a
	// pending write.
	ownerIndex map[common.Address]map[common.Address]struct{}
	log        *corelog.Logger
}

// NewOverlayStore returns an empty account store.
func NewOverlayStore() *OverlayStore {
	return &OverlayStore{
		base:       make(map[common.Address]*Account),
		overlay:    make(map[common.Address]*Account),
		ownerIndex: make(map[common.Address]map[common.Address]struct{}),
		log:        corelog.New("accounts"),
	}
}

func (s *OverlayStore) indexOwner(owner, addr common.Address) {
	set, ok := s.ownerIndex[owner]
	if !ok {
		set = make(map[common.Address]struct{})
		s.ownerIndex[owner] = set
	}
	set[addr] = struct{}{}
}

func (s *OverlayStore) CreateAccount(addr common.Address, acc *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.overlay[addr]; ok {
		return ErrAlreadyExists
	}
	if _, ok := s.base[addr]; ok {
		return ErrAlreadyExists
	}

	cp := acc.Clone()
	cp.Address = addr
	s.overlay[addr] = cp
	s.indexOwner(cp.Owner, addr)
	return nil
}

// UpdateAccount overwrites addr's account. It returns ErrNotFound if addr has
// no existing account in base or overlay. Note: if this changes Owner, the
// address stays indexed under its previous owner too until CommitChanges;
// owner reassignment is rare enough in practice that the stale index entry
// is left for the next GetAccountsByOwner to filter out via lookupLocked.
func (s *OverlayStore) UpdateAccount(addr common.Address, acc *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookupLocked(addr); !ok {
		return ErrNotFound
	}

	cp := acc.Clone()
	cp.Address = addr
	s.overlay[addr] = cp
	s.indexOwner(cp.Owner, addr)
	return nil
}

func (s *OverlayStore) lookupLocked(addr common.Address) (*Account, bool) {
	if acc, ok := s.overlay[addr]; ok {
		return acc, true
	}
	if acc, ok := s.base[addr]; ok {
		return acc, true
	}
	return nil, false
}

func (s *OverlayStore) GetAccount(addr common.Address) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.lookupLocked(addr)
	if !ok {
		return nil, ErrNotFound
	}
	return acc.Clone(), nil
}

func (s *OverlayStore) AccountExists(addr common.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.lookupLocked(addr)
	return ok
}

// GetProgramAccounts returns every account owned by owner whose Executable
// flag is set, i.e. every loaded program under that loader.
func (s *OverlayStore) GetProgramAccounts(owner common.Address) ([]*Account, error) {
	all, err := s.GetAccountsByOwner(owner)
	if err != nil {
		return nil, err
	}
	out := make([]*Account, 0, len(all))
	for _, a := range all {
		if a.Executable {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *OverlayStore) GetAccountsByOwner(owner common.Address) ([]*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.ownerIndex[owner]
	if !ok {
		return nil, nil
	}
	out := make([]*Account, 0, len(set))
	for addr := range set {
		if acc, ok := s.lookupLocked(addr); ok && acc.Owner == owner {
			out = append(out, acc.Clone())
		}
	}
	return out, nil
}

func (s *OverlayStore) GetAllAccounts() []*Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[common.Address]struct{}, len(s.base)+len(s.overlay))
	out := make([]*Account, 0, len(s.base)+len(s.overlay))
	for addr, acc := range s.overlay {
		seen[addr] = struct{}{}
		out = append(out, acc.Clone())
	}
	for addr, acc := range s.base {
		if _, ok := seen[addr]; ok {
			continue
		}
		out = append(out, acc.Clone())
	}
	return out
}

// CommitChanges folds the overlay into base and clears it.
func (s *OverlayStore) CommitChanges() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for addr, acc := range s.overlay {
		s.base[addr] = acc
	}
	n := len(s.overlay)
	s.overlay = make(map[common.Address]*Account)
	s.log.Debug("committed %d account change(s)", n)
	return nil
}

// DiscardOverlay drops every pending write without touching base, the path
// taken when a transaction's execution fails after accounts were loaded and
// speculatively mutated.
func (s *OverlayStore) DiscardOverlay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = make(map[common.Address]*Account)
}
