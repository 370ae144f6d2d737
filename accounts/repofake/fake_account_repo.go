package fakeaccountrepo

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-blog-server/accounts"
	"github.com/jrsteele09/go-blog-server/internal/errors"
)

var _ accounts.Repo = (*FakeAccountRepo)(nil)

// FakeAccountRepo is an in-memory accounts.Repo. Each method holds the lock for its whole
// duration, which gives the same single-document atomicity as the Mongo implementation.
type FakeAccountRepo struct {
	lock     sync.RWMutex
	accounts map[int64]*accounts.Account // provider id -> account
	order    []int64
}

func NewFakeAccountRepo() *FakeAccountRepo {
	return &FakeAccountRepo{
		accounts: make(map[int64]*accounts.Account),
	}
}

func (r *FakeAccountRepo) FindByProviderID(_ context.Context, providerID int64) (*accounts.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	a, ok := r.accounts[providerID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return a.Clone(), nil
}

func (r *FakeAccountRepo) InsertIfAbsent(_ context.Context, account *accounts.Account) (bool, error) {
	if account == nil {
		return false, errors.New("account is required")
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.accounts[account.ProviderID]; ok {
		return false, nil
	}
	stored := account.Clone()
	if stored.Sessions == nil {
		stored.Sessions = []accounts.SessionHandle{}
	}
	r.accounts[account.ProviderID] = stored
	r.order = append(r.order, account.ProviderID)
	return true, nil
}

func (r *FakeAccountRepo) FindBySession(_ context.Context, internalID string, providerID int64, sessionID string) (*accounts.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	a, ok := r.accounts[providerID]
	if !ok || a.InternalID != internalID || !a.HasSession(sessionID) {
		return nil, errors.ErrNotFound
	}
	return a.Clone(), nil
}

func (r *FakeAccountRepo) PushSession(_ context.Context, internalID string, providerID int64, sessionID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	a, ok := r.accounts[providerID]
	if !ok || a.InternalID != internalID {
		return errors.Wrapf(errors.ErrStoreWriteFailure, "[PushSession] no account matched")
	}
	a.Sessions = append(a.Sessions, accounts.SessionHandle{SessionID: sessionID})
	return nil
}

func (r *FakeAccountRepo) PullSession(_ context.Context, sessionID string) (*accounts.Account, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, providerID := range r.order {
		a := r.accounts[providerID]
		if !a.HasSession(sessionID) {
			continue
		}
		before := a.Clone()
		kept := a.Sessions[:0]
		for _, s := range a.Sessions {
			if s.SessionID != sessionID {
				kept = append(kept, s)
			}
		}
		a.Sessions = kept
		return before, nil
	}
	return nil, errors.ErrNotFound
}

// SetElevated stands in for the out-of-band administrative process.
func (r *FakeAccountRepo) SetElevated(providerID int64, elevated bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	a, ok := r.accounts[providerID]
	if !ok {
		return errors.ErrNotFound
	}
	a.Elevated = elevated
	return nil
}

// Count returns the number of stored accounts.
func (r *FakeAccountRepo) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.accounts)
}
