package accounts

import "context"

// Repo is the durable account store.
//
// Session list mutation is exposed only as single atomic push/pull operations; implementations
// must not read-modify-write the sessions collection.
type Repo interface {
	// FindByProviderID returns errors.ErrNotFound when no account has the provider id.
	FindByProviderID(ctx context.Context, providerID int64) (*Account, error)

	// InsertIfAbsent stores account unless one with the same provider id already exists.
	// created reports whether this call inserted it.
	InsertIfAbsent(ctx context.Context, account *Account) (created bool, err error)

	// FindBySession resolves the (internal id, provider id, session id) triple. All three must
	// match the same account; errors.ErrNotFound otherwise.
	FindBySession(ctx context.Context, internalID string, providerID int64, sessionID string) (*Account, error)

	// PushSession appends sessionID to the sessions of the account matching both ids.
	// errors.ErrStoreWriteFailure when nothing was modified.
	PushSession(ctx context.Context, internalID string, providerID int64, sessionID string) error

	// PullSession removes sessionID from whichever account holds it and returns that account
	// as it was before the removal. errors.ErrNotFound when no account holds it.
	PullSession(ctx context.Context, sessionID string) (*Account, error)
}
