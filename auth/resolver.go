package auth

import (
	"context"
	"strconv"

	"github.com/jrsteele09/go-blog-server/accounts"
	"github.com/jrsteele09/go-blog-server/internal/errors"
)

// Resolver turns an ephemeral session into the durable account it was issued for.
type Resolver struct {
	accounts accounts.Repo
}

func NewResolver(repo accounts.Repo) (*Resolver, error) {
	if repo == nil {
		return nil, errors.New("[NewResolver] accounts repo is required")
	}
	return &Resolver{accounts: repo}, nil
}

// Resolve reads the session, uuid and provider_id fields and looks up the account that holds
// all three. It never writes to either store.
//
// A missing or unparseable field fails with errors.ErrSessionAbsent; no triple match fails with
// errors.ErrAccountNotFound.
func (r *Resolver) Resolve(ctx context.Context, sess Session) (*accounts.Account, error) {
	if sess == nil {
		return nil, errors.Wrapf(errors.ErrSessionAbsent, "[Resolve] no session")
	}

	sessionID, err := requireField(ctx, sess, KeySession)
	if err != nil {
		return nil, err
	}
	internalID, err := requireField(ctx, sess, KeyUUID)
	if err != nil {
		return nil, err
	}
	rawProviderID, err := requireField(ctx, sess, KeyProviderID)
	if err != nil {
		return nil, err
	}
	providerID, err := strconv.ParseInt(rawProviderID, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSessionAbsent, "[Resolve] provider_id %q", rawProviderID)
	}

	account, err := r.accounts.FindBySession(ctx, internalID, providerID, sessionID)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.Wrapf(errors.ErrAccountNotFound, "[Resolve]")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[Resolve] find by session")
	}
	return account, nil
}

func requireField(ctx context.Context, sess Session, field string) (string, error) {
	v, ok, err := sess.Get(ctx, field)
	if err != nil {
		return "", errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[Resolve] read %s", field)
	}
	if !ok || v == "" {
		return "", errors.Wrapf(errors.ErrSessionAbsent, "[Resolve] missing %s", field)
	}
	return v, nil
}
