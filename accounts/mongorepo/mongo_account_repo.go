package mongorepo

import (
	"context"

	"github.com/jrsteele09/go-blog-server/accounts"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var _ accounts.Repo = (*AccountRepo)(nil)

const (
	fieldProviderID = "provider_id"
	fieldInternalID = "uuid"
	fieldSessions   = "sessions"
	fieldSessionID  = "session_id"
)

// AccountRepo stores accounts in a MongoDB collection, one document per provider identity
// with the session handles embedded.
type AccountRepo struct {
	collection *mongo.Collection
}

func New(collection *mongo.Collection) *AccountRepo {
	return &AccountRepo{collection: collection}
}

// EnsureIndexes creates the unique provider id index InsertIfAbsent relies on, and the
// multikey index used by session lookups.
func (r *AccountRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: fieldProviderID, Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: fieldSessions + "." + fieldSessionID, Value: 1}},
		},
	})
	if err != nil {
		return errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[AccountRepo EnsureIndexes]")
	}
	return nil
}

func (r *AccountRepo) FindByProviderID(ctx context.Context, providerID int64) (*accounts.Account, error) {
	return r.findOne(ctx, providerFilter(providerID))
}

// InsertIfAbsent upserts on the unique provider id, writing the document only on insert, so
// concurrent first logins converge on one account. A duplicate key error from a racing upsert
// means the other request won, which is reported as not created.
func (r *AccountRepo) InsertIfAbsent(ctx context.Context, account *accounts.Account) (bool, error) {
	if account == nil {
		return false, errors.New("[AccountRepo InsertIfAbsent] account is required")
	}
	res, err := r.collection.UpdateOne(ctx,
		providerFilter(account.ProviderID),
		insertOnlyUpdate(account),
		options.UpdateOne().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[AccountRepo InsertIfAbsent]")
	}
	return res.UpsertedCount == 1, nil
}

func (r *AccountRepo) FindBySession(ctx context.Context, internalID string, providerID int64, sessionID string) (*accounts.Account, error) {
	return r.findOne(ctx, sessionFilter(internalID, providerID, sessionID))
}

func (r *AccountRepo) PushSession(ctx context.Context, internalID string, providerID int64, sessionID string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.D{{Key: fieldInternalID, Value: internalID}, {Key: fieldProviderID, Value: providerID}},
		pushSessionUpdate(sessionID),
	)
	if err != nil {
		return errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[AccountRepo PushSession]")
	}
	if res.ModifiedCount == 0 {
		return errors.Wrapf(errors.ErrStoreWriteFailure, "[AccountRepo PushSession] no account matched provider id %d", providerID)
	}
	return nil
}

func (r *AccountRepo) PullSession(ctx context.Context, sessionID string) (*accounts.Account, error) {
	var account accounts.Account
	err := r.collection.FindOneAndUpdate(ctx,
		bson.D{{Key: fieldSessions + "." + fieldSessionID, Value: sessionID}},
		pullSessionUpdate(sessionID),
	).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[AccountRepo PullSession]")
	}
	return &account, nil
}

func (r *AccountRepo) findOne(ctx context.Context, filter bson.D) (*accounts.Account, error) {
	var account accounts.Account
	err := r.collection.FindOne(ctx, filter).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[AccountRepo findOne]")
	}
	return &account, nil
}

func providerFilter(providerID int64) bson.D {
	return bson.D{{Key: fieldProviderID, Value: providerID}}
}

// sessionFilter is the triple match: a session id minted for one account cannot be
// replayed with another account's ids.
func sessionFilter(internalID string, providerID int64, sessionID string) bson.D {
	return bson.D{
		{Key: fieldInternalID, Value: internalID},
		{Key: fieldProviderID, Value: providerID},
		{Key: fieldSessions + "." + fieldSessionID, Value: sessionID},
	}
}

func insertOnlyUpdate(account *accounts.Account) bson.D {
	return bson.D{{Key: "$setOnInsert", Value: bson.D{
		{Key: fieldInternalID, Value: account.InternalID},
		{Key: "name", Value: account.Name},
		{Key: "email", Value: account.Email},
		{Key: "elevated", Value: account.Elevated},
		{Key: fieldSessions, Value: bson.A{}},
	}}}
}

func pushSessionUpdate(sessionID string) bson.D {
	return bson.D{{Key: "$push", Value: bson.D{
		{Key: fieldSessions, Value: bson.D{{Key: fieldSessionID, Value: sessionID}}},
	}}}
}

func pullSessionUpdate(sessionID string) bson.D {
	return bson.D{{Key: "$pull", Value: bson.D{
		{Key: fieldSessions, Value: bson.D{{Key: fieldSessionID, Value: sessionID}}},
	}}}
}
