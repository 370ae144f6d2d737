package auth

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-blog-server/accounts"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/internal/utils"
	"github.com/rs/zerolog/log"
)

const (
	MinStateLength     = 30
	MinSessionIDLength = 64
)

// Service runs the login handshake: it issues the anti-forgery state, completes the provider
// callback and links the resulting account session into the browser's ephemeral session.
type Service struct {
	*Resolver

	accounts        accounts.Repo
	provider        Provider
	hasher          StateHasher
	stateLength     int
	sessionIDLength int
	newInternalID   func() string
	randomString    func(n int) (string, error)
}

type ServiceOption func(*Service)

func WithStateHasher(h StateHasher) ServiceOption {
	return func(s *Service) {
		s.hasher = h
	}
}

func WithStateLength(n int) ServiceOption {
	return func(s *Service) {
		s.stateLength = n
	}
}

func WithSessionIDLength(n int) ServiceOption {
	return func(s *Service) {
		s.sessionIDLength = n
	}
}

// WithInternalIDFunc replaces the generator for new accounts' internal ids (primarily for testing)
func WithInternalIDFunc(f func() string) ServiceOption {
	return func(s *Service) {
		s.newInternalID = f
	}
}

// WithRandomStringFunc replaces the state and session id generator (primarily for testing)
func WithRandomStringFunc(f func(n int) (string, error)) ServiceOption {
	return func(s *Service) {
		s.randomString = f
	}
}

func NewService(repo accounts.Repo, p Provider, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[NewService] accounts repo is required")
	}
	if p == nil {
		return nil, errors.New("[NewService] provider is required")
	}
	resolver, err := NewResolver(repo)
	if err != nil {
		return nil, errors.Wrapf(err, "[NewService]")
	}

	s := &Service{
		Resolver:        resolver,
		accounts:        repo,
		provider:        p,
		hasher:          NewBcryptStateHasher(0),
		stateLength:     MinStateLength,
		sessionIDLength: MinSessionIDLength,
		newInternalID:   uuid.NewString,
		randomString:    utils.RandomAlphanumeric,
	}
	for _, opt := range options {
		opt(s)
	}

	if s.hasher == nil {
		return nil, errors.New("[NewService] state hasher is required")
	}
	if s.stateLength < MinStateLength {
		return nil, errors.New("[NewService] state length must be at least " + strconv.Itoa(MinStateLength))
	}
	if s.sessionIDLength < MinSessionIDLength {
		return nil, errors.New("[NewService] session id length must be at least " + strconv.Itoa(MinSessionIDLength))
	}
	return s, nil
}

// BeginLogin stores the hash of a fresh state under the auth field and returns the provider
// URL to redirect the browser to. The URL carries the plaintext state, never the hash.
func (s *Service) BeginLogin(ctx context.Context, sess Session) (string, error) {
	state, err := s.randomString(s.stateLength)
	if err != nil {
		return "", errors.Wrapf(errors.Kind(errors.ErrInternal, err), "[BeginLogin] generate state")
	}
	digest, err := s.hasher.Hash(state)
	if err != nil {
		return "", errors.Wrapf(errors.Kind(errors.ErrInternal, err), "[BeginLogin] hash state")
	}
	if err := sess.Set(ctx, KeyAuth, digest); err != nil {
		return "", errors.Wrapf(errors.Kind(errors.ErrStoreWriteFailure, err), "[BeginLogin] store state")
	}
	return s.provider.AuthorizeURL(state), nil
}

// CompleteLogin handles the provider redirect. The auth field is consumed before anything else
// happens, so a state can be verified at most once. Verification failure returns before any
// provider call.
func (s *Service) CompleteLogin(ctx context.Context, sess Session, state, code string) (*accounts.Account, error) {
	digest, ok, err := sess.Take(ctx, KeyAuth)
	if err != nil {
		return nil, errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[CompleteLogin] read auth")
	}
	if !ok || digest == "" {
		return nil, errors.Wrapf(errors.ErrVerificationFailure, "[CompleteLogin] no pending login")
	}
	if !s.hasher.Verify(state, digest) {
		return nil, errors.Wrapf(errors.ErrVerificationFailure, "[CompleteLogin] state mismatch")
	}
	if code == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "[CompleteLogin] no authorization code")
	}

	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrapf(err, "[CompleteLogin] exchange code")
	}
	profile, err := s.provider.Profile(ctx, token)
	if err != nil {
		return nil, errors.Wrapf(err, "[CompleteLogin] fetch profile")
	}

	created, err := s.accounts.InsertIfAbsent(ctx, &accounts.Account{
		ProviderID: profile.ID,
		InternalID: s.newInternalID(),
		Name:       utils.NonEmpty(utils.Value(profile.Name)),
		Email:      utils.NonEmpty(utils.Value(profile.Email)),
		Elevated:   false,
		Sessions:   []accounts.SessionHandle{},
	})
	if err != nil {
		// The re-read below decides whether the account exists.
		log.Warn().Err(err).Int64("provider_id", profile.ID).Msg("account insert failed")
	} else if created {
		log.Info().Int64("provider_id", profile.ID).Str("login", utils.ValueOr(profile.Login, "unknown")).Msg("account created")
	}

	account, err := s.accounts.FindByProviderID(ctx, profile.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "[CompleteLogin] re-read account %d", profile.ID)
	}

	sessionID, err := s.randomString(s.sessionIDLength)
	if err != nil {
		return nil, errors.Wrapf(errors.Kind(errors.ErrInternal, err), "[CompleteLogin] generate session id")
	}
	if err := s.accounts.PushSession(ctx, account.InternalID, account.ProviderID, sessionID); err != nil {
		return nil, errors.Wrapf(err, "[CompleteLogin] push session")
	}

	if err := bindSession(ctx, sess, account, sessionID); err != nil {
		s.unbindSession(ctx, sess, sessionID)
		return nil, errors.Wrapf(errors.Kind(errors.ErrStoreWriteFailure, err), "[CompleteLogin] bind session")
	}

	account.Sessions = append(account.Sessions, accounts.SessionHandle{SessionID: sessionID})
	return account, nil
}

// Logout pulls the session handle out of its account and destroys the ephemeral record.
// A handle no account holds is not an error.
func (s *Service) Logout(ctx context.Context, sess Session) error {
	sessionID, ok, err := sess.Get(ctx, KeySession)
	if err != nil {
		return errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[Logout] read session")
	}
	if ok && sessionID != "" {
		if _, err := s.accounts.PullSession(ctx, sessionID); err != nil && !errors.Is(err, errors.ErrNotFound) {
			return errors.Wrapf(err, "[Logout] pull session")
		}
	}
	if err := sess.Destroy(ctx); err != nil {
		return errors.Wrapf(errors.Kind(errors.ErrStoreWriteFailure, err), "[Logout] destroy session")
	}
	return nil
}

func bindSession(ctx context.Context, sess Session, account *accounts.Account, sessionID string) error {
	fields := []struct{ key, value string }{
		{KeySession, sessionID},
		{KeyUUID, account.InternalID},
		{KeyProviderID, strconv.FormatInt(account.ProviderID, 10)},
	}
	for _, f := range fields {
		if err := sess.Set(ctx, f.key, f.value); err != nil {
			return errors.Wrapf(err, "set %s", f.key)
		}
	}
	return nil
}

// unbindSession is best-effort cleanup after a failed bind: the handle is pulled from the
// account and any fields already written are removed. Failures are only logged.
func (s *Service) unbindSession(ctx context.Context, sess Session, sessionID string) {
	ctx = context.WithoutCancel(ctx)
	if _, err := s.accounts.PullSession(ctx, sessionID); err != nil {
		log.Err(err).Msg("orphaned session handle left on account")
	}
	for _, key := range []string{KeySession, KeyUUID, KeyProviderID} {
		if err := sess.Remove(ctx, key); err != nil {
			log.Err(err).Str("field", key).Msg("failed to clear ephemeral session field")
		}
	}
}
