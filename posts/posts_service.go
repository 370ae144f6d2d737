package posts

import (
	"context"
	"strings"
	"time"

	"github.com/jrsteele09/go-blog-server/accounts"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/internal/utils"
	"github.com/rs/zerolog/log"
)

const maxIDAttempts = 5

// Service applies the blog's ownership rules on top of a Repo. Viewer accounts come from the
// session resolver; a nil viewer is an anonymous caller.
type Service struct {
	repo    Repo
	newID   func() (string, error)
	nowTime func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithIDFunc sets the post id generator (primarily for testing)
func WithIDFunc(f func() (string, error)) ServiceOption {
	return func(s *Service) {
		s.newID = f
	}
}

func NewService(repo Repo, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[posts NewService] repo is required")
	}
	s := &Service{
		repo:    repo,
		newID:   func() (string, error) { return utils.RandomAlphanumeric(IDLength) },
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *Service) List(ctx context.Context, page Page) ([]*Post, error) {
	list, err := s.repo.ListPublished(ctx, page)
	if err != nil {
		return nil, errors.Wrapf(err, "[posts List]")
	}
	return list, nil
}

// Get returns a published post to anyone. Drafts and hidden posts need a viewer who is the
// creator or elevated.
func (s *Service) Get(ctx context.Context, id string, viewer *accounts.Account) (*Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "[posts Get] %s", id)
	}
	if post.Visible() {
		return post, nil
	}
	if viewer == nil || !(viewer.Elevated || viewer.Owns(post.Creator)) {
		return nil, errors.Wrapf(errors.ErrForbidden, "[posts Get] %s", id)
	}
	return post, nil
}

func (s *Service) Drafts(ctx context.Context, viewer *accounts.Account) ([]*Post, error) {
	if viewer == nil {
		return nil, errors.Wrapf(errors.ErrForbidden, "[posts Drafts] no viewer")
	}
	list, err := s.repo.ListDrafts(ctx, viewer.InternalID)
	if err != nil {
		return nil, errors.Wrapf(err, "[posts Drafts]")
	}
	return list, nil
}

// SetDraft moves a post between draft and published. The first publish stamps Published.
func (s *Service) SetDraft(ctx context.Context, id string, draft bool, viewer *accounts.Account) error {
	return s.modify(ctx, "SetDraft", id, viewer, func(p *Post) {
		p.Draft = draft
		if !draft && p.Published == nil {
			p.Published = utils.Ptr(s.nowTime().UTC())
		}
	})
}

func (s *Service) SetHidden(ctx context.Context, id string, hidden bool, viewer *accounts.Account) error {
	return s.modify(ctx, "SetHidden", id, viewer, func(p *Post) {
		p.Hidden = hidden
	})
}

// Edit replaces the title and/or body and stamps LastEdit.
func (s *Service) Edit(ctx context.Context, id string, upload Upload, viewer *accounts.Account) error {
	return s.modify(ctx, "Edit", id, viewer, func(p *Post) {
		if upload.Title != nil {
			p.Title = *upload.Title
		}
		if upload.Body != nil {
			p.Body = *upload.Body
		}
		p.LastEdit = utils.Ptr(s.nowTime().UTC())
	})
}

// Create stores a new draft authored by viewer. Only elevated accounts may post.
func (s *Service) Create(ctx context.Context, upload Upload, viewer *accounts.Account) (*Post, error) {
	if viewer == nil || !viewer.Elevated {
		return nil, errors.Wrapf(errors.ErrForbidden, "[posts Create] not elevated")
	}
	if upload.Title == nil || strings.TrimSpace(*upload.Title) == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "[posts Create] title is required")
	}
	if upload.Body == nil || strings.TrimSpace(*upload.Body) == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "[posts Create] body is required")
	}

	post := &Post{
		Creator: viewer.InternalID,
		Title:   *upload.Title,
		Body:    *upload.Body,
		Draft:   true,
		Hidden:  false,
		Created: utils.Ptr(s.nowTime().UTC()),
	}
	for attempt := 1; ; attempt++ {
		id, err := s.newID()
		if err != nil {
			return nil, errors.Wrapf(errors.Kind(errors.ErrInternal, err), "[posts Create] generate id")
		}
		post.ID = id
		err = s.repo.Insert(ctx, post)
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, errors.ErrDuplicate) || attempt == maxIDAttempts {
			return nil, errors.Wrapf(err, "[posts Create]")
		}
		log.Debug().Str("id", id).Msg("post id collision, regenerating")
	}
}

func (s *Service) modify(ctx context.Context, op, id string, viewer *accounts.Account, apply func(*Post)) error {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "[posts %s] %s", op, id)
	}
	if viewer == nil || !viewer.Owns(post.Creator) {
		return errors.Wrapf(errors.ErrForbidden, "[posts %s] %s", op, id)
	}
	apply(post)
	if err := s.repo.Update(ctx, post); err != nil {
		return errors.Wrapf(err, "[posts %s] %s", op, id)
	}
	return nil
}
