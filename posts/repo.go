package posts

import "context"

type Repo interface {
	// Insert returns errors.ErrDuplicate when the id is taken.
	Insert(ctx context.Context, post *Post) error

	// Get returns errors.ErrNotFound when no post has the id.
	Get(ctx context.Context, id string) (*Post, error)

	// ListPublished returns non-draft, non-hidden posts, newest first.
	ListPublished(ctx context.Context, page Page) ([]*Post, error)

	// ListDrafts returns creator's non-hidden drafts, newest first.
	ListDrafts(ctx context.Context, creator string) ([]*Post, error)

	// Update replaces the stored post with the same id. errors.ErrNotFound if there is none.
	Update(ctx context.Context, post *Post) error
}
