package fakepostrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/posts"
)

var _ posts.Repo = (*FakePostRepo)(nil)

type FakePostRepo struct {
	lock  sync.RWMutex
	posts map[string]*posts.Post
}

func NewFakePostRepo() *FakePostRepo {
	return &FakePostRepo{
		posts: make(map[string]*posts.Post),
	}
}

func (r *FakePostRepo) Insert(_ context.Context, post *posts.Post) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.posts[post.ID]; ok {
		return errors.ErrDuplicate
	}
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *FakePostRepo) Get(_ context.Context, id string) (*posts.Post, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return clonePost(p), nil
}

func (r *FakePostRepo) ListPublished(_ context.Context, page posts.Page) ([]*posts.Post, error) {
	all := r.filter(func(p *posts.Post) bool { return p.Visible() })
	skip := page.Skip()
	if skip < 0 || skip >= int64(len(all)) {
		return []*posts.Post{}, nil
	}
	end := skip + page.Limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[skip:end], nil
}

func (r *FakePostRepo) ListDrafts(_ context.Context, creator string) ([]*posts.Post, error) {
	return r.filter(func(p *posts.Post) bool {
		return p.Draft && !p.Hidden && p.Creator == creator
	}), nil
}

func (r *FakePostRepo) Update(_ context.Context, post *posts.Post) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.posts[post.ID]; !ok {
		return errors.ErrNotFound
	}
	r.posts[post.ID] = clonePost(post)
	return nil
}

// filter returns matching posts newest first, ties broken by id.
func (r *FakePostRepo) filter(match func(*posts.Post) bool) []*posts.Post {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := []*posts.Post{}
	for _, p := range r.posts {
		if match(p) {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := out[i].Created, out[j].Created
		if ci != nil && cj != nil && !ci.Equal(*cj) {
			return ci.After(*cj)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func clonePost(p *posts.Post) *posts.Post {
	c := *p
	return &c
}
