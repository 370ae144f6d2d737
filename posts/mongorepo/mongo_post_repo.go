package mongorepo

import (
	"context"

	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/posts"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var _ posts.Repo = (*PostRepo)(nil)

type PostRepo struct {
	collection *mongo.Collection
}

func New(collection *mongo.Collection) *PostRepo {
	return &PostRepo{collection: collection}
}

// EnsureIndexes creates the unique id index Insert relies on for collision detection.
func (r *PostRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "draft", Value: 1}, {Key: "hidden", Value: 1}, {Key: "created", Value: -1}},
		},
	})
	if err != nil {
		return errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[PostRepo EnsureIndexes]")
	}
	return nil
}

func (r *PostRepo) Insert(ctx context.Context, post *posts.Post) error {
	_, err := r.collection.InsertOne(ctx, post)
	if mongo.IsDuplicateKeyError(err) {
		return errors.Wrapf(errors.ErrDuplicate, "[PostRepo Insert] %s", post.ID)
	}
	if err != nil {
		return errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[PostRepo Insert]")
	}
	return nil
}

func (r *PostRepo) Get(ctx context.Context, id string) (*posts.Post, error) {
	var post posts.Post
	err := r.collection.FindOne(ctx, idFilter(id)).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[PostRepo Get]")
	}
	return &post, nil
}

func (r *PostRepo) ListPublished(ctx context.Context, page posts.Page) ([]*posts.Post, error) {
	opts := options.Find().
		SetSort(newestFirst()).
		SetSkip(page.Skip()).
		SetLimit(page.Limit)
	return r.find(ctx, publishedFilter(), opts)
}

func (r *PostRepo) ListDrafts(ctx context.Context, creator string) ([]*posts.Post, error) {
	return r.find(ctx, draftsFilter(creator), options.Find().SetSort(newestFirst()))
}

func (r *PostRepo) Update(ctx context.Context, post *posts.Post) error {
	res, err := r.collection.UpdateOne(ctx, idFilter(post.ID), bson.D{{Key: "$set", Value: post}})
	if err != nil {
		return errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[PostRepo Update]")
	}
	if res.MatchedCount == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *PostRepo) find(ctx context.Context, filter bson.D, opts *options.FindOptionsBuilder) ([]*posts.Post, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[PostRepo find]")
	}
	out := []*posts.Post{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrapf(errors.Kind(errors.ErrTransportFailure, err), "[PostRepo find] decode")
	}
	return out, nil
}

func idFilter(id string) bson.D {
	return bson.D{{Key: "id", Value: id}}
}

func publishedFilter() bson.D {
	return bson.D{{Key: "hidden", Value: false}, {Key: "draft", Value: false}}
}

func draftsFilter(creator string) bson.D {
	return bson.D{{Key: "hidden", Value: false}, {Key: "draft", Value: true}, {Key: "creator", Value: creator}}
}

func newestFirst() bson.D {
	return bson.D{{Key: "created", Value: -1}}
}
