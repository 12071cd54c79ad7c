package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/laavis/dev-link/internal/domain/entity"
	"github.com/laavis/dev-link/internal/domain/repository"
)

// PostRepository implements the post store on MongoDB. All array mutations
// are single conditional updates so concurrent likes/comments against the
// same post cannot lose writes.
type PostRepository struct {
	coll      *mongo.Collection
	opTimeout time.Duration
}

func NewPostRepository(db *mongo.Database, opTimeout time.Duration) *PostRepository {
	return &PostRepository{coll: db.Collection(postsCollection), opTimeout: opTimeout}
}

func (r *PostRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.opTimeout)
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.CreatedAt = time.Now().UTC()
	if p.Likes == nil {
		p.Likes = []entity.Like{}
	}
	if p.Comments == nil {
		p.Comments = []entity.Comment{}
	}
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	p := &entity.Post{}
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all posts, newest first.
func (r *PostRepository) List(ctx context.Context) ([]entity.Post, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	posts := []entity.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes a post only when ownerID matches the post owner.
func (r *PostRepository) Delete(ctx context.Context, id, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return repository.ErrNotFound
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user": uid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Like prepends {user} to likes if and only if the user has not liked the
// post yet (push-if-absent). The filter and push run as one update, so a
// user can never appear twice in likes.
func (r *PostRepository) Like(ctx context.Context, postID, userID string) (*entity.Post, error) {
	oid, uid, err := postAndUserIDs(postID, userID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	p := &entity.Post{}
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "likes.user": bson.M{"$ne": uid}},
		bson.M{"$push": bson.M{"likes": bson.M{
			"$each":     []entity.Like{{UserID: uid}},
			"$position": 0,
		}}},
		after,
	).Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.disambiguate(ctx, oid, repository.ErrAlreadyLiked)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Unlike removes the user's like entry (pull-by-user). Fails with ErrNotLiked
// when no prior like exists.
func (r *PostRepository) Unlike(ctx context.Context, postID, userID string) (*entity.Post, error) {
	oid, uid, err := postAndUserIDs(postID, userID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	p := &entity.Post{}
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "likes.user": uid},
		bson.M{"$pull": bson.M{"likes": bson.M{"user": uid}}},
		after,
	).Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.disambiguate(ctx, oid, repository.ErrNotLiked)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AddComment prepends a comment with a fresh id and timestamp.
func (r *PostRepository) AddComment(ctx context.Context, postID string, c entity.Comment) (*entity.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	p := &entity.Post{}
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"comments": bson.M{
			"$each":     []entity.Comment{c},
			"$position": 0,
		}}},
		after,
	).Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveComment pulls the comment with the given id from the post.
func (r *PostRepository) RemoveComment(ctx context.Context, postID, commentID string) (*entity.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, repository.ErrCommentNotFound
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	p := &entity.Post{}
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "comments._id": cid},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": cid}}},
		after,
	).Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.disambiguate(ctx, oid, repository.ErrCommentNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// disambiguate tells a missing post apart from a failed array condition: the
// conditional update matched nothing, so check whether the post exists at all.
func (r *PostRepository) disambiguate(ctx context.Context, oid primitive.ObjectID, condErr error) error {
	err := r.coll.FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	return condErr
}

func postAndUserIDs(postID, userID string) (primitive.ObjectID, primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, repository.ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, uid, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
