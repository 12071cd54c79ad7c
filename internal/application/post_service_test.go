package application_test

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/laavis/dev-link/internal/application"
	"github.com/laavis/dev-link/internal/domain/repository"
)

func newPostService() *application.PostService {
	return application.NewPostService(newFakePostRepo(), nil, 0, nil, "", nil)
}

func TestPostCreateAndListNewestFirst(t *testing.T) {
	svc := newPostService()
	ctx := context.Background()
	uid := primitive.NewObjectID().Hex()

	if _, err := svc.Create(ctx, uid, "first post", "Alice", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, uid, "second post", "Alice", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	posts, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("list returned %d posts, want 2", len(posts))
	}
	if posts[0].Text != "second post" || posts[1].Text != "first post" {
		t.Fatalf("list not newest-first: %q, %q", posts[0].Text, posts[1].Text)
	}
}

func TestPostLikeTwice(t *testing.T) {
	svc := newPostService()
	ctx := context.Background()
	author := primitive.NewObjectID().Hex()
	liker := primitive.NewObjectID().Hex()

	p, err := svc.Create(ctx, author, "hello", "Alice", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	p2, err := svc.Like(ctx, p.ID.Hex(), liker)
	if err != nil {
		t.Fatalf("first like: %v", err)
	}
	if len(p2.Likes) != 1 || p2.Likes[0].UserID.Hex() != liker {
		t.Fatalf("likes after first like: %+v", p2.Likes)
	}

	if _, err := svc.Like(ctx, p.ID.Hex(), liker); !errors.Is(err, repository.ErrAlreadyLiked) {
		t.Fatalf("second like err = %v, want ErrAlreadyLiked", err)
	}

	got, err := svc.Get(ctx, p.ID.Hex())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Likes) != 1 {
		t.Fatalf("rejected like mutated the list: %d likes", len(got.Likes))
	}
}

func TestPostLikeUnlikeRoundTrip(t *testing.T) {
	svc := newPostService()
	ctx := context.Background()
	author := primitive.NewObjectID().Hex()
	liker := primitive.NewObjectID().Hex()

	p, err := svc.Create(ctx, author, "hello", "Alice", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Like(ctx, p.ID.Hex(), liker); err != nil {
		t.Fatalf("like: %v", err)
	}
	p2, err := svc.Unlike(ctx, p.ID.Hex(), liker)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if len(p2.Likes) != 0 {
		t.Fatalf("likes after unlike: %+v", p2.Likes)
	}
}

func TestPostUnlikeWithoutLike(t *testing.T) {
	svc := newPostService()
	ctx := context.Background()

	p, err := svc.Create(ctx, primitive.NewObjectID().Hex(), "hello", "Alice", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Unlike(ctx, p.ID.Hex(), primitive.NewObjectID().Hex()); !errors.Is(err, repository.ErrNotLiked) {
		t.Fatalf("err = %v, want ErrNotLiked", err)
	}
}

func TestPostLikeUnknownPost(t *testing.T) {
	svc := newPostService()
	ctx := context.Background()

	if _, err := svc.Like(ctx, primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPostCommentAddRemove(t *testing.T) {
	svc := newPostService()
	ctx := context.Background()
	author := primitive.NewObjectID().Hex()
	commenter := primitive.NewObjectID().Hex()

	p, err := svc.Create(ctx, author, "hello", "Alice", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	p2, err := svc.AddComment(ctx, p.ID.Hex(), commenter, "nice post", "Bob", "")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if len(p2.Comments) != 1 {
		t.Fatalf("comments after add: %d", len(p2.Comments))
	}
	c := p2.Comments[0]
	if c.ID.IsZero() || c.Text != "nice post" || c.Name != "Bob" {
		t.Fatalf("comment = %+v", c)
	}

	p3, err := svc.AddComment(ctx, p.ID.Hex(), commenter, "another", "Bob", "")
	if err != nil {
		t.Fatalf("add second comment: %v", err)
	}
	if p3.Comments[0].Text != "another" {
		t.Fatalf("newest comment not first: %q", p3.Comments[0].Text)
	}

	p4, err := svc.RemoveComment(ctx, p.ID.Hex(), c.ID.Hex())
	if err != nil {
		t.Fatalf("remove comment: %v", err)
	}
	if len(p4.Comments) != 1 || p4.Comments[0].Text != "another" {
		t.Fatalf("comments after remove: %+v", p4.Comments)
	}
}

func TestPostRemoveUnknownComment(t *testing.T) {
	svc := newPostService()
	ctx := context.Background()

	p, err := svc.Create(ctx, primitive.NewObjectID().Hex(), "hello", "Alice", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.RemoveComment(ctx, p.ID.Hex(), primitive.NewObjectID().Hex()); !errors.Is(err, repository.ErrCommentNotFound) {
		t.Fatalf("err = %v, want ErrCommentNotFound", err)
	}
}

func TestPostDeleteOwnerOnly(t *testing.T) {
	svc := newPostService()
	ctx := context.Background()
	author := primitive.NewObjectID().Hex()

	p, err := svc.Create(ctx, author, "hello", "Alice", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, p.ID.Hex(), primitive.NewObjectID().Hex()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("non-owner delete err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(ctx, p.ID.Hex()); err != nil {
		t.Fatalf("post gone after rejected delete: %v", err)
	}

	if err := svc.Delete(ctx, p.ID.Hex(), author); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.Get(ctx, p.ID.Hex()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err after delete = %v, want ErrNotFound", err)
	}
}

func TestPostCreateBadUserID(t *testing.T) {
	svc := newPostService()
	if _, err := svc.Create(context.Background(), "not-a-hex-id", "hello", "Alice", ""); err == nil {
		t.Fatal("create with malformed user id succeeded")
	}
}
