package repository

import (
	"context"

	"github.com/laavis/dev-link/internal/domain/entity"
)

// PostRepository defines the interface for post store operations.
//
// Like/Unlike/AddComment/RemoveComment must be expressed as atomic
// conditional updates against the store (push-if-absent, pull-by-id), not as
// read-then-write, so concurrent requests against the same post cannot lose
// updates. Each returns the updated post.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	List(ctx context.Context) ([]entity.Post, error)
	Delete(ctx context.Context, id, ownerID string) error
	Like(ctx context.Context, postID, userID string) (*entity.Post, error)
	Unlike(ctx context.Context, postID, userID string) (*entity.Post, error)
	AddComment(ctx context.Context, postID string, c entity.Comment) (*entity.Post, error)
	RemoveComment(ctx context.Context, postID, commentID string) (*entity.Post, error)
}
