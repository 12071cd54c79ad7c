package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/laavis/dev-link/internal/domain/entity"
	repo "github.com/laavis/dev-link/internal/domain/repository"
	"github.com/laavis/dev-link/pkg/helpers"
)

const feedCacheKey = "posts:feed"

// PostService owns the post feed plus the like/comment toggles. Reads of the
// full feed go through a short-lived Redis cache; every write invalidates it.
// Posts are indexed into Elasticsearch best-effort for text search.
type PostService struct {
	Posts        repo.PostRepository
	Redis        *redis.Client
	FeedCacheTTL time.Duration
	ES           *elasticsearch.Client
	ESPostsIndex string
	Logger       *logrus.Logger
}

func NewPostService(posts repo.PostRepository, rdb *redis.Client, feedTTL time.Duration, es *elasticsearch.Client, esPostsIndex string, logger *logrus.Logger) *PostService {
	return &PostService{
		Posts:        posts,
		Redis:        rdb,
		FeedCacheTTL: feedTTL,
		ES:           es,
		ESPostsIndex: esPostsIndex,
		Logger:       logger,
	}
}

func (s *PostService) Create(ctx context.Context, userID, text, name, avatar string) (*entity.Post, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repo.ErrNotFound
	}
	p := &entity.Post{
		UserID: uid,
		Text:   text,
		Name:   name,
		Avatar: avatar,
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)
	s.indexPost(ctx, p)
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*entity.Post, error) {
	return s.Posts.GetByID(ctx, id)
}

// List returns all posts newest-first, served from the Redis feed cache when
// fresh.
func (s *PostService) List(ctx context.Context) ([]entity.Post, error) {
	if s.Redis != nil {
		var cached []entity.Post
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, feedCacheKey, &cached); err == nil && hit {
			return cached, nil
		} else if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("feed cache read failed")
		}
	}
	posts, err := s.Posts.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, feedCacheKey, posts, s.FeedCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("feed cache write failed")
		}
	}
	return posts, nil
}

func (s *PostService) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.Posts.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.invalidateFeed(ctx)
	s.deindexPost(ctx, id)
	return nil
}

// Like toggles a like on: it fails with repository.ErrAlreadyLiked when the
// user already appears in the post's likes.
func (s *PostService) Like(ctx context.Context, postID, userID string) (*entity.Post, error) {
	p, err := s.Posts.Like(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)
	return p, nil
}

func (s *PostService) Unlike(ctx context.Context, postID, userID string) (*entity.Post, error) {
	p, err := s.Posts.Unlike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)
	return p, nil
}

func (s *PostService) AddComment(ctx context.Context, postID, userID, text, name, avatar string) (*entity.Post, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repo.ErrNotFound
	}
	p, err := s.Posts.AddComment(ctx, postID, entity.Comment{
		UserID: uid,
		Text:   text,
		Name:   name,
		Avatar: avatar,
	})
	if err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)
	return p, nil
}

func (s *PostService) RemoveComment(ctx context.Context, postID, commentID string) (*entity.Post, error) {
	p, err := s.Posts.RemoveComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)
	return p, nil
}

// Search performs a multi_match query on post text and author name.
func (s *PostService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"text^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESPostsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *PostService) invalidateFeed(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, feedCacheKey); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("feed cache invalidate failed")
	}
}

func (s *PostService) indexPost(ctx context.Context, p *entity.Post) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         p.ID.Hex(),
		"user":       p.UserID.Hex(),
		"text":       p.Text,
		"name":       p.Name,
		"created_at": p.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESPostsIndex, DocumentID: p.ID.Hex(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", p.ID.Hex()).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("post_id", p.ID.Hex()).Warn("es index response error")
	}
}

func (s *PostService) deindexPost(ctx context.Context, id string) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESPostsIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", id).Warn("es delete failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("post_id", id).Warn("es delete response error")
	}
}
