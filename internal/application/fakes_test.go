package application_test

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/laavis/dev-link/internal/domain/entity"
	"github.com/laavis/dev-link/internal/domain/repository"
)

// In-memory repository fakes mirroring the store's conditional-update
// semantics: duplicate keys, push-if-absent, pull-by-id.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID.Hex()] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, id, avatarURL string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Avatar = avatarURL
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*entity.Profile // keyed by user id hex
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*entity.Profile{}}
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetByHandle(_ context.Context, handle string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Handle == handle {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProfileRepo) GetAll(_ context.Context) ([]entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, userID string, fields repository.ProfileFields) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for owner, p := range r.profiles {
		if p.Handle == fields.Handle && owner != userID {
			return nil, repository.ErrHandleTaken
		}
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	p, ok := r.profiles[userID]
	if !ok {
		p = &entity.Profile{
			ID:         primitive.NewObjectID(),
			UserID:     uid,
			Skills:     []string{},
			Experience: []entity.Experience{},
			Education:  []entity.Education{},
			CreatedAt:  time.Now().UTC(),
		}
		r.profiles[userID] = p
	}
	p.Handle = fields.Handle
	p.Company = fields.Company
	p.Website = fields.Website
	p.Location = fields.Location
	p.Status = fields.Status
	p.Bio = fields.Bio
	p.GitHubUsername = fields.GitHubUsername
	p.Skills = fields.Skills
	p.Social = fields.Social
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) AddExperience(_ context.Context, userID string, exp entity.Experience) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	exp.ID = primitive.NewObjectID()
	p.Experience = append([]entity.Experience{exp}, p.Experience...)
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) RemoveExperience(_ context.Context, userID, entryID string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for i, e := range p.Experience {
		if e.ID.Hex() == entryID {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrEntryNotFound
}

func (r *fakeProfileRepo) AddEducation(_ context.Context, userID string, edu entity.Education) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	edu.ID = primitive.NewObjectID()
	p.Education = append([]entity.Education{edu}, p.Education...)
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) RemoveEducation(_ context.Context, userID, entryID string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for i, e := range p.Education {
		if e.ID.Hex() == entryID {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrEntryNotFound
}

func (r *fakeProfileRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.profiles, userID)
	return nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts []*entity.Post // newest first
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{}
}

func (r *fakePostRepo) find(id string) *entity.Post {
	for _, p := range r.posts {
		if p.ID.Hex() == id {
			return p
		}
	}
	return nil
}

func (r *fakePostRepo) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	if p.Likes == nil {
		p.Likes = []entity.Like{}
	}
	if p.Comments == nil {
		p.Comments = []entity.Comment{}
	}
	cp := *p
	r.posts = append([]*entity.Post{&cp}, r.posts...)
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(id)
	if p == nil {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) List(_ context.Context) ([]entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.posts {
		if p.ID.Hex() == id && p.UserID.Hex() == ownerID {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakePostRepo) Like(_ context.Context, postID, userID string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(postID)
	if p == nil {
		return nil, repository.ErrNotFound
	}
	for _, l := range p.Likes {
		if l.UserID.Hex() == userID {
			return nil, repository.ErrAlreadyLiked
		}
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	p.Likes = append([]entity.Like{{UserID: uid}}, p.Likes...)
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) Unlike(_ context.Context, postID, userID string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(postID)
	if p == nil {
		return nil, repository.ErrNotFound
	}
	for i, l := range p.Likes {
		if l.UserID.Hex() == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotLiked
}

func (r *fakePostRepo) AddComment(_ context.Context, postID string, c entity.Comment) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(postID)
	if p == nil {
		return nil, repository.ErrNotFound
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	p.Comments = append([]entity.Comment{c}, p.Comments...)
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) RemoveComment(_ context.Context, postID, commentID string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(postID)
	if p == nil {
		return nil, repository.ErrNotFound
	}
	for i, c := range p.Comments {
		if c.ID.Hex() == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrCommentNotFound
}
