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

type ProfileRepository struct {
	coll      *mongo.Collection
	opTimeout time.Duration
}

func NewProfileRepository(db *mongo.Database, opTimeout time.Duration) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profilesCollection), opTimeout: opTimeout}
}

func (r *ProfileRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.opTimeout)
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.findOne(ctx, bson.M{"user": uid})
}

func (r *ProfileRepository) GetByHandle(ctx context.Context, handle string) (*entity.Profile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.findOne(ctx, bson.M{"handle": handle})
}

func (r *ProfileRepository) GetAll(ctx context.Context) ([]entity.Profile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	profiles := []entity.Profile{}
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Upsert creates or replaces the user's profile fields in a single update.
// The unique handle index turns a taken handle into ErrHandleTaken whether
// the profile is being created or renamed.
func (r *ProfileRepository) Upsert(ctx context.Context, userID string, fields repository.ProfileFields) (*entity.Profile, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	set := bson.M{
		"handle":          fields.Handle,
		"company":         fields.Company,
		"website":         fields.Website,
		"location":        fields.Location,
		"status":          fields.Status,
		"bio":             fields.Bio,
		"github_username": fields.GitHubUsername,
		"skills":          fields.Skills,
		"social":          fields.Social,
		"updated_at":      now,
	}
	setOnInsert := bson.M{
		"user":       uid,
		"experience": []entity.Experience{},
		"education":  []entity.Education{},
		"created_at": now,
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	p := &entity.Profile{}
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"user": uid},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		opts,
	).Decode(p)
	if mongo.IsDuplicateKeyError(err) {
		return nil, repository.ErrHandleTaken
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepository) AddExperience(ctx context.Context, userID string, exp entity.Experience) (*entity.Profile, error) {
	if exp.ID.IsZero() {
		exp.ID = primitive.NewObjectID()
	}
	return r.pushFront(ctx, userID, "experience", exp)
}

func (r *ProfileRepository) AddEducation(ctx context.Context, userID string, edu entity.Education) (*entity.Profile, error) {
	if edu.ID.IsZero() {
		edu.ID = primitive.NewObjectID()
	}
	return r.pushFront(ctx, userID, "education", edu)
}

func (r *ProfileRepository) RemoveExperience(ctx context.Context, userID, entryID string) (*entity.Profile, error) {
	return r.pullByID(ctx, userID, "experience", entryID)
}

func (r *ProfileRepository) RemoveEducation(ctx context.Context, userID, entryID string) (*entity.Profile, error) {
	return r.pullByID(ctx, userID, "education", entryID)
}

func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return repository.ErrNotFound
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"user": uid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) findOne(ctx context.Context, filter bson.M) (*entity.Profile, error) {
	p := &entity.Profile{}
	err := r.coll.FindOne(ctx, filter).Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// pushFront prepends an entry to the named array (most-recent-first order).
func (r *ProfileRepository) pushFront(ctx context.Context, userID, field string, entry any) (*entity.Profile, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	p := &entity.Profile{}
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"user": uid},
		bson.M{
			"$push": bson.M{field: bson.M{"$each": bson.A{entry}, "$position": 0}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
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

// pullByID removes the array entry with the given id in one conditional
// update. A matched profile without the entry fails with ErrEntryNotFound
// instead of silently removing anything.
func (r *ProfileRepository) pullByID(ctx context.Context, userID, field, entryID string) (*entity.Profile, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	eid, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		return nil, repository.ErrEntryNotFound
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	p := &entity.Profile{}
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"user": uid, field + "._id": eid},
		bson.M{
			"$pull": bson.M{field: bson.M{"_id": eid}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		after,
	).Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Profile may exist with no such entry
		exists := r.coll.FindOne(ctx, bson.M{"user": uid}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
		if errors.Is(exists, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		if exists != nil {
			return nil, exists
		}
		return nil, repository.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
