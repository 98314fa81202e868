package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/allandacasin/devconnector-api/internal/domain/profile"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
	"github.com/allandacasin/devconnector-api/pkg/logger"
)

type mongoProfileRepo struct {
	profiles *mongo.Collection
	users    *mongo.Collection
	logger   logger.Logger
}

func NewMongoProfileRepo(m *MongoClient, log logger.Logger) profile.Repository {
	return &mongoProfileRepo{profiles: m.profiles, users: m.users, logger: log}
}

// Upsert merges the supplied fields into the caller's profile document,
// creating it when absent. The update is a single findAndModify keyed on
// the owner id, so the one-profile-per-user invariant holds without any
// read-modify-write cycle.
func (r *mongoProfileRepo) Upsert(ctx context.Context, userID primitive.ObjectID, fields profile.Fields) (*profile.Profile, error) {
	set := bson.D{{Key: "user", Value: userID}}
	if fields.Company != "" {
		set = append(set, bson.E{Key: "company", Value: fields.Company})
	}
	if fields.Website != "" {
		set = append(set, bson.E{Key: "website", Value: fields.Website})
	}
	if fields.Location != "" {
		set = append(set, bson.E{Key: "location", Value: fields.Location})
	}
	if fields.Bio != "" {
		set = append(set, bson.E{Key: "bio", Value: fields.Bio})
	}
	if fields.Status != "" {
		set = append(set, bson.E{Key: "status", Value: fields.Status})
	}
	if fields.GithubUsername != "" {
		set = append(set, bson.E{Key: "githubusername", Value: fields.GithubUsername})
	}
	if fields.Skills != nil {
		set = append(set, bson.E{Key: "skills", Value: fields.Skills})
	}

	// The social object is rebuilt from the supplied platforms on every
	// upsert rather than merged key by key.
	social := bson.D{}
	for _, platform := range []string{"youtube", "twitter", "facebook", "linkedin", "instagram"} {
		if v, ok := fields.Social[platform]; ok && v != "" {
			social = append(social, bson.E{Key: platform, Value: v})
		}
	}
	set = append(set, bson.E{Key: "social", Value: social})

	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "date", Value: time.Now().UTC()},
			{Key: "experience", Value: bson.A{}},
			{Key: "education", Value: bson.A{}},
		}},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var p profile.Profile
	err := r.profiles.FindOneAndUpdate(ctx, bson.D{{Key: "user", Value: userID}}, update, opts).Decode(&p)
	if err != nil {
		return nil, apperror.NewInternal("failed to upsert profile", err)
	}

	return r.withOwner(ctx, &p), nil
}

func (r *mongoProfileRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*profile.Profile, error) {
	var p profile.Profile
	err := r.profiles.FindOne(ctx, bson.D{{Key: "user", Value: userID}}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}

	return r.withOwner(ctx, &p), nil
}

func (r *mongoProfileRepo) List(ctx context.Context) ([]profile.Profile, error) {
	cur, err := r.profiles.Find(ctx, bson.D{})
	if err != nil {
		return nil, apperror.NewInternal("failed to list profiles", err)
	}
	defer cur.Close(ctx)

	profiles := []profile.Profile{}
	for cur.Next(ctx) {
		var p profile.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, apperror.NewInternal("failed to decode profile", err)
		}
		profiles = append(profiles, p)
	}
	if err := cur.Err(); err != nil {
		return nil, apperror.NewInternal("profile cursor failed", err)
	}

	if len(profiles) == 0 {
		return profiles, nil
	}

	// One users query for the whole page instead of a lookup per profile.
	ids := make([]primitive.ObjectID, len(profiles))
	for i, p := range profiles {
		ids[i] = p.UserID
	}
	owners, err := r.ownersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if o, ok := owners[profiles[i].UserID]; ok {
			profiles[i].User = o
		}
	}

	return profiles, nil
}

func (r *mongoProfileRepo) AddExperience(ctx context.Context, userID primitive.ObjectID, entry profile.Experience) (*profile.Profile, error) {
	return r.pushFront(ctx, userID, "experience", entry)
}

func (r *mongoProfileRepo) AddEducation(ctx context.Context, userID primitive.ObjectID, entry profile.Education) (*profile.Profile, error) {
	return r.pushFront(ctx, userID, "education", entry)
}

func (r *mongoProfileRepo) RemoveExperience(ctx context.Context, userID, entryID primitive.ObjectID) (*profile.Profile, error) {
	return r.pullByID(ctx, userID, "experience", entryID)
}

func (r *mongoProfileRepo) RemoveEducation(ctx context.Context, userID, entryID primitive.ObjectID) (*profile.Profile, error) {
	return r.pullByID(ctx, userID, "education", entryID)
}

func (r *mongoProfileRepo) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	res, err := r.profiles.DeleteOne(ctx, bson.D{{Key: "user", Value: userID}})
	if err != nil {
		return apperror.NewInternal("failed to delete profile", err)
	}
	if res.DeletedCount == 0 {
		r.logger.Debug("no profile to delete", zap.String("user_id", userID.Hex()))
	}
	return nil
}

// pushFront inserts the entry at position 0 of the named embedded array,
// keeping the most-recent-first ordering in a single atomic update. No
// upsert here: adding an entry to a profile that does not exist is an
// error, not an implicit create.
func (r *mongoProfileRepo) pushFront(ctx context.Context, userID primitive.ObjectID, field string, entry any) (*profile.Profile, error) {
	update := bson.D{{Key: "$push", Value: bson.D{{Key: field, Value: bson.D{
		{Key: "$each", Value: bson.A{entry}},
		{Key: "$position", Value: 0},
	}}}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p profile.Profile
	err := r.profiles.FindOneAndUpdate(ctx, bson.D{{Key: "user", Value: userID}}, update, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, apperror.NewInternal(fmt.Sprintf("failed to push %s entry", field), err)
	}

	return r.withOwner(ctx, &p), nil
}

// pullByID removes every entry of the named array whose _id matches.
// Pulling an id that is not present leaves the document unchanged and
// still returns the profile.
func (r *mongoProfileRepo) pullByID(ctx context.Context, userID primitive.ObjectID, field string, entryID primitive.ObjectID) (*profile.Profile, error) {
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: field, Value: bson.D{
		{Key: "_id", Value: entryID},
	}}}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p profile.Profile
	err := r.profiles.FindOneAndUpdate(ctx, bson.D{{Key: "user", Value: userID}}, update, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, apperror.NewInternal(fmt.Sprintf("failed to pull %s entry", field), err)
	}

	return r.withOwner(ctx, &p), nil
}

// withOwner joins the owning user's name/avatar into the profile. A
// missing user record leaves the join empty rather than failing the read.
func (r *mongoProfileRepo) withOwner(ctx context.Context, p *profile.Profile) *profile.Profile {
	var o profile.Owner
	opts := options.FindOne().SetProjection(bson.D{
		{Key: "name", Value: 1},
		{Key: "avatar", Value: 1},
	})
	err := r.users.FindOne(ctx, bson.D{{Key: "_id", Value: p.UserID}}, opts).Decode(&o)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Warn("failed to join profile owner", zap.String("user_id", p.UserID.Hex()), zap.Error(err))
		}
		return p
	}
	p.User = &o
	return p
}

func (r *mongoProfileRepo) ownersByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*profile.Owner, error) {
	opts := options.Find().SetProjection(bson.D{
		{Key: "name", Value: 1},
		{Key: "avatar", Value: 1},
	})
	cur, err := r.users.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}, opts)
	if err != nil {
		return nil, apperror.NewInternal("failed to query profile owners", err)
	}
	defer cur.Close(ctx)

	owners := make(map[primitive.ObjectID]*profile.Owner, len(ids))
	for cur.Next(ctx) {
		var o profile.Owner
		if err := cur.Decode(&o); err != nil {
			return nil, apperror.NewInternal("failed to decode profile owner", err)
		}
		owner := o
		owners[o.ID] = &owner
	}
	if err := cur.Err(); err != nil {
		return nil, apperror.NewInternal("owner cursor failed", err)
	}

	return owners, nil
}
