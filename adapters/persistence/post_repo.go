package persistence

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/allandacasin/devconnector-api/internal/domain/post"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
	"github.com/allandacasin/devconnector-api/pkg/logger"
)

type mongoPostRepo struct {
	posts  *mongo.Collection
	logger logger.Logger
}

func NewMongoPostRepo(m *MongoClient, log logger.Logger) post.Repository {
	return &mongoPostRepo{posts: m.posts, logger: log}
}

func (r *mongoPostRepo) Save(ctx context.Context, p *post.Post) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	if p.Likes == nil {
		p.Likes = []post.Like{}
	}
	if p.Comments == nil {
		p.Comments = []post.Comment{}
	}

	_, err := r.posts.InsertOne(ctx, p)
	if err != nil {
		return apperror.NewInternal("failed to insert post", err)
	}
	return nil
}

func (r *mongoPostRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*post.Post, error) {
	var p post.Post
	err := r.posts.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, post.ErrPostNotFound
		}
		return nil, apperror.NewInternal("failed to query post", err)
	}
	return &p, nil
}

func (r *mongoPostRepo) List(ctx context.Context) ([]post.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.posts.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, apperror.NewInternal("failed to list posts", err)
	}
	defer cur.Close(ctx)

	posts := []post.Post{}
	for cur.Next(ctx) {
		var p post.Post
		if err := cur.Decode(&p); err != nil {
			return nil, apperror.NewInternal("failed to decode post", err)
		}
		posts = append(posts, p)
	}
	if err := cur.Err(); err != nil {
		return nil, apperror.NewInternal("post cursor failed", err)
	}

	return posts, nil
}

func (r *mongoPostRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.posts.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return apperror.NewInternal("failed to delete post", err)
	}
	if res.DeletedCount == 0 {
		return post.ErrPostNotFound
	}
	return nil
}

func (r *mongoPostRepo) DeleteByAuthor(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.posts.DeleteMany(ctx, bson.D{{Key: "user", Value: userID}})
	if err != nil {
		return 0, apperror.NewInternal("failed to delete posts by author", err)
	}
	return res.DeletedCount, nil
}

func (r *mongoPostRepo) AddLike(ctx context.Context, postID primitive.ObjectID, like post.Like) (*post.Post, error) {
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "likes", Value: bson.D{
		{Key: "$each", Value: bson.A{like}},
		{Key: "$position", Value: 0},
	}}}}}
	return r.findAndModify(ctx, postID, update)
}

func (r *mongoPostRepo) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*post.Post, error) {
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: "likes", Value: bson.D{
		{Key: "user", Value: userID},
	}}}}}
	return r.findAndModify(ctx, postID, update)
}

func (r *mongoPostRepo) AddComment(ctx context.Context, postID primitive.ObjectID, comment post.Comment) (*post.Post, error) {
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "comments", Value: bson.D{
		{Key: "$each", Value: bson.A{comment}},
		{Key: "$position", Value: 0},
	}}}}}
	return r.findAndModify(ctx, postID, update)
}

func (r *mongoPostRepo) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) (*post.Post, error) {
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: "comments", Value: bson.D{
		{Key: "_id", Value: commentID},
	}}}}}
	return r.findAndModify(ctx, postID, update)
}

func (r *mongoPostRepo) findAndModify(ctx context.Context, postID primitive.ObjectID, update bson.D) (*post.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p post.Post
	err := r.posts.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: postID}}, update, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, post.ErrPostNotFound
		}
		return nil, apperror.NewInternal("failed to update post", err)
	}
	return &p, nil
}
