package persistence

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/allandacasin/devconnector-api/internal/config"
	"github.com/allandacasin/devconnector-api/pkg/logger"
)

const (
	usersCollection    = "users"
	profilesCollection = "profiles"
	postsCollection    = "posts"

	defaultDBName = "devconnector"
)

// MongoClient holds the connection and the three collections the API
// works with.
type MongoClient struct {
	client   *mongo.Client
	db       *mongo.Database
	users    *mongo.Collection
	profiles *mongo.Collection
	posts    *mongo.Collection
}

func NewMongoClient(ctx context.Context, cfg config.Config, log logger.Logger) (*MongoClient, error) {
	if cfg.DB.MongoURI == "" {
		return nil, fmt.Errorf("mongo: empty MONGO_URI")
	}

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DB.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(cfg.DB.MongoURI))

	m := &MongoClient{
		client:   cli,
		db:       db,
		users:    db.Collection(usersCollection),
		profiles: db.Collection(profilesCollection),
		posts:    db.Collection(postsCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	log.Info("Connect MongoDB successfully.")
	return m, nil
}

func (m *MongoClient) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes backs the two uniqueness invariants: one account per
// email and at most one profile per user.
func (m *MongoClient) ensureIndexes(ctx context.Context) error {
	_, err := m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_email").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure users indexes: %w", err)
	}

	_, err = m.profiles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetName("uniq_owner").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure profiles indexes: %w", err)
	}

	_, err = m.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "date", Value: -1}},
		Options: options.Index().SetName("author_date_desc"),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure posts indexes: %w", err)
	}

	return nil
}

// databaseFromURI extracts the database name from the mongodb URI path,
// falling back to a default when absent.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}
