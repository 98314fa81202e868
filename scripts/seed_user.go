package main

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/allandacasin/devconnector-api/pkg/auth"
)

func main() {
	fmt.Println("adding user into database...")

	err := godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	mongoURI := os.Getenv("MONGO_URI")
	seedName := os.Getenv("SEED_NAME")
	seedEmail := os.Getenv("SEED_EMAIL")
	seedPassword := os.Getenv("SEED_PASSWORD")

	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer client.Disconnect(context.Background())

	normalized := strings.ToLower(strings.TrimSpace(seedEmail))
	avatar := fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", md5.Sum([]byte(normalized)))

	users := client.Database("devconnector").Collection("users")
	_, err = users.UpdateOne(ctx,
		bson.M{"email": seedEmail},
		bson.M{
			"$set": bson.M{"password": hash},
			"$setOnInsert": bson.M{
				"name":   seedName,
				"email":  seedEmail,
				"avatar": avatar,
				"date":   time.Now().UTC(),
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	fmt.Printf("added or updated user '%s' successfully!\n", seedEmail)
}
