package post

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/allandacasin/devconnector-api/adapters/event"
	"github.com/allandacasin/devconnector-api/internal/domain/post"
	"github.com/allandacasin/devconnector-api/internal/domain/user"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
	"github.com/allandacasin/devconnector-api/pkg/logger"
)

type CreatePostUseCase struct {
	postRepo    post.Repository
	userRepo    user.Repository
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewCreatePostUseCase(pRepo post.Repository, uRepo user.Repository, kClient *event.KafkaProducerClient, log logger.Logger) *CreatePostUseCase {
	return &CreatePostUseCase{
		postRepo:    pRepo,
		userRepo:    uRepo,
		kafkaClient: kClient,
		logger:      log,
	}
}

type CreatePostInput struct {
	UserID primitive.ObjectID
	Text   string
}

// Execute stores a new post with the author's name/avatar denormalized
// from the user record.
func (uc *CreatePostUseCase) Execute(ctx context.Context, input CreatePostInput) (*post.Post, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, apperror.NewValidation(apperror.FieldError{Msg: "Text is required", Param: "text"})
	}

	u, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	newPost := &post.Post{
		ID:     primitive.NewObjectID(),
		User:   u.ID,
		Text:   input.Text,
		Name:   u.Name,
		Avatar: u.Avatar,
	}

	if err := uc.postRepo.Save(ctx, newPost); err != nil {
		return nil, err
	}

	if uc.kafkaClient != nil {
		go func() {
			err := uc.kafkaClient.PublishPostEvent(context.Background(), event.DomainEvent{
				EventType: event.PostEventTypeCreated,
				UserID:    newPost.User.Hex(),
				EntityID:  newPost.ID.Hex(),
			})
			if err != nil {
				uc.logger.Error("Failed to publish post event", err, zap.String("post_id", newPost.ID.Hex()))
			}
		}()
	}

	return newPost, nil
}
