package post

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/allandacasin/devconnector-api/internal/domain/post"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
)

const msgPostNotFound = "Post not found."

type GetPostUseCase struct {
	postRepo post.Repository
}

func NewGetPostUseCase(repo post.Repository) *GetPostUseCase {
	return &GetPostUseCase{postRepo: repo}
}

// Execute looks up a post by its raw URL id. A malformed id reads as a
// missing post.
func (uc *GetPostUseCase) Execute(ctx context.Context, rawID string) (*post.Post, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawID))
	if err != nil {
		return nil, apperror.NewNotFound(msgPostNotFound)
	}

	p, err := uc.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return nil, apperror.NewNotFound(msgPostNotFound)
		}
		return nil, err
	}
	return p, nil
}
