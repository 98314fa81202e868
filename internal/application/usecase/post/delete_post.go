package post

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/allandacasin/devconnector-api/internal/domain/post"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
)

type DeletePostUseCase struct {
	postRepo post.Repository
}

func NewDeletePostUseCase(repo post.Repository) *DeletePostUseCase {
	return &DeletePostUseCase{postRepo: repo}
}

// Execute deletes a post if and only if the caller authored it.
func (uc *DeletePostUseCase) Execute(ctx context.Context, callerID primitive.ObjectID, rawID string) error {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawID))
	if err != nil {
		return apperror.NewNotFound(msgPostNotFound)
	}

	p, err := uc.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return apperror.NewNotFound(msgPostNotFound)
		}
		return err
	}

	if p.User != callerID {
		return apperror.NewUnauthorized("User not authorized")
	}

	if err := uc.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return apperror.NewNotFound(msgPostNotFound)
		}
		return err
	}
	return nil
}
