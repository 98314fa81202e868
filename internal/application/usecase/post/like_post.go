package post

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/allandacasin/devconnector-api/internal/domain/post"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
)

type LikePostUseCase struct {
	postRepo post.Repository
}

func NewLikePostUseCase(repo post.Repository) *LikePostUseCase {
	return &LikePostUseCase{postRepo: repo}
}

// ExecuteLike adds the caller's like; at most one like per user per post.
func (uc *LikePostUseCase) ExecuteLike(ctx context.Context, callerID primitive.ObjectID, rawID string) (*post.Post, error) {
	p, err := uc.find(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if p.LikedBy(callerID) {
		return nil, apperror.NewAppError(apperror.ErrInvalidInput, "Post already liked", nil)
	}

	updated, err := uc.postRepo.AddLike(ctx, p.ID, post.Like{
		ID:   primitive.NewObjectID(),
		User: callerID,
	})
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return nil, apperror.NewNotFound(msgPostNotFound)
		}
		return nil, err
	}
	return updated, nil
}

// ExecuteUnlike removes the caller's like; unliking a post the caller
// never liked is an error, mirroring the like rule.
func (uc *LikePostUseCase) ExecuteUnlike(ctx context.Context, callerID primitive.ObjectID, rawID string) (*post.Post, error) {
	p, err := uc.find(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if !p.LikedBy(callerID) {
		return nil, apperror.NewAppError(apperror.ErrInvalidInput, "Post has not yet been liked", nil)
	}

	updated, err := uc.postRepo.RemoveLike(ctx, p.ID, callerID)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return nil, apperror.NewNotFound(msgPostNotFound)
		}
		return nil, err
	}
	return updated, nil
}

func (uc *LikePostUseCase) find(ctx context.Context, rawID string) (*post.Post, error) {
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
