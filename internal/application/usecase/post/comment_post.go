package post

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/allandacasin/devconnector-api/internal/domain/post"
	"github.com/allandacasin/devconnector-api/internal/domain/user"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
)

type CommentPostUseCase struct {
	postRepo post.Repository
	userRepo user.Repository
}

func NewCommentPostUseCase(pRepo post.Repository, uRepo user.Repository) *CommentPostUseCase {
	return &CommentPostUseCase{postRepo: pRepo, userRepo: uRepo}
}

type AddCommentInput struct {
	CallerID primitive.ObjectID
	PostID   string
	Text     string
}

// ExecuteAdd prepends a comment carrying the commenter's name/avatar.
func (uc *CommentPostUseCase) ExecuteAdd(ctx context.Context, input AddCommentInput) (*post.Post, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, apperror.NewValidation(apperror.FieldError{Msg: "Text is required", Param: "text"})
	}

	postID, err := primitive.ObjectIDFromHex(strings.TrimSpace(input.PostID))
	if err != nil {
		return nil, apperror.NewNotFound(msgPostNotFound)
	}

	u, err := uc.userRepo.FindByID(ctx, input.CallerID)
	if err != nil {
		return nil, err
	}

	comment := post.Comment{
		ID:     primitive.NewObjectID(),
		User:   u.ID,
		Text:   input.Text,
		Name:   u.Name,
		Avatar: u.Avatar,
		Date:   time.Now().UTC(),
	}

	updated, err := uc.postRepo.AddComment(ctx, postID, comment)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return nil, apperror.NewNotFound(msgPostNotFound)
		}
		return nil, err
	}
	return updated, nil
}

// ExecuteRemove deletes a comment if the caller wrote it.
func (uc *CommentPostUseCase) ExecuteRemove(ctx context.Context, callerID primitive.ObjectID, rawPostID, rawCommentID string) (*post.Post, error) {
	postID, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawPostID))
	if err != nil {
		return nil, apperror.NewNotFound(msgPostNotFound)
	}
	commentID, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawCommentID))
	if err != nil {
		return nil, apperror.NewNotFound("Comment does not exist.")
	}

	p, err := uc.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return nil, apperror.NewNotFound(msgPostNotFound)
		}
		return nil, err
	}

	var target *post.Comment
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			target = &p.Comments[i]
			break
		}
	}
	if target == nil {
		return nil, apperror.NewNotFound("Comment does not exist.")
	}
	if target.User != callerID {
		return nil, apperror.NewUnauthorized("User not authorized")
	}

	updated, err := uc.postRepo.RemoveComment(ctx, postID, commentID)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return nil, apperror.NewNotFound(msgPostNotFound)
		}
		return nil, err
	}
	return updated, nil
}
