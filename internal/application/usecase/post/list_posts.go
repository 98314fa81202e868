package post

import (
	"context"

	"github.com/allandacasin/devconnector-api/internal/domain/post"
)

type ListPostsUseCase struct {
	postRepo post.Repository
}

func NewListPostsUseCase(repo post.Repository) *ListPostsUseCase {
	return &ListPostsUseCase{postRepo: repo}
}

// Execute returns all posts, newest first.
func (uc *ListPostsUseCase) Execute(ctx context.Context) ([]post.Post, error) {
	return uc.postRepo.List(ctx)
}
