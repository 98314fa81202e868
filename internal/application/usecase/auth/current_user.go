package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/allandacasin/devconnector-api/internal/domain/user"
)

type CurrentUserUseCase struct {
	userRepo user.Repository
}

func NewCurrentUserUseCase(repo user.Repository) *CurrentUserUseCase {
	return &CurrentUserUseCase{userRepo: repo}
}

// Execute returns the authenticated caller's account record. The password
// hash never leaves the domain type's json:"-" tag.
func (uc *CurrentUserUseCase) Execute(ctx context.Context, userID primitive.ObjectID) (*user.User, error) {
	return uc.userRepo.FindByID(ctx, userID)
}
