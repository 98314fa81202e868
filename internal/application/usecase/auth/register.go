package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/allandacasin/devconnector-api/internal/domain/user"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
	"github.com/allandacasin/devconnector-api/pkg/auth"
	"github.com/allandacasin/devconnector-api/pkg/logger"
)

const minPasswordLength = 6

type RegisterUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewRegisterUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type RegisterOutput struct {
	Token string
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	var fields []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fields = append(fields, apperror.FieldError{Msg: "Name is required", Param: "name"})
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		fields = append(fields, apperror.FieldError{Msg: "Please include a valid email", Param: "email"})
	}
	if len(input.Password) < minPasswordLength {
		fields = append(fields, apperror.FieldError{Msg: "Please enter a password with 6 or more characters", Param: "password"})
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidation(fields...)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &user.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Avatar:       gravatarURL(input.Email),
	}

	if err := uc.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.NewValidation(apperror.FieldError{Msg: "User already exists", Param: "email"})
		}
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.Hex()))
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	return &RegisterOutput{Token: token}, nil
}
