package app

import (
	"context"
	"database/sql"
	"errors"

	"fixcycle/auth"
	"fixcycle/domain"
	"fixcycle/pkg/httperror"

	"github.com/go-playground/validator/v10"
)

type LoginHandler struct {
	repository Repository
	jwtSecret  string
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func NewLoginHandler(repository Repository, jwtSecret string) *LoginHandler {
	return &LoginHandler{
		repository: repository,
		jwtSecret:  jwtSecret,
	}
}

// invalidCredentials is shared between the unknown-email and wrong-password
// paths so the response never reveals which one failed.
func invalidCredentials() *httperror.Error {
	return httperror.BadRequest(
		"auth.login.invalid_credentials",
		"Invalid credentials",
		nil,
	)
}

func (h *LoginHandler) Handle(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"auth.login.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"auth.login.validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}

	user, err := h.repository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invalidCredentials()
		}

		return nil, httperror.InternalServerError(
			"auth.login.lookup_failed",
			"Failed to look up account",
			nil,
		)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, invalidCredentials()
	}

	token, err := auth.GenerateToken(h.jwtSecret, user.ID, user.Email, user.UserType)
	if err != nil {
		return nil, httperror.InternalServerError(
			"auth.login.token_failed",
			"Failed to issue session token",
			nil,
		)
	}

	return &LoginResponse{
		Token: token,
		User:  user,
	}, nil
}
