package app

import (
	"context"
	"errors"

	"fixcycle/auth"
	"fixcycle/domain"
	"fixcycle/pkg/events"
	"fixcycle/pkg/httperror"

	"github.com/go-playground/validator/v10"
)

type RegisterHandler struct {
	repository     Repository
	eventPublisher events.Publisher
}

type RegisterRequest struct {
	Name     string  `json:"name" validate:"required" db:"name"`
	Email    string  `json:"email" validate:"required,email" db:"email"`
	Password string  `json:"password" validate:"required,min=6"`
	City     *string `json:"city" db:"city"`
	UserType string  `json:"userType" validate:"omitempty,oneof=regular repairer" db:"user_type"`
}

type RegisterResponse struct {
	User domain.User `json:"user"`
}

func NewRegisterHandler(repository Repository, eventPublisher events.Publisher) *RegisterHandler {
	return &RegisterHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
	}
}

func (h *RegisterHandler) Handle(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"auth.register.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"auth.register.validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}

	if req.UserType == "" {
		req.UserType = domain.UserTypeRegular
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, httperror.InternalServerError(
			"auth.register.hash_failed",
			"Failed to process registration",
			nil,
		)
	}

	user, err := h.repository.CreateUser(ctx, req, passwordHash)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, httperror.Conflict(
				"auth.register.email_taken",
				"An account with this email already exists",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"auth.register.create_failed",
			"An error occurred while creating the account",
			nil,
		)
	}

	publishEvent(ctx, h.eventPublisher, events.UserExchange, events.UserRegisteredEvent, events.UserRegisteredPayload{
		ID:        user.ID,
		Name:      user.Name,
		UserType:  user.UserType,
		City:      user.City,
		CreatedAt: user.CreatedAt,
	})

	return &RegisterResponse{
		User: user,
	}, nil
}
