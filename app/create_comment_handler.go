package app

import (
	"context"
	"database/sql"
	"errors"

	"fixcycle/domain"
	"fixcycle/pkg/events"
	"fixcycle/pkg/httperror"

	"github.com/go-playground/validator/v10"
)

type CreateCommentHandler struct {
	repository     Repository
	eventPublisher events.Publisher
}

func NewCreateCommentHandler(repository Repository, eventPublisher events.Publisher) *CreateCommentHandler {
	return &CreateCommentHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
	}
}

type CreateCommentRequest struct {
	ItemID string `params:"id" validate:"required,uuid"`
	Text   string `json:"text" validate:"required"`
}

type CreateCommentResponse struct {
	Comment domain.Comment `json:"comment"`
}

func (h *CreateCommentHandler) Handle(ctx context.Context, req *CreateCommentRequest) (*CreateCommentResponse, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"comments.create.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"comments.create.validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}

	userID, _ := ctx.Value("UserID").(string)
	if userID == "" {
		return nil, httperror.Unauthorized(
			"comments.create.unauthenticated",
			"Authentication required to comment",
			nil,
		)
	}

	item, err := h.repository.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NotFound("comments.create.not_found", "Item not found", nil)
		}

		return nil, httperror.InternalServerError("comments.create.internal_error", "Failed to get item", nil)
	}

	comment, err := h.repository.CreateComment(ctx, item.ID, userID, req.Text)
	if err != nil {
		return nil, httperror.InternalServerError("comments.create.internal_error", "Failed to create comment", nil)
	}

	publishEvent(ctx, h.eventPublisher, events.ItemExchange, events.ItemCommentCreatedEvent, events.ItemCommentCreatedPayload{
		ID:        comment.ID,
		ItemID:    comment.ItemID,
		AuthorID:  comment.AuthorID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	})

	return &CreateCommentResponse{
		Comment: comment,
	}, nil
}
