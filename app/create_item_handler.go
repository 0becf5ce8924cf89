package app

import (
	"context"

	"fixcycle/domain"
	"fixcycle/pkg/events"
	"fixcycle/pkg/httperror"

	"github.com/go-playground/validator/v10"
)

type CreateItemHandler struct {
	repository     Repository
	eventPublisher events.Publisher
}

type CreateItemRequest struct {
	Title       string   `json:"title" validate:"required" db:"title"`
	Description *string  `json:"description" db:"description"`
	Category    *string  `json:"category" db:"category"`
	Condition   *string  `json:"condition" db:"condition"`
	Mode        string   `json:"mode" validate:"required,oneof=repair-request offer-free" db:"mode"`
	Images      []string `json:"images" validate:"omitempty,max=5,dive,required"`
	OwnerID     string   `json:"-" db:"owner_id"`
}

type CreateItemResponse struct {
	Item domain.Item `json:"item"`
}

func NewCreateItemHandler(repository Repository, eventPublisher events.Publisher) *CreateItemHandler {
	return &CreateItemHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
	}
}

func (h *CreateItemHandler) Handle(ctx context.Context, req *CreateItemRequest) (*CreateItemResponse, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"item.create.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"item.create.validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}

	userID, _ := ctx.Value("UserID").(string)
	if userID == "" {
		return nil, httperror.Unauthorized(
			"item.create.unauthenticated",
			"Authentication required",
			nil,
		)
	}
	req.OwnerID = userID

	item, err := h.repository.CreateItem(ctx, req)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.create.create_failed",
			"An error occurred while creating the item",
			nil,
		)
	}

	publishEvent(ctx, h.eventPublisher, events.ItemExchange, events.ItemCreatedEvent, events.ItemCreatedPayload{
		ID:        item.ID,
		Title:     item.Title,
		Category:  item.Category,
		Mode:      item.Mode,
		OwnerID:   item.OwnerID,
		Status:    item.Status,
		CreatedAt: item.CreatedAt,
	})

	return &CreateItemResponse{
		Item: item,
	}, nil
}
