package app

import (
	"context"

	"fixcycle/domain"
	"fixcycle/pkg/httperror"

	"github.com/go-playground/validator/v10"
)

type GetItemsHandler struct {
	repository Repository
}

func NewGetItemsHandler(repository Repository) *GetItemsHandler {
	return &GetItemsHandler{
		repository: repository,
	}
}

// GetItemsRequest carries the recognized listing filters. Every option is an
// exact match; omitted options impose no constraint and supplied options are
// combined with AND. Listing is open to anonymous callers.
type GetItemsRequest struct {
	Category string `query:"category"`
	Mode     string `query:"mode" validate:"omitempty,oneof=repair-request offer-free"`
	Status   string `query:"status" validate:"omitempty,oneof=open in-progress fixed taken"`
	City     string `query:"city"`
}

type GetItemsResponse struct {
	Items []domain.Item `json:"items"`
}

func (h GetItemsHandler) Handle(ctx context.Context, req *GetItemsRequest) (*GetItemsResponse, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"item.index.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"item.index.validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}

	filter := ItemFilter{}
	if req.Category != "" {
		filter.Category = &req.Category
	}
	if req.Mode != "" {
		filter.Mode = &req.Mode
	}
	if req.Status != "" {
		filter.Status = &req.Status
	}
	if req.City != "" {
		filter.City = &req.City
	}

	items, err := h.repository.ListItems(ctx, filter)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.index.failed",
			"Failed to retrieve items",
			nil,
		)
	}

	return &GetItemsResponse{
		Items: items,
	}, nil
}
