package app

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fixcycle/domain"
	"fixcycle/pkg/events"
	"fixcycle/pkg/httperror"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
)

type UpdateItemHandler struct {
	repository     Repository
	eventPublisher events.Publisher
}

// UpdateItemRequest is the owner-only patch. Immutable fields (id, owner,
// mode) are declared here solely so their presence in the body can be
// rejected instead of silently ignored.
type UpdateItemRequest struct {
	ItemID      string    `params:"id" validate:"required,uuid"`
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Condition   *string   `json:"condition,omitempty"`
	Images      *[]string `json:"images,omitempty" validate:"omitempty,max=5,dive,required"`
	Status      *string   `json:"status,omitempty" validate:"omitempty,oneof=open in-progress fixed taken"`

	// Immutable fields, rejected when present.
	ID      *string `json:"id,omitempty"`
	OwnerID *string `json:"ownerID,omitempty"`
	Mode    *string `json:"mode,omitempty"`
}

type UpdateItemResponse struct {
	Item domain.Item `json:"item"`
}

func NewUpdateItemHandler(repository Repository, eventPublisher events.Publisher) *UpdateItemHandler {
	return &UpdateItemHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
	}
}

func (h *UpdateItemHandler) Handle(ctx context.Context, req *UpdateItemRequest) (*UpdateItemResponse, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"item.update.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"item.update.validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}

	if req.ID != nil || req.OwnerID != nil || req.Mode != nil {
		return nil, httperror.BadRequest(
			"item.update.immutable_field",
			"Fields id, ownerID and mode cannot be changed",
			nil,
		)
	}

	item, err := h.repository.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NotFound(
				"item.update.not_found",
				"Item not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"item.update.failed",
			"Failed to get item",
			nil,
		)
	}

	userID, _ := ctx.Value("UserID").(string)
	if !domain.CanMutate(userID, item.OwnerID) {
		return nil, httperror.Forbidden(
			"item.update.forbidden",
			"Only the item owner may modify it",
			nil,
		)
	}

	prevStatus := item.Status
	if req.Status != nil && *req.Status != item.Status {
		if !domain.CanTransition(item.Status, *req.Status) {
			return nil, httperror.Conflict(
				"item.update.invalid_transition",
				"Illegal status transition from "+item.Status+" to "+*req.Status,
				nil,
			)
		}
		item.Status = *req.Status
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Category != nil {
		item.Category = req.Category
	}
	if req.Condition != nil {
		item.Condition = req.Condition
	}
	if req.Images != nil {
		item.Images = pq.StringArray(*req.Images)
	}

	updated, err := h.repository.UpdateItem(ctx, item, prevStatus)
	if err != nil {
		if errors.Is(err, ErrStaleStatus) {
			// A concurrent request moved the status; the transition we
			// validated no longer starts from the persisted state.
			return nil, httperror.Conflict(
				"item.update.invalid_transition",
				"Item status changed concurrently, transition no longer valid",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"item.update.update_failed",
			"An error occurred while updating the item",
			nil,
		)
	}

	publishEvent(ctx, h.eventPublisher, events.ItemExchange, events.ItemUpdatedEvent, events.ItemUpdatedPayload{
		ID:        updated.ID,
		Title:     updated.Title,
		Category:  updated.Category,
		Condition: updated.Condition,
		Status:    updated.Status,
		UpdatedAt: updated.UpdatedAt,
	})

	if updated.Status != prevStatus {
		publishEvent(ctx, h.eventPublisher, events.ItemExchange, events.ItemStatusChangedEvent, events.ItemStatusChangedPayload{
			ID:         updated.ID,
			OwnerID:    updated.OwnerID,
			FromStatus: prevStatus,
			ToStatus:   updated.Status,
			ChangedAt:  time.Now().UTC(),
		})
	}

	return &UpdateItemResponse{
		Item: updated,
	}, nil
}
