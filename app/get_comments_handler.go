package app

import (
	"context"
	"database/sql"
	"errors"

	"fixcycle/domain"
	"fixcycle/pkg/httperror"
)

type GetCommentsHandler struct {
	repository Repository
}

func NewGetCommentsHandler(repository Repository) *GetCommentsHandler {
	return &GetCommentsHandler{
		repository: repository,
	}
}

type GetCommentsRequest struct {
	ItemID string `params:"id"`
}

type GetCommentsResponse struct {
	Comments []domain.Comment `json:"comments"`
}

// Handle returns the item's comments oldest first. Reading requires no
// authentication.
func (h *GetCommentsHandler) Handle(ctx context.Context, req *GetCommentsRequest) (*GetCommentsResponse, error) {
	if _, err := h.repository.GetItem(ctx, req.ItemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NotFound(
				"comments.index.not_found",
				"Item not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"comments.index.failed",
			"Failed to get item",
			nil,
		)
	}

	comments, err := h.repository.GetItemComments(ctx, req.ItemID)
	if err != nil {
		return nil, httperror.InternalServerError(
			"comments.index.failed",
			"Failed to retrieve comments",
			nil,
		)
	}

	return &GetCommentsResponse{
		Comments: comments,
	}, nil
}
