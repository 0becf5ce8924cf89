package app

import (
	"context"
	"testing"

	"fixcycle/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentToMissingItem(t *testing.T) {
	repo := newFakeRepository()
	author := registerUser(t, repo, "Bob", "bob@example.com", "hunter22", "", "regular")

	_, err := NewCreateCommentHandler(repo, nil).Handle(authedCtx(author.ID), &CreateCommentRequest{
		ItemID: uuid.New().String(),
		Text:   "Is this still around?",
	})
	httpErr := asHTTPError(t, err)
	assert.Equal(t, 404, httpErr.Status)
}

func TestAddCommentEmptyText(t *testing.T) {
	repo := newFakeRepository()
	owner := registerUser(t, repo, "Alice", "alice@example.com", "hunter22", "", "regular")
	item := createItem(t, repo, owner.ID, CreateItemRequest{Title: "Lamp", Mode: domain.ModeRepairRequest})

	_, err := NewCreateCommentHandler(repo, nil).Handle(authedCtx(owner.ID), &CreateCommentRequest{
		ItemID: item.ID,
		Text:   "",
	})
	httpErr := asHTTPError(t, err)
	assert.Equal(t, 400, httpErr.Status)
}

func TestAddCommentRequiresAuth(t *testing.T) {
	repo := newFakeRepository()
	owner := registerUser(t, repo, "Alice", "alice@example.com", "hunter22", "", "regular")
	item := createItem(t, repo, owner.ID, CreateItemRequest{Title: "Lamp", Mode: domain.ModeRepairRequest})

	_, err := NewCreateCommentHandler(repo, nil).Handle(context.Background(), &CreateCommentRequest{
		ItemID: item.ID,
		Text:   "anonymous note",
	})
	httpErr := asHTTPError(t, err)
	assert.Equal(t, 401, httpErr.Status)
}

func TestCommentsOrderedOldestFirst(t *testing.T) {
	repo := newFakeRepository()
	owner := registerUser(t, repo, "Alice", "alice@example.com", "hunter22", "", "regular")
	bob := registerUser(t, repo, "Bob", "bob@example.com", "hunter22", "", "repairer")
	item := createItem(t, repo, owner.ID, CreateItemRequest{Title: "Lamp", Mode: domain.ModeRepairRequest})

	createComment := NewCreateCommentHandler(repo, nil)
	texts := []string{"first", "second", "third"}
	for _, text := range texts {
		_, err := createComment.Handle(authedCtx(bob.ID), &CreateCommentRequest{
			ItemID: item.ID,
			Text:   text,
		})
		require.NoError(t, err)
	}

	res, err := NewGetCommentsHandler(repo).Handle(context.Background(), &GetCommentsRequest{ItemID: item.ID})
	require.NoError(t, err)
	require.Len(t, res.Comments, 3)

	for i, comment := range res.Comments {
		assert.Equal(t, texts[i], comment.Text)
		assert.Equal(t, "Bob", comment.AuthorName)
		assert.Equal(t, item.ID, comment.ItemID)
	}
	for i := 1; i < len(res.Comments); i++ {
		assert.False(t, res.Comments[i].CreatedAt.Before(res.Comments[i-1].CreatedAt),
			"comments must be in non-decreasing creation order")
	}
}

func TestListCommentsEmpty(t *testing.T) {
	repo := newFakeRepository()
	owner := registerUser(t, repo, "Alice", "alice@example.com", "hunter22", "", "regular")
	item := createItem(t, repo, owner.ID, CreateItemRequest{Title: "Lamp", Mode: domain.ModeRepairRequest})

	res, err := NewGetCommentsHandler(repo).Handle(context.Background(), &GetCommentsRequest{ItemID: item.ID})
	require.NoError(t, err)
	assert.NotNil(t, res.Comments)
	assert.Len(t, res.Comments, 0)
}

func TestListCommentsMissingItem(t *testing.T) {
	repo := newFakeRepository()

	_, err := NewGetCommentsHandler(repo).Handle(context.Background(), &GetCommentsRequest{
		ItemID: uuid.New().String(),
	})
	httpErr := asHTTPError(t, err)
	assert.Equal(t, 404, httpErr.Status)
}
