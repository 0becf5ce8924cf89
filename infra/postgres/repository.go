package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fixcycle/app"
	"fixcycle/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PgRepository struct {
	db *sqlx.DB
}

func NewPgRepository(host, database, user, password, port string) *PgRepository {
	db := sqlx.MustConnect("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, database,
	))

	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PgRepository{db: db}
}

func (r *PgRepository) Close() error {
	return r.db.Close()
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (r *PgRepository) CreateUser(ctx context.Context, req *app.RegisterRequest, passwordHash string) (domain.User, error) {
	var u domain.User
	query := `
		INSERT INTO users (id, name, email, password_hash, user_type, city)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *`

	err := r.db.GetContext(ctx, &u, query,
		uuid.New().String(), req.Name, req.Email, passwordHash, req.UserType, req.City)
	if err != nil {
		if isUniqueViolation(err) {
			return u, app.ErrDuplicateEmail
		}
		return u, err
	}

	return u, nil
}

func (r *PgRepository) GetUser(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &u, query, id)
	return u, err
}

// GetUserByEmail resolves an account by email, case-insensitively; the email
// column carries a unique index on its lowercased form.
func (r *PgRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	query := `SELECT * FROM users WHERE LOWER(email) = LOWER($1)`

	err := r.db.GetContext(ctx, &u, query, email)
	return u, err
}

// itemColumns is the read projection: item fields plus the owner's display
// name and city resolved through an explicit join.
const itemColumns = `
	i.id, i.title, i.description, i.category, i.condition, i.mode,
	i.images, i.owner_id, i.status, i.eco_score, i.created_at, i.updated_at,
	u.name AS owner_name, u.city AS owner_city`

func (r *PgRepository) CreateItem(ctx context.Context, req *app.CreateItemRequest) (domain.Item, error) {
	id := uuid.New().String()
	query := `
		INSERT INTO items (id, title, description, category, condition, mode, images, owner_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	// Status is always open on creation regardless of mode.
	_, err := r.db.ExecContext(ctx, query,
		id, req.Title, req.Description, req.Category, req.Condition,
		req.Mode, pq.StringArray(req.Images), req.OwnerID, domain.StatusOpen)
	if err != nil {
		return domain.Item{}, err
	}

	return r.GetItem(ctx, id)
}

func (r *PgRepository) GetItem(ctx context.Context, id string) (domain.Item, error) {
	var i domain.Item
	query := `SELECT ` + itemColumns + `
		FROM items i
		JOIN users u ON u.id = i.owner_id
		WHERE i.id = $1`

	err := r.db.GetContext(ctx, &i, query, id)
	return i, err
}

func (r *PgRepository) ListItems(ctx context.Context, filter app.ItemFilter) ([]domain.Item, error) {
	items := make([]domain.Item, 0)

	conditions := make([]string, 0, 4)
	args := make([]any, 0, 4)

	addCondition := func(clause string, value string) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Category != nil {
		addCondition("i.category = $%d", *filter.Category)
	}
	if filter.Mode != nil {
		addCondition("i.mode = $%d", *filter.Mode)
	}
	if filter.Status != nil {
		addCondition("i.status = $%d", *filter.Status)
	}
	if filter.City != nil {
		addCondition("u.city = $%d", *filter.City)
	}

	query := `SELECT ` + itemColumns + `
		FROM items i
		JOIN users u ON u.id = i.owner_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY i.created_at DESC"

	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		return nil, err
	}

	return items, nil
}

// UpdateItem persists a patched item. The update is guarded on the status the
// caller read, so a transition validated against a stale status is rejected
// instead of overwriting a concurrent change.
func (r *PgRepository) UpdateItem(ctx context.Context, item domain.Item, prevStatus string) (domain.Item, error) {
	query := `
		UPDATE items SET
			title = :title,
			description = :description,
			category = :category,
			condition = :condition,
			images = :images,
			status = :status,
			updated_at = now()
		WHERE id = :id AND status = :prev_status`

	params := map[string]interface{}{
		"id":          item.ID,
		"title":       item.Title,
		"description": item.Description,
		"category":    item.Category,
		"condition":   item.Condition,
		"images":      item.Images,
		"status":      item.Status,
		"prev_status": prevStatus,
	}

	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return domain.Item{}, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Item{}, err
	}
	if affected == 0 {
		return domain.Item{}, app.ErrStaleStatus
	}

	return r.GetItem(ctx, item.ID)
}

// AppendItemImage appends one image URL, enforcing the per-item bound in the
// same statement so concurrent uploads cannot exceed it.
func (r *PgRepository) AppendItemImage(ctx context.Context, itemID, imageURL string) (domain.Item, error) {
	query := `
		UPDATE items SET
			images = array_append(images, $2),
			updated_at = now()
		WHERE id = $1 AND cardinality(images) < $3`

	result, err := r.db.ExecContext(ctx, query, itemID, imageURL, domain.MaxItemImages)
	if err != nil {
		return domain.Item{}, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Item{}, err
	}
	if affected == 0 {
		return domain.Item{}, app.ErrImageLimit
	}

	return r.GetItem(ctx, itemID)
}

const commentColumns = `
	c.id, c.item_id, c.author_id, c.text, c.created_at,
	u.name AS author_name`

func (r *PgRepository) CreateComment(ctx context.Context, itemID, authorID, text string) (domain.Comment, error) {
	id := uuid.New().String()
	query := `INSERT INTO comments (id, item_id, author_id, text) VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, id, itemID, authorID, text)
	if err != nil {
		return domain.Comment{}, err
	}

	var c domain.Comment
	err = r.db.GetContext(ctx, &c, `SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1`, id)
	return c, err
}

func (r *PgRepository) GetItemComments(ctx context.Context, itemID string) ([]domain.Comment, error) {
	comments := make([]domain.Comment, 0)
	query := `SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.item_id = $1
		ORDER BY c.created_at ASC`

	err := r.db.SelectContext(ctx, &comments, query, itemID)
	if err != nil {
		return nil, err
	}

	return comments, nil
}
