package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"fixcycle/domain"
	"fixcycle/pkg/aws"
	"fixcycle/pkg/config"
	"fixcycle/pkg/events"
	"fixcycle/pkg/httperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UploadItemImageHandler struct {
	repository     Repository
	bucket         *aws.S3
	cfg            *config.AppConfig
	eventPublisher events.Publisher
}

func NewUploadItemImageHandler(repository Repository, bucket *aws.S3, cfg *config.AppConfig, eventPublisher events.Publisher) *UploadItemImageHandler {
	return &UploadItemImageHandler{
		repository:     repository,
		bucket:         bucket,
		cfg:            cfg,
		eventPublisher: eventPublisher,
	}
}

type UploadItemImageRequest struct {
	ItemID string `params:"id"`
}

type UploadItemImageResponse struct {
	ItemID   string   `json:"itemID"`
	ImageURL string   `json:"imageUrl"`
	Images   []string `json:"images"`
}

func (h *UploadItemImageHandler) Handle(ctx context.Context, req *UploadItemImageRequest) (*UploadItemImageResponse, error) {
	fiberCtx := ctx.Value("fiber")
	if fiberCtx == nil {
		return nil, httperror.InternalServerError("upload.no_context", "Fiber context not found", nil)
	}

	c, ok := fiberCtx.(*fiber.Ctx)
	if !ok {
		return nil, httperror.InternalServerError("upload.invalid_context", "Invalid Fiber context", nil)
	}

	item, err := h.repository.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NotFound("upload.not_found", "Item not found", nil)
		}

		return nil, httperror.InternalServerError("upload.failed", "Failed to get item", nil)
	}

	userID, _ := ctx.Value("UserID").(string)
	if !domain.CanMutate(userID, item.OwnerID) {
		return nil, httperror.Forbidden("upload.forbidden", "Only the item owner may upload images", nil)
	}

	if len(item.Images) >= domain.MaxItemImages {
		return nil, httperror.BadRequest("upload.image_limit", "Item already has the maximum number of images",
			fiber.Map{"max": domain.MaxItemImages})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return nil, httperror.BadRequest("upload.missing_file", "Image file is required (use 'image' field)", fiber.Map{"error": err.Error()})
	}

	const maxFileSize = 5 * 1024 * 1024
	if file.Size > maxFileSize {
		return nil, httperror.BadRequest("upload.file_too_large", "File size must not exceed 5MB",
			fiber.Map{
				"size_mb": float64(file.Size) / 1024 / 1024,
				"max_mb":  5,
			})
	}

	contentType := file.Header.Get("Content-Type")

	allowedTypes := map[string]bool{
		"image/png":  true,
		"image/jpeg": true,
		"image/jpg":  true,
	}
	if !allowedTypes[contentType] {
		return nil, httperror.BadRequest("upload.invalid_content_type", "Only PNG, JPEG/JPG images are allowed",
			fiber.Map{
				"received": contentType,
				"allowed":  []string{"image/png", "image/jpeg", "image/jpg"},
			})
	}

	fileReader, err := file.Open()
	if err != nil {
		return nil, httperror.InternalServerError("upload.file_open_error", "Failed to open uploaded file", err.Error())
	}
	defer fileReader.Close()

	fileBytes, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, httperror.InternalServerError("upload.file_read_error", "Failed to read file content", err.Error())
	}

	key := fmt.Sprintf("items/%s/%s%s", item.ID, uuid.New().String(), extensionFor(contentType))

	if err := h.bucket.Upload(key, fileBytes); err != nil {
		return nil, httperror.InternalServerError("upload.storage_failed", "Failed to upload image to storage", err.Error())
	}

	imageURL := h.imageURL(key)

	updated, err := h.repository.AppendItemImage(ctx, item.ID, imageURL)
	if err != nil {
		_ = h.bucket.Delete(key)

		if errors.Is(err, ErrImageLimit) {
			return nil, httperror.BadRequest("upload.image_limit", "Item already has the maximum number of images",
				fiber.Map{"max": domain.MaxItemImages})
		}

		return nil, httperror.InternalServerError("upload.store_failed", "Failed to save image reference", err.Error())
	}

	publishEvent(ctx, h.eventPublisher, events.ItemExchange, events.ItemImageUploadedEvent, events.ItemImageUploadedPayload{
		ItemID:    updated.ID,
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	})

	return &UploadItemImageResponse{
		ItemID:   updated.ID,
		ImageURL: imageURL,
		Images:   []string(updated.Images),
	}, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	default:
		return ".jpg"
	}
}

func (h *UploadItemImageHandler) imageURL(key string) string {
	// MinIO-style endpoints serve objects at endpoint/bucket/key; plain AWS
	// uses the virtual-hosted bucket URL.
	if h.cfg.AWSEndpoint != "" {
		return fmt.Sprintf("%s/%s/%s", h.cfg.AWSEndpoint, h.cfg.AWSBucket, key)
	}

	if h.cfg.AWSDefaultRegion != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", h.cfg.AWSBucket, h.cfg.AWSDefaultRegion, key)
	}

	return key
}
