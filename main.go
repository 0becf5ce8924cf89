package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fixcycle/app"
	"fixcycle/infra/postgres"
	"fixcycle/infra/rabbitmq"
	"fixcycle/internal/middleware"
	"fixcycle/pkg/aws"
	"fixcycle/pkg/config"
	"fixcycle/pkg/events"
	"fixcycle/pkg/httperror"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

func adapt[R Request, Res Response](handler HandlerInterface[R, Res], status int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return writeError(c, httperror.BadRequest(
				"request.invalid_body",
				"Invalid body",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ParamsParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"Invalid path params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.QueryParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_query_params",
				"Invalid query params",
				fiber.Map{"error": err.Error()},
			))
		}

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, "fiber", c)

		res, err := handler.Handle(ctx, &req)
		if err != nil {
			return writeError(c, err)
		}

		return c.Status(status).JSON(res)
	}
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return adapt(handler, fiber.StatusOK)
}

func handleCreated[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return adapt(handler, fiber.StatusCreated)
}

func main() {
	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	appConfig := config.Read()
	zap.L().Info("app starting...")

	if appConfig.JWTSecret == "" {
		zap.L().Fatal("JWT_SECRET is required")
	}

	fiberApp := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
	})

	pgRepository := postgres.NewPgRepository(
		appConfig.PostgresHost,
		appConfig.PostgresDatabase,
		appConfig.PostgresUsername,
		appConfig.PostgresPassword,
		appConfig.PostgresPort,
	)

	var eventPublisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Error("Failed to connect event publisher, continuing without events", zap.Error(err))
		} else {
			eventPublisher = publisher
			defer publisher.Close()
		}
	}

	bucket := aws.NewS3Bucket(appConfig)

	registerHandler := app.NewRegisterHandler(pgRepository, eventPublisher)
	loginHandler := app.NewLoginHandler(pgRepository, appConfig.JWTSecret)
	createItemHandler := app.NewCreateItemHandler(pgRepository, eventPublisher)
	getItemHandler := app.NewGetItemHandler(pgRepository)
	getItemsHandler := app.NewGetItemsHandler(pgRepository)
	updateItemHandler := app.NewUpdateItemHandler(pgRepository, eventPublisher)
	createCommentHandler := app.NewCreateCommentHandler(pgRepository, eventPublisher)
	getCommentsHandler := app.NewGetCommentsHandler(pgRepository)
	uploadImageHandler := app.NewUploadItemImageHandler(pgRepository, bucket, appConfig, eventPublisher)

	api := fiberApp.Group("/api/v1")

	api.Post("/auth/register", handleCreated[app.RegisterRequest, app.RegisterResponse](registerHandler))
	api.Post("/auth/login", handle[app.LoginRequest, app.LoginResponse](loginHandler))

	api.Get("/items", handle[app.GetItemsRequest, app.GetItemsResponse](getItemsHandler))
	api.Get("/items/:id", handle[app.GetItemRequest, app.GetItemResponse](getItemHandler))
	api.Get("/items/:id/comments", handle[app.GetCommentsRequest, app.GetCommentsResponse](getCommentsHandler))

	authorized := api.Group("", middleware.NewAuthMiddleware(appConfig.JWTSecret))
	authorized.Post("/items", handleCreated[app.CreateItemRequest, app.CreateItemResponse](createItemHandler))
	authorized.Put("/items/:id", handle[app.UpdateItemRequest, app.UpdateItemResponse](updateItemHandler))
	authorized.Post("/items/:id/comments", handleCreated[app.CreateCommentRequest, app.CreateCommentResponse](createCommentHandler))
	authorized.Post("/items/:id/images", handleCreated[app.UploadItemImageRequest, app.UploadItemImageResponse](uploadImageHandler))

	go func() {
		if err := fiberApp.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(fiberApp, pgRepository)
}

func gracefulShutdown(fiberApp *fiber.App, repository app.Repository) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := fiberApp.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	if err := repository.Close(); err != nil {
		zap.L().Error("Error closing repository", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}

func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		payload := fiber.Map{
			"code":    httpErr.Code,
			"message": httpErr.Message,
		}

		if httpErr.Details != nil {
			payload["details"] = httpErr.Details
		}

		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		return c.Status(httpErr.Status).JSON(payload)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber validation error", zap.String("message", fiberErr.Message), zap.Error(err))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"code":    "request.invalid",
			"message": fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":    "internal_server_error",
		"message": "Internal server error.",
	})
}
