package handlers

import (
	"LostFound/internal/config"
	"LostFound/internal/middleware"
	"LostFound/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	itemService *service.ItemService,
	chatService *service.ChatService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	middleware.SetLogger(logger)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, logger, config)
	itemHandler := NewItemHandler(itemService, logger)
	chatHandler := NewChatHandler(chatService, logger)
	adminHandler := NewAdminHandler(userService, logger)

	// Auth routes
	r.Post("/api/auth/register", userHandler.Register)
	r.Post("/api/auth/login", userHandler.Login)
	r.Get("/api/auth/me", userHandler.Me)

	// Items
	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", itemHandler.List)
		r.Post("/", itemHandler.Create)
		r.Get("/flagged", itemHandler.ListFlagged)
		r.Get("/{id}", itemHandler.Get)
		r.Put("/{id}", itemHandler.Update)
		r.Delete("/{id}", itemHandler.Delete)
		r.Get("/{id}/matches", itemHandler.Matches)
		r.Post("/{id}/flag", itemHandler.Flag)
		r.Delete("/{id}/flag", itemHandler.Unflag)
	})

	// Chat
	r.Route("/api/chat/conversations", func(r chi.Router) {
		r.Get("/", chatHandler.ListConversations)
		r.Post("/", chatHandler.Start)
		r.Get("/{id}/messages", chatHandler.ListMessages)
		r.Post("/{id}/messages", chatHandler.Send)
		r.Post("/{id}/read", chatHandler.MarkRead)
		r.Post("/{id}/approve", chatHandler.Approve)
		r.Post("/{id}/block", chatHandler.Block)
		r.Post("/{id}/unblock", chatHandler.Unblock)
	})

	// Admin
	r.Route("/api/admin/users", func(r chi.Router) {
		r.Get("/", adminHandler.ListUsers)
		r.Get("/pending", adminHandler.ListPending)
		r.Post("/{id}/{action}", adminHandler.Moderate)
	})

	// Analytics
	r.Get("/api/analytics/summary", itemHandler.Summary)
	r.Get("/api/analytics/user", itemHandler.UserSummary)

	return &Handler{Router: r}
}
