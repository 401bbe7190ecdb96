package routes

import (
	"log/slog"
	"time"

	"peerpay/internal/adapters/http/handlers"
	"peerpay/internal/adapters/http/middleware"
	"peerpay/internal/adapters/persistence/repositories"
	"peerpay/internal/config"
	"peerpay/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Services bundles the wired application services
type Services struct {
	Auth   *services.AuthService
	Users  *services.UserService
	Ledger *services.LedgerService
	Social *services.SocialService
	Feed   *services.FeedService
}

// NewServices initializes repositories and services on db
func NewServices(
	db *gorm.DB,
	cfg *config.Config,
	cache services.UsernameCache,
	events services.EventPublisher,
	logger *slog.Logger,
) *Services {
	// Initialize repositories
	txm := repositories.NewTxManager(db)
	userRepo := repositories.NewUserRepository(db)
	cardRepo := repositories.NewCardRepository(db)
	txRepo := repositories.NewTransactionRepository(db)
	reqRepo := repositories.NewMoneyRequestRepository(db)
	relRepo := repositories.NewRelationRepository(db)

	// Initialize services
	social := services.NewSocialService(txm, userRepo, relRepo, logger)
	users := services.NewUserService(userRepo, cardRepo, txRepo, reqRepo, social, cache, logger)

	return &Services{
		Auth:   services.NewAuthService(userRepo, cfg.JWT, logger),
		Users:  users,
		Ledger: services.NewLedgerService(txm, userRepo, cardRepo, txRepo, reqRepo, events, logger),
		Social: social,
		Feed:   services.NewFeedService(userRepo, relRepo, txRepo, users, logger),
	}
}

// Setup configures the routes of every enabled service group
func Setup(app *fiber.App, db *gorm.DB, svc *Services, cfg *config.Config) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api", middleware.NoCacheHeaders())

	if cfg.Serves(config.ServiceAuth) {
		setupAuthRoutes(api.Group("/auth"), handlers.NewAuthHandler(svc.Auth, svc.Users, cfg), cfg)
	}

	if cfg.Serves(config.ServiceUsers) {
		setupUserRoutes(api.Group("/users", middleware.AuthMiddleware(cfg)),
			handlers.NewUserHandler(svc.Users, svc.Ledger),
			handlers.NewFriendHandler(svc.Social),
		)
		api.Get("/feed", middleware.AuthMiddleware(cfg), handlers.NewFeedHandler(svc.Feed).Feed)
	}

	if cfg.Serves(config.ServiceTransactions) {
		setupTransactionRoutes(api.Group("/transactions", middleware.AuthMiddleware(cfg)),
			handlers.NewTransactionHandler(svc.Ledger), cfg)
	}
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	if cfg.IsProd() {
		router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
		router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	} else {
		router.Post("/register", handler.Register)
		router.Post("/login", handler.Login)
	}

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
}

// setupUserRoutes configures user document and social graph routes
func setupUserRoutes(router fiber.Router, userHandler *handlers.UserHandler, friendHandler *handlers.FriendHandler) {
	// usernames never change
	router.Get("/username/:id", middleware.PrivateCacheHeaders(5*time.Minute), userHandler.GetUsername)
	router.Post("/username-info", userHandler.UsernameInfo)
	router.Post("/remove-card", userHandler.RemoveCard)

	router.Post("/add-friend", friendHandler.AddFriend)
	router.Post("/friends-info", friendHandler.FriendsInfo)
	router.Post("/accept-friend-request", friendHandler.AcceptFriendRequest)
	router.Post("/decline-friend-request", friendHandler.DeclineFriendRequest)
	router.Post("/cancel-friend-request", friendHandler.CancelFriendRequest)
	router.Post("/delete-friend", friendHandler.DeleteFriend)

	router.Get("/:id", userHandler.GetUser)
}

// setupTransactionRoutes configures ledger routes
func setupTransactionRoutes(router fiber.Router, handler *handlers.TransactionHandler, cfg *config.Config) {
	router.Get("/", handler.List)

	money := []fiber.Handler{}
	if cfg.IsProd() {
		money = append(money, middleware.StrictRateLimiter())
	}
	router.Post("/deposit", append(money, handler.Deposit)...)
	router.Post("/withdraw", append(money, handler.Withdraw)...)
	router.Post("/send", append(money, handler.Send)...)
	router.Post("/request", handler.RequestMoney)
}
