package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gator.dev/studygator/internal/config"
	"gator.dev/studygator/internal/middleware"
	"gator.dev/studygator/pkg/database"
	"gator.dev/studygator/pkg/ratelimit"
	"gator.dev/studygator/pkg/token"
	"gator.dev/studygator/pkg/validator"

	listingHttp "gator.dev/studygator/internal/modules/listing/delivery/http"
	listingRepo "gator.dev/studygator/internal/modules/listing/repository"
	listingService "gator.dev/studygator/internal/modules/listing/service"

	messageHttp "gator.dev/studygator/internal/modules/message/delivery/http"
	messageRepo "gator.dev/studygator/internal/modules/message/repository"
	messageService "gator.dev/studygator/internal/modules/message/service"

	subjectHttp "gator.dev/studygator/internal/modules/subject/delivery/http"
	subjectRepo "gator.dev/studygator/internal/modules/subject/repository"
	subjectService "gator.dev/studygator/internal/modules/subject/service"

	userHttp "gator.dev/studygator/internal/modules/user/delivery/http"
	userRepo "gator.dev/studygator/internal/modules/user/repository"
	userService "gator.dev/studygator/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories is the data access the router needs.
type Repositories struct {
	Users    userRepo.UserRepository
	Subjects subjectRepo.SubjectRepository
	Listings listingRepo.ListingRepository
	Messages messageRepo.MessageRepository
}

// HealthCheck reports whether the backing store is reachable.
type HealthCheck func(ctx context.Context) error

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) (*Server, error) {
	repos := Repositories{
		Users:    userRepo.NewUserRepository(db),
		Subjects: subjectRepo.NewSubjectRepository(db),
		Listings: listingRepo.NewListingRepository(db),
		Messages: messageRepo.NewMessageRepository(db),
	}

	health := func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}

	router, err := NewRouter(cfg, repos, ratelimit.New(redisClient), health, logger)
	if err != nil {
		return nil, err
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(cfg *config.Config, repos Repositories, limiter *ratelimit.Limiter, health HealthCheck, logger *zap.Logger) (*gin.Engine, error) {
	if err := validator.RegisterInstitutionalEmail(cfg.InstitutionDomain); err != nil {
		return nil, fmt.Errorf("register email validator: %w", err)
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	authMiddleware := middleware.NewAuthMiddleware(tokens)

	authSvc := userService.NewAuthService(repos.Users, tokens, cfg.InstitutionDomain, logger)
	authHandler := userHttp.NewAuthHandler(authSvc)

	subjectSvc := subjectService.NewSubjectService(repos.Subjects)
	subjectHandler := subjectHttp.NewSubjectHandler(subjectSvc)

	listingSvc := listingService.NewService(repos.Listings, repos.Subjects, listingService.Options{
		Limiter:     limiter,
		ApplyWindow: cfg.RateLimitApply,
	}, logger)
	listingHandler := listingHttp.NewListingHandler(listingSvc, cfg.MaxUploadBytes)

	messageSvc := messageService.NewService(repos.Messages, repos.Listings, repos.Users, limiter, cfg.RateLimitMessage, logger)
	messageHandler := messageHttp.NewMessageHandler(messageSvc, authMiddleware)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		if err := health(c.Request.Context()); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public routes
	{
		api.GET("/search", listingHandler.Search)
		api.GET("/subject", subjectHandler.GetAllSubjects)
		api.GET("/listing/:id", listingHandler.GetListing)
		api.GET("/user/:username", authHandler.GetUserByUsername)

		api.POST("/login", authHandler.Login)
		api.PUT("/register", authHandler.Register)

		// Authenticates with the token in the body or header on its own.
		api.POST("/message", messageHandler.SendMessage)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.PUT("/apply", listingHandler.Apply)
		protected.DELETE("/delete", listingHandler.DeleteListing)
		protected.GET("/dashboard/listings", listingHandler.GetMyListings)

		protected.GET("/message", messageHandler.GetMessages)
		protected.GET("/message/sent", messageHandler.GetSentMessages)
		protected.DELETE("/message", messageHandler.DeleteMessage)
	}

	return router, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests for at most
// shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server", zap.Duration("timeout", shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-errCh
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
