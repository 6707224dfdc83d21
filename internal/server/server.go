package server

import (
	"strings"
	"time"

	"github.com/densitymap/densitymap/internal/config"
	"github.com/densitymap/densitymap/internal/handler"
	"github.com/densitymap/densitymap/internal/hexgrid"
	"github.com/densitymap/densitymap/internal/middleware"
	"github.com/densitymap/densitymap/internal/repository"
	"github.com/densitymap/densitymap/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, grid *hexgrid.Store) *Server {
	userRepo := repository.NewUserRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)
	requestRepo := repository.NewRequestRepository(db)

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewSearchService(meiliClient)

	tallyCache := service.NewTallyCache(redisClient, voteRepo)

	authSvc := service.NewAuthService(userRepo, searchSvc, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := handler.NewAuthHandler(authSvc)

	voteSvc := service.NewVoteService(voteRepo, tallyCache, cfg.DailyPointCap)
	voteHandler := handler.NewVoteHandler(voteSvc)

	leaderboardSvc := service.NewLeaderboardService(leaderboardRepo, searchSvc)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardSvc)

	requestSvc := service.NewRequestService(requestRepo)
	requestHandler := handler.NewRequestHandler(requestSvc)

	cellSvc := service.NewCellService(grid, tallyCache)
	hexHandler := handler.NewHexHandler(cellSvc)

	statSvc := service.NewStatService(userRepo, voteRepo, grid)
	statHandler := handler.NewStatHandler(statSvc)

	profileSvc := service.NewProfileService(userRepo, voteRepo, leaderboardSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	api.POST("/requests", requestHandler.SubmitRequest)
	api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
	api.GET("/stats", statHandler.GetStats)
	api.GET("/hexes/:mode/:resolution", hexHandler.GetCollection)
	api.GET("/hexes/:mode/:resolution/:hex_id", hexHandler.GetCell)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/vote", voteHandler.SubmitVote)
		protected.GET("/vote", voteHandler.GetCurrentVote)

		protected.GET("/requests", requestHandler.GetRequests)

		protected.GET("/profile/me", profileHandler.GetCurrentProfile)
		protected.PUT("/profile/wallet", profileHandler.UpdateWallet)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
