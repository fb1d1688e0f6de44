package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/cozyGarage/ft-transcendence/internal/api/handlers"
	"github.com/cozyGarage/ft-transcendence/internal/api/middleware"
	"github.com/cozyGarage/ft-transcendence/internal/config"
	"github.com/cozyGarage/ft-transcendence/internal/game"
	"github.com/cozyGarage/ft-transcendence/internal/repository"
	"github.com/cozyGarage/ft-transcendence/internal/service"
	"github.com/cozyGarage/ft-transcendence/internal/websocket"
	"github.com/cozyGarage/ft-transcendence/pkg/database"
	"github.com/cozyGarage/ft-transcendence/pkg/ratelimit"
)

// SetupRouter API 라우터 설정
func SetupRouter(cfg *config.Config, db *database.DB, redisClient *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 전역 미들웨어
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Repository 초기화
	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameRepository(db)

	// Service 초기화
	userService := service.NewUserService(userRepo)
	resultService := service.NewResultService(gameRepo)

	// WebSocket Hub 초기화 및 시작
	hub := websocket.NewHub()
	go hub.Run()

	// 게임 코어 초기화 (전역 상태 대신 명시적 주입)
	registry := game.NewRegistry()
	roomQueue := game.NewRoomQueue()
	matchQueue := game.NewMatchQueue()

	// Handler 초기화
	authHandler := handlers.NewAuthHandler(userService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	gameHandler := handlers.NewGameHandler(resultService)
	wsHandler := handlers.NewWSHandler(hub, registry, roomQueue, matchQueue, resultService, cfg)

	// 로그인/가입은 인스턴스 간 공유되는 Redis 카운터로 제한
	authLimit := middleware.RedisRateLimit(middleware.RedisRateLimitConfig{
		Limiter: ratelimit.NewRedisLimiter(redisClient, "ratelimit:auth:"),
		Limit:   10,
		Window:  time.Minute,
	})

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// WebSocket endpoints
	router.GET("/ws/matchmaking/:id", wsHandler.Matchmaking)
	router.GET("/ws/game/:room", wsHandler.Game)
	router.GET("/ws/othello/:room", wsHandler.Othello)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		auth.Use(authLimit)
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
		}

		// Game history routes
		games := v1.Group("/games")
		{
			games.GET("/:id", gameHandler.GetGame)
			games.GET("/player/:playerId", gameHandler.ListGamesByPlayer)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.Auth(cfg))
		{
			users.GET("/me", userHandler.GetCurrentUser)
		}
	}

	return router
}
