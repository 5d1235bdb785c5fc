package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"bowling-game/internal/config"
	"bowling-game/internal/hub"
	"bowling-game/internal/ids"
	"bowling-game/internal/logging"
	"bowling-game/internal/repository"
	"bowling-game/internal/services"
)

type Server struct {
	config   *config.Config
	hub      *hub.Hub
	repo     repository.Repository
	games    *services.GameService
	players  *services.PlayerService
	router   *gin.Engine
	upgrader websocket.Upgrader
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	logger := logging.FromContext(ctx)

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var players repository.PlayerRepository = repo
	if cfg.PlayerCacheSize > 0 {
		cached, err := repository.NewCachedPlayers(repo, cfg.PlayerCacheSize)
		if err != nil {
			repo.Close()
			return nil, err
		}
		players = cached
	}

	gameIDs, err := ids.New(cfg.IDStrategy, "game")
	if err != nil {
		repo.Close()
		return nil, err
	}
	playerIDs, err := ids.New(cfg.IDStrategy, "player")
	if err != nil {
		repo.Close()
		return nil, err
	}
	if cfg.IDStrategy == ids.StrategySequence && cfg.StoreDriver != config.DriverMemory {
		logger.Warnw("sequence ids restart at 1 with every process; use uuid ids with a persistent store",
			"store_driver", cfg.StoreDriver)
	}

	gameHub := hub.NewHub()
	playerService := services.NewPlayerService(players, playerIDs)
	gameService := services.NewGameService(repo, playerService, gameHub, gameIDs)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), cors())

	server := &Server{
		config:  cfg,
		hub:     gameHub,
		repo:    repo,
		games:   gameService,
		players: playerService,
		router:  router,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	server.setupRoutes()
	return server, nil
}

func openRepository(ctx context.Context, cfg *config.Config) (repository.Repository, error) {
	logger := logging.FromContext(ctx)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Info("using in-memory store")
		return repository.NewInMemoryRepository(), nil
	case config.DriverPostgres:
		return repository.NewPostgresRepository(ctx, cfg.DatabaseURL)
	case config.DriverSQLite:
		return repository.NewSQLiteRepository(ctx, cfg.SQLitePath)
	case config.DriverBolt:
		return repository.NewBoltRepository(ctx, cfg.BoltPath)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func (s *Server) setupRoutes() {
	health := s.router.Group("/health")
	{
		health.GET("/server-status", s.serverStatus)
	}

	game := s.router.Group("/game")
	{
		game.POST("/create-game", s.createGame)
		game.GET("/get-game/:id", s.getGame)
		game.GET("/list-games", s.listGames)
		game.POST("/start-game/:id", s.startGame)
		game.POST("/add-player/:id", s.addPlayer)
		game.POST("/add-roll-scores/:id", s.addRollScores)
		game.GET("/subscribe/:id", s.subscribe)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	httpServer := &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("listening on :%s", s.config.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) Close() error {
	return s.repo.Close()
}
