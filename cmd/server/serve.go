package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ipl-prediction-backend/internal/config"
	"ipl-prediction-backend/internal/database"
	"ipl-prediction-backend/internal/events"
	"ipl-prediction-backend/internal/handlers"
	"ipl-prediction-backend/internal/middleware"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/internal/scheduler"
	"ipl-prediction-backend/internal/services"
	"ipl-prediction-backend/pkg/logger"

	_ "ipl-prediction-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath)
		},
	}
}

type serviceSet struct {
	auth          *services.AuthService
	ranking       *services.RankingService
	settlement    *services.SettlementService
	polls         *services.PollService
	votes         *services.VoteService
	teams         *services.TeamService
	matches       *services.MatchService
	comments      *services.CommentService
	users         *services.UserService
	notifications *services.NotificationService
}

func newServiceSet(cfg *config.Config, store *repository.Store, publisher services.SettlementPublisher) *serviceSet {
	ranking := services.NewRankingService(store)
	return &serviceSet{
		auth:          services.NewAuthService(store, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour),
		ranking:       ranking,
		settlement:    services.NewSettlementService(store, ranking, publisher, cfg.Points.PerCorrectVote),
		polls:         services.NewPollService(store),
		votes:         services.NewVoteService(store),
		teams:         services.NewTeamService(store),
		matches:       services.NewMatchService(store),
		comments:      services.NewCommentService(store),
		users:         services.NewUserService(store),
		notifications: services.NewNotificationService(store),
	}
}

func runServe(configPath string) error {
	a, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := database.AutoMigrate(a.db); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus, err := events.NewBus(a.store, events.NewLogger(logger.Log.WithField("component", "events")))
	if err != nil {
		return err
	}
	// The bus outlives the signal context; it is closed after srv.Shutdown.
	if err := bus.Start(context.Background()); err != nil {
		return err
	}
	defer bus.Close()

	svc := newServiceSet(a.cfg, a.store, bus)

	if a.cfg.Auth.AdminUsername != "" && a.cfg.Auth.AdminPassword != "" {
		if _, err := svc.auth.CreateAdmin(ctx, a.cfg.Auth.AdminUsername, a.cfg.Auth.AdminPassword); err != nil {
			logger.WithError(err).Warn("Admin bootstrap skipped")
		}
	}

	// Repairs ranks left stale if the previous process died between a
	// settlement commit and its recomputation.
	if err := svc.ranking.RecomputeRanks(ctx); err != nil {
		logger.WithError(err).Warn("Startup rank recomputation failed")
	}

	if a.cfg.Scheduler.Enabled {
		sched := scheduler.New(a.cfg.Scheduler, svc.polls, svc.ranking)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      newRouter(a.cfg, svc),
		ReadTimeout:  time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(map[string]interface{}{"port": a.cfg.Server.Port}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)

	if err := bus.Close(); err != nil {
		logger.WithError(err).Warn("Event bus close failed")
	}
	return shutdownErr
}

func newRouter(cfg *config.Config, svc *serviceSet) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	authHandler := handlers.NewAuthHandler(svc.auth)
	pollHandler := handlers.NewPollHandler(svc.polls, svc.votes, svc.settlement)
	teamHandler := handlers.NewTeamHandler(svc.teams)
	matchHandler := handlers.NewMatchHandler(svc.matches, svc.comments)
	userHandler := handlers.NewUserHandler(svc.users)
	notificationHandler := handlers.NewNotificationHandler(svc.notifications)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: !containsWildcard(cfg.CORS.AllowOrigins),
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.JWTAuth(svc.auth)
	optionalAuth := middleware.OptionalAuth(svc.auth)
	requireAdmin := middleware.RequireAdmin()

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		polls := api.Group("/polls")
		{
			polls.GET("", optionalAuth, pollHandler.ListPolls)
			polls.GET("/:id", optionalAuth, pollHandler.GetPoll)
			polls.POST("/:id/vote", requireAuth, pollHandler.Vote)
			polls.POST("", requireAuth, requireAdmin, pollHandler.CreatePoll)
			polls.POST("/:id/close", requireAuth, requireAdmin, pollHandler.ClosePoll)
			polls.POST("/:id/settle", requireAuth, requireAdmin, pollHandler.Settle)
			polls.DELETE("/:id", requireAuth, requireAdmin, pollHandler.DeletePoll)
		}

		teams := api.Group("/teams")
		{
			teams.GET("", teamHandler.ListTeams)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.POST("", requireAuth, requireAdmin, teamHandler.CreateTeam)
			teams.PUT("/:id", requireAuth, requireAdmin, teamHandler.UpdateTeam)
			teams.DELETE("/:id", requireAuth, requireAdmin, teamHandler.DeleteTeam)
		}

		matches := api.Group("/matches")
		{
			matches.GET("", matchHandler.ListMatches)
			matches.GET("/:id", matchHandler.GetMatch)
			matches.GET("/:id/comments", matchHandler.ListComments)
			matches.POST("/:id/comments", requireAuth, matchHandler.AddComment)
			matches.POST("", requireAuth, requireAdmin, matchHandler.CreateMatch)
			matches.PUT("/:id", requireAuth, requireAdmin, matchHandler.UpdateMatch)
			matches.PUT("/:id/status", requireAuth, requireAdmin, matchHandler.UpdateMatchStatus)
			matches.DELETE("/:id", requireAuth, requireAdmin, matchHandler.DeleteMatch)
		}

		api.DELETE("/comments/:id", requireAuth, matchHandler.DeleteComment)

		api.GET("/leaderboard", userHandler.Leaderboard)
		api.GET("/users/:id", userHandler.GetUser)

		me := api.Group("/me")
		me.Use(requireAuth)
		{
			me.GET("", userHandler.GetMe)
			me.PUT("", userHandler.UpdateMe)
			me.GET("/votes", pollHandler.MyVotes)
		}

		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}
	}

	return r
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
