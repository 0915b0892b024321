// Command server is the process entrypoint: it wires the World Store,
// Broadcast Bus, Simulation Ticker, and Session Handler behind a gin HTTP
// router, grounded on the teacher's (rackaracka123-terraforming-mars)
// cmd/server/main.go wiring style (gin.Default, cors.New, a health route,
// a /ws upgrade route, os.Getenv-derived port).
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rack-games/holdfast-server/internal/bus"
	"github.com/rack-games/holdfast-server/internal/config"
	"github.com/rack-games/holdfast-server/internal/logger"
	"github.com/rack-games/holdfast-server/internal/session"
	"github.com/rack-games/holdfast-server/internal/sim"
	"github.com/rack-games/holdfast-server/internal/world"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(&cfg.LogLevel); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	log := logger.Get()

	store := world.New()
	gameBus := bus.New()
	ticker := sim.New(store, gameBus)
	handler := session.New(store, gameBus, cfg.MinClientVersion)

	ctx, cancel := context.WithCancel(context.Background())
	go ticker.Run(ctx)

	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "holdfast-server"})
	})

	r.GET("/ws", func(c *gin.Context) {
		handler.ServeWS(c.Writer, c.Request)
	})

	srv := &http.Server{Addr: "0.0.0.0:" + cfg.Port, Handler: r}

	go func() {
		log.Info("holdfast server starting", zap.String("addr", srv.Addr), zap.Uint32("min_client_version", cfg.MinClientVersion))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
}
