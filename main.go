package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"salachat/global/config"
	"salachat/logger"
	"salachat/module/chat/store"
	"salachat/service/auth"
	"salachat/service/chat"
	"salachat/service/chat/handlers"
	"salachat/tools/ids"
)

func main() {
	configPath := flag.String("config", "chat.yaml", "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("[main] load config: %v", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Errorf("[main] JWT_SECRET is required")
		os.Exit(1)
	}
	ids.SetNodeID(1)

	st, cleanup, err := openStore(cfg)
	if err != nil {
		logger.Errorf("[main] open store: %v", err)
		os.Exit(1)
	}
	defer cleanup()

	verifier := auth.NewJWT(auth.DefaultOptions(config.GetJwtSecret(cfg)))

	srv := chat.NewServer(st, chat.Conf{
		PageSize:      cfg.PageSize,
		JumpOlder:     cfg.JumpOlder,
		JumpNewer:     cfg.JumpNewer,
		SendQueue:     cfg.SendQueue,
		FanoutQueue:   cfg.FanoutQueue,
		MutationQueue: cfg.MutationQueue,
	})
	defer srv.Close()
	handlers.RegisterAll(srv.Disp())

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/ws", srv.HandleWS(verifier))

	httpSrv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		logger.Infof("[main] listening on %s", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("[main] http server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("[main] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Errorf("[main] shutdown: %v", err)
	}
	logger.Sync()
}

// openStore picks the durable store. No DATABASE_URL means the in-memory
// store: good for local runs, useless across restarts.
func openStore(cfg config.AppConfig) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("[main] DATABASE_URL empty, using in-memory store")
		return store.NewMemory(), func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return store.NewPostgres(pool), pool.Close, nil
}
