package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/newsbrief/newsbrief/internal/auth"
	"github.com/newsbrief/newsbrief/internal/cache"
	"github.com/newsbrief/newsbrief/internal/config"
	httpapp "github.com/newsbrief/newsbrief/internal/http"
	"github.com/newsbrief/newsbrief/internal/logger"
	"github.com/newsbrief/newsbrief/internal/news"
	"github.com/newsbrief/newsbrief/internal/newsapi"
	"github.com/newsbrief/newsbrief/internal/rate"
	"github.com/newsbrief/newsbrief/internal/store/sqlite"
)

func main() {
	cfg, usedDevSecret, err := config.Load()
	if err != nil {
		// The logger is not up yet; fall back to a bare stderr line.
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		os.Stderr.WriteString("logger error: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if usedDevSecret {
		log.Warn("running with the insecure development signing secret; set NEWSBRIEF_JWT_SECRET in production")
	}
	if cfg.NewsAPIKey == "" {
		log.Warn("NEWS_API_KEY is not set; /news will serve empty feeds")
	}

	st, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open db", zap.Error(err))
	}
	defer st.Close()

	authSvc := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	newsClient := newsapi.NewClient(newsapi.Options{
		BaseURL: cfg.NewsAPIURL,
		APIKey:  cfg.NewsAPIKey,
		Timeout: cfg.UpstreamTimeout,
	})
	newsSvc := news.NewService(st, cache.New(cfg.CacheTTL), newsClient, log)
	limiter := rate.NewMemory(time.Minute)

	server := httpapp.NewServer(st, authSvc, newsSvc, limiter, cfg, log)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("newsbrief listening", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}
