package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk/cache"
	"newsdesk/config"
	"newsdesk/helper"
	"newsdesk/metrics"
	"newsdesk/middleware"
	"newsdesk/notifications"
	"newsdesk/repositories"
	"newsdesk/routes"
	"newsdesk/services"
	"newsdesk/social"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", helper.Err(err))
		os.Exit(1)
	}

	logger := helper.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	gin.SetMode(cfg.HTTP.GinMode)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", helper.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	var feedCache services.FeedCache
	if cfg.Redis.Enabled() {
		rdb, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		feedCache = cache.New(rdb, cfg.Redis.FeedCacheTTL)
		logger.Info("feed cache enabled", slog.String("addr", cfg.Redis.Addr))
	}

	sender, closeSender, err := newSender(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSender.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	publisherRepo := repositories.NewPublisherRepository(db)
	subRepo := repositories.NewSubscriptionRepository(db)

	// Initialize services
	roleSync := services.NewRoleGroupSync(userRepo)
	authService := services.NewAuthService(userRepo, cfg.JWT, logger, roleSync)
	articleService := services.NewArticleService(articleRepo, publisherRepo)
	subscriptionService := services.NewSubscriptionService(subRepo, publisherRepo, userRepo, feedCache, recorder, logger)
	feedService := services.NewFeedService(articleRepo, subRepo, feedCache, recorder, logger)
	reviewService := services.NewReviewService(
		articleRepo,
		subRepo,
		notifications.NewNotifier(sender, cfg.Mail.From),
		social.NewClient(cfg.Social, logger),
		feedCache,
		recorder,
		logger,
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst, 5*time.Minute)
	defer limiter.Stop()

	router := routes.NewRouter(routes.Deps{
		Auth:          authService,
		Articles:      articleService,
		Subscriptions: subscriptionService,
		Reviews:       reviewService,
		Feeds:         feedService,
		Helper:        helper.NewHTTPHelper(),
		Logger:        logger,
		Metrics:       recorder,
		MetricsHTTP:   metrics.Handler(registry),
		AuthLimiter:   limiter,
		BaseURL:       cfg.HTTP.BaseURL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("port", cfg.HTTP.Port))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newSender picks the mail transport named by MAIL_TRANSPORT.
func newSender(cfg *config.Config, logger *slog.Logger) (notifications.Sender, io.Closer, error) {
	switch cfg.Mail.Transport {
	case "smtp":
		return notifications.NewSMTPSender(cfg.Mail), nopCloser{}, nil
	case "amqp":
		conn, err := notifications.Dial(cfg.AMQP.URL, 5, 2*time.Second)
		if err != nil {
			return nil, nil, err
		}
		ch, err := notifications.SetupChannel(conn, cfg.AMQP)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		logger.Info("mail queued through amqp", slog.String("exchange", cfg.AMQP.Exchange))
		return notifications.NewQueueSender(ch, cfg.AMQP), conn, nil
	default:
		return notifications.NewLogSender(logger), nopCloser{}, nil
	}
}
