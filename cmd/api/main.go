package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"terrapulse/internal/auth"
	"terrapulse/internal/cache"
	"terrapulse/internal/catalog"
	"terrapulse/internal/config"
	"terrapulse/internal/contact"
	"terrapulse/internal/db"
	"terrapulse/internal/handlers"
	"terrapulse/internal/middleware"
	"terrapulse/internal/notifications"
	"terrapulse/internal/site"
	"terrapulse/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

type mongoCheck struct {
	client *mongo.Client
}

func (m mongoCheck) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		client     *mongo.Client
		cols       *db.Collections
		redisCache *cache.RedisCache
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		client, cols, err = db.Connect(gctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return fmt.Errorf("mongo connection failed: %w", err)
		}
		return db.EnsureIndexes(gctx, cols)
	})
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		g.Go(func() error {
			var err error
			if cfg.RedisURL != "" {
				redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
			} else {
				redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
			}
			if err != nil {
				return fmt.Errorf("redis connection failed: %w", err)
			}
			if err := redisCache.Ping(gctx); err != nil {
				return fmt.Errorf("redis connection failed: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("startup failed", slog.String("error", err.Error()))
		if client != nil {
			_ = client.Disconnect(context.Background())
		}
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	checks := map[string]handlers.Pinger{"mongo": mongoCheck{client: client}}
	var cacheStore cache.Cache = cache.NewNoop()
	if redisCache != nil {
		logger.Info("redis connected")
		cacheStore = redisCache
		checks["redis"] = redisCache
		defer redisCache.Close()
	}

	var catalogSource catalog.Source = catalog.NewEmbeddedSource()
	if cfg.CatalogSource == config.CatalogSourceMongo {
		catalogSource = catalog.NewRepository(cols.NFTs)
	}
	catalogService, err := catalog.LoadService(ctx, catalogSource)
	if err != nil {
		logger.Error("catalog load failed", slog.String("source", cfg.CatalogSource), slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("catalog loaded", slog.String("source", cfg.CatalogSource), slog.Int("items", len(catalogService.Items())))

	content, err := site.LoadEmbedded()
	if err != nil {
		logger.Error("site content load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// a nil *BrevoClient must not end up inside the Notifier interface
	var notifier contact.Notifier
	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.ContactInboxEmail, cfg.BrevoSandbox)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		notifier = mailer
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "terrapulse",
		}
	}

	adminHash := cfg.AdminPasswordHash
	if adminHash == "" && cfg.AdminPassword != "" {
		adminHash, err = auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			logger.Error("admin password hash failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	val := validation.New()
	server := &handlers.Server{
		Cfg:       cfg,
		Val:       val,
		Log:       logger,
		Auth:      jwtManager,
		AdminHash: adminHash,
		Checks:    checks,
	}

	catalogHandler := catalog.NewHandler(catalogService, cacheStore, cfg.CacheTTL(), logger)
	siteHandler := site.NewHandler(content, logger)

	contactService := contact.NewService(contact.NewRepository(cols.ContactMessages), notifier, cfg.Timezone, cfg.ContactAckEnabled, logger)
	registry := contact.NewRegistry(cfg.SessionCapacity, cfg.SessionTTL(), func(sessionID string) *contact.Lifecycle {
		sessionLog := logger.With(slog.String("session_id", sessionID))
		return contact.NewLifecycle(
			contactService.SendFor(sessionID),
			contact.WithTimeout(cfg.ContactSendTimeout()),
			contact.WithResolveHook(func(snap contact.Snapshot, err error) {
				if err != nil {
					sessionLog.Warn("contact send: failed", slog.Int("attempts", snap.Attempts), slog.String("error", err.Error()))
					return
				}
				sessionLog.Info("contact send: ok", slog.Int("attempts", snap.Attempts))
			}),
		)
	})
	contactHandler := contact.NewHandler(registry, contactService, val, logger, cfg.SessionTTL(), cfg.CookieSecure)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	contactLimiter := middleware.NewRateLimiter(cfg.RateLimitContact, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	adminAuth := middleware.AdminAuth(cfg.AdminAPIKey, jwtManager)

	registerRoutes := func(api chi.Router) {
		api.Get("/health", server.Health)

		api.Get("/navigation", siteHandler.Navigation)
		api.Get("/routes/resolve", siteHandler.ResolveRoute)
		api.Get("/home", siteHandler.Home)
		api.Get("/about", siteHandler.About)
		api.Get("/marketplace", siteHandler.Marketplace)
		api.Get("/wallet/options", siteHandler.WalletOptions)
		api.Post("/wallet/connect", siteHandler.WalletConnect)

		api.Get("/nfts", catalogHandler.List)
		api.Get("/nfts/categories", catalogHandler.Categories)
		api.Get("/nfts/{slug}", catalogHandler.GetBySlug)

		api.With(contactLimiter.Middleware).Post("/contact", contactHandler.Submit)
		api.Get("/contact/status", contactHandler.Status)

		api.Route("/admin", func(admin chi.Router) {
			admin.Post("/login", server.AdminLogin)
			admin.Post("/refresh", server.AdminRefresh)
			admin.Post("/logout", server.AdminLogout)

			admin.Group(func(protected chi.Router) {
				protected.Use(adminAuth)
				protected.Get("/contacts", contactHandler.AdminList)
			})
		})
	}

	r.Route("/api", func(api chi.Router) {
		registerRoutes(api)
		api.Route("/v1", registerRoutes)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}
