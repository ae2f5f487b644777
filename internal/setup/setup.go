package setup

import (
	"github.com/mdrrmo/bantay-api/internal/config"
	"github.com/mdrrmo/bantay-api/internal/handler"
	"github.com/mdrrmo/bantay-api/internal/logger"
	"github.com/mdrrmo/bantay-api/internal/notify"
	"github.com/mdrrmo/bantay-api/internal/ratelimiter"
	"github.com/mdrrmo/bantay-api/internal/service"
	"github.com/mdrrmo/bantay-api/internal/storage/memory"
	"github.com/mdrrmo/bantay-api/internal/storage/pg"
	"github.com/mdrrmo/bantay-api/internal/utils/jwt"
	"github.com/mdrrmo/bantay-api/internal/verification"
)

// Storage is the full persistence surface the service layer needs. Both the
// postgres and the in-memory implementations satisfy it.
type Storage interface {
	service.UserStorage
	verification.Storage
}

// Dependencies holds all initialized dependencies.
type Dependencies struct {
	Config  *config.Config
	Handler *handler.Handler
	Jwt     *jwt.Jwt

	// RegisterLimiter and LoginLimiter keep independent attempt budgets.
	RegisterLimiter *ratelimiter.Limiter
	LoginLimiter    *ratelimiter.Limiter

	// Cleanup releases storage resources. Safe to call once at shutdown.
	Cleanup func() error
}

// SetupDependencies initializes the dependency graph. Without a configured
// database it falls back to the in-memory store, which is only suitable for
// local development.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	var storage Storage
	cleanup := func() error { return nil }

	if url := cfg.PgURL(); url != "" {
		pgStorage, err := pg.New(url)
		if err != nil {
			return nil, err
		}
		storage = pgStorage
		cleanup = pgStorage.Cleanup
	} else {
		logger.Log.Warn("no database configured, using in-memory storage")
		storage = memory.New()
	}

	jwtService := jwt.New(cfg.Private.JwtKey, cfg.JwtTTL())

	notifier := notify.New(
		notify.NewEmailSender(&cfg.Private.Email),
		notify.NewSMSSender(),
	)
	codes := verification.NewManager(storage, cfg.VerificationCodeTTL())
	auth := service.NewAuth(storage, codes, notifier, jwtService)

	return &Dependencies{
		Config:          cfg,
		Handler:         handler.New(auth, cfg),
		Jwt:             jwtService,
		RegisterLimiter: ratelimiter.New(cfg.Public.RateLimitMaxAttempts, cfg.RateLimitWindow(), ratelimiter.NewMemoryStore()),
		LoginLimiter:    ratelimiter.New(cfg.Public.RateLimitMaxAttempts, cfg.RateLimitWindow(), ratelimiter.NewMemoryStore()),
		Cleanup:         cleanup,
	}, nil
}
