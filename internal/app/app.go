// Package app wires configuration, storage and the account module into a
// running HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authflow/internal/db/migrations"
	"github.com/dmitrymomot/authflow/internal/repository"
	"github.com/dmitrymomot/authflow/modules/account"
	"github.com/dmitrymomot/authflow/pkg/auth"
	"github.com/dmitrymomot/authflow/pkg/clientip"
	"github.com/dmitrymomot/authflow/pkg/config"
	"github.com/dmitrymomot/authflow/pkg/cookie"
	"github.com/dmitrymomot/authflow/pkg/email"
	"github.com/dmitrymomot/authflow/pkg/httpserver"
	"github.com/dmitrymomot/authflow/pkg/i18n"
	"github.com/dmitrymomot/authflow/pkg/jwt"
	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/otp"
	"github.com/dmitrymomot/authflow/pkg/pg"
	"github.com/dmitrymomot/authflow/pkg/ratelimiter"
	"github.com/dmitrymomot/authflow/pkg/redis"
	"github.com/dmitrymomot/authflow/pkg/requestid"
	"github.com/dmitrymomot/authflow/pkg/session"
)

const readinessTimeout = 3 * time.Second

// Run loads the configuration, connects to Postgres and Redis, applies
// migrations and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid app config: %w", err)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return err
	}
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, pgCfg, log); err != nil {
		return err
	}

	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return err
	}
	rdb, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	router, cleanup, err := newRouter(ctx, cfg, pool, rdb, log)
	if err != nil {
		return err
	}
	defer cleanup()

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	return httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log)).Run(ctx, router)
}

func newRouter(ctx context.Context, cfg Config, pool *pgxpool.Pool, rdb *goredis.Client, log *slog.Logger) (http.Handler, func(), error) {
	var (
		cookieCfg  cookie.Config
		sessionCfg session.Config
		emailCfg   email.Config
		otpCfg     otp.Config
		limitCfg   ratelimiter.Config
		googleCfg  auth.GoogleOAuthConfig
		githubCfg  auth.GitHubOAuthConfig
	)
	if err := errors.Join(
		config.Load(&cookieCfg),
		config.Load(&sessionCfg),
		config.Load(&emailCfg),
		config.Load(&otpCfg),
		config.Load(&limitCfg),
		config.Load(&googleCfg),
		config.Load(&githubCfg),
	); err != nil {
		return nil, nil, err
	}

	cookies, err := cookie.NewFromConfig(cookieCfg, []string{cfg.AuthSecret})
	if err != nil {
		return nil, nil, fmt.Errorf("cookie manager: %w", err)
	}
	sessions := session.NewFromConfig(sessionCfg,
		session.WithCookieManager(cookies),
		session.WithStore(session.NewRedisStore(rdb, sessionCfg.RedisPrefix)),
		session.WithLogger(log),
	)

	sender, err := email.New(emailCfg)
	if err != nil {
		_ = sessions.Close()
		return nil, nil, fmt.Errorf("email sender: %w", err)
	}
	mailer := account.NewMailer(sender)

	tokens, err := jwt.NewFromString(cfg.AuthSecret)
	if err != nil {
		_ = sessions.Close()
		return nil, nil, fmt.Errorf("jwt service: %w", err)
	}

	users := repository.NewUsers(pool)
	codes := otp.NewService(otpCfg, otp.NewRedisStore(rdb, "otp"), users, mailer, otp.WithLogger(log))

	tr, err := i18n.NewTranslator(ctx, account.Locales(),
		i18n.WithDefaultLanguage(cfg.DefaultLanguage),
		i18n.WithLogger(log),
	)
	if err != nil {
		_ = sessions.Close()
		return nil, nil, fmt.Errorf("translator: %w", err)
	}

	limiter, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(rdb, limitCfg.RedisPrefix), limitCfg)
	if err != nil {
		_ = sessions.Close()
		return nil, nil, fmt.Errorf("rate limiter: %w", err)
	}

	opts := []account.Option{account.WithLogger(log)}
	states := repository.NewOAuthStateStore(rdb, "")
	if googleCfg.Enabled() {
		if googleCfg.RedirectURL == "" {
			googleCfg.RedirectURL = cfg.OAuthRedirectURL(auth.OAuthProviderGoogle)
		}
		opts = append(opts, account.WithOAuthProvider(auth.NewOAuthService(users, states,
			auth.NewGoogleAdapter(googleCfg),
			auth.WithStateTTL(googleCfg.StateTTL),
			auth.WithVerifiedOnly(googleCfg.VerifiedOnly),
			auth.WithOAuthLogger(log),
		)))
	}
	if githubCfg.Enabled() {
		if githubCfg.RedirectURL == "" {
			githubCfg.RedirectURL = cfg.OAuthRedirectURL(auth.OAuthProviderGithub)
		}
		opts = append(opts, account.WithOAuthProvider(auth.NewOAuthService(users, states,
			auth.NewGitHubAdapter(githubCfg),
			auth.WithStateTTL(githubCfg.StateTTL),
			auth.WithVerifiedOnly(githubCfg.VerifiedOnly),
			auth.WithOAuthLogger(log),
		)))
	}

	accounts := account.New(account.Config{
		BaseURL:                 cfg.BaseURL,
		VerificationCallbackURL: cfg.VerificationCallbackURL,
	}, account.Deps{
		Passwords:  auth.NewPasswordService(users, codes, auth.WithPasswordLogger(log)),
		Verifier:   auth.NewEmailVerifier(users, tokens, mailer, cfg.BaseURL, auth.WithVerificationLogger(log)),
		OTP:        codes,
		Sessions:   sessions,
		Users:      users,
		Translator: tr,
		Cookies:    cookies,
	}, opts...)

	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware)

	r.Get("/health/live", httpserver.Liveness())
	r.Get("/health/ready", httpserver.Readiness(log, readinessTimeout,
		httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)},
		httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)},
	))

	r.With(i18n.Middleware(tr), sessions.Middleware).
		Mount("/", accounts.Router(account.RouterOptions{RateLimiter: limiter}))

	log.InfoContext(ctx, "account module ready", slog.Int("oauth_providers", len(opts)-1))
	return r, func() { _ = sessions.Close() }, nil
}
