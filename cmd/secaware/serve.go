package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	rdb "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/secaware/internal/bootstrap"
	"github.com/dropDatabas3/secaware/internal/cache/memory"
	"github.com/dropDatabas3/secaware/internal/config"
	"github.com/dropDatabas3/secaware/internal/email"
	adminctrl "github.com/dropDatabas3/secaware/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/secaware/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/secaware/internal/http/controllers/health"
	quizctrl "github.com/dropDatabas3/secaware/internal/http/controllers/quiz"
	"github.com/dropDatabas3/secaware/internal/http/metrics"
	mw "github.com/dropDatabas3/secaware/internal/http/middlewares"
	"github.com/dropDatabas3/secaware/internal/http/router"
	"github.com/dropDatabas3/secaware/internal/http/server"
	adminsvc "github.com/dropDatabas3/secaware/internal/http/services/admin"
	authsvc "github.com/dropDatabas3/secaware/internal/http/services/auth"
	quizsvc "github.com/dropDatabas3/secaware/internal/http/services/quiz"
	jwtx "github.com/dropDatabas3/secaware/internal/jwt"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
	"github.com/dropDatabas3/secaware/internal/rate"
	"github.com/dropDatabas3/secaware/internal/security/password"
	"github.com/dropDatabas3/secaware/internal/store/pg"
	"github.com/jackc/pgx/v5/pgxpool"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(parent context.Context, cfg *config.Config) error {
	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "secaware"})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── storage ──
	store, err := pg.Connect(ctx, pg.Config{
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.MaxOpenConns,
		MaxIdleConns: cfg.Storage.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	// ── primitivas de seguridad ──
	hasher := password.NewHasher(cfg.Hashing.MaxConcurrent)
	issuer, err := jwtx.NewIssuer(cfg.JWT.Issuer, []byte(cfg.JWTSecret))
	if err != nil {
		return err
	}

	// ── mailer (opcional) ──
	var mailer authsvc.VerificationMailer
	if cfg.SMTP.Host != "" {
		sender := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.User, cfg.SMTPPassword)
		sender.TLSMode = cfg.SMTP.TLS
		sender.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify
		mailer = &email.VerifyMailer{
			Sender:  sender,
			BaseURL: cfg.Email.BaseURL,
			AppName: cfg.Email.IssuerName,
		}
	} else {
		log.Warn("smtp not configured, verification emails disabled")
	}

	// ── admin inicial (no interactivo, sólo si hay credenciales en el env) ──
	if adminEmail, pass := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"); adminEmail != "" && pass != "" {
		if err := bootstrap.CheckAndCreateAdmin(ctx, bootstrap.AdminConfig{
			Admins:        store.Admins(),
			Hasher:        hasher,
			SkipPrompt:    true,
			AdminEmail:    adminEmail,
			AdminName:     os.Getenv("ADMIN_NAME"),
			AdminPassword: pass,
		}); err != nil {
			return err
		}
	}

	// ── rate limiting ──
	var loginLimiter, twoFALimiter rate.Limiter
	if cfg.Rate.Enabled {
		loginWindow := config.MustDuration(cfg.Rate.Login.Window)
		twoFAWindow := config.MustDuration(cfg.Rate.TwoFA.Window)
		if cfg.Rate.RedisAddr != "" {
			client := rdb.NewClient(&rdb.Options{Addr: cfg.Rate.RedisAddr})
			loginLimiter = rate.NewRedisLimiter(client, "rl:login:", cfg.Rate.Login.Limit, loginWindow)
			twoFALimiter = rate.NewRedisLimiter(client, "rl:2fa:", cfg.Rate.TwoFA.Limit, twoFAWindow)
			log.Info("rate limiting enabled (redis)", logger.String("addr", cfg.Rate.RedisAddr))
		} else {
			loginLimiter = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, loginWindow)
			twoFALimiter = rate.NewMemoryLimiter(cfg.Rate.TwoFA.Limit, twoFAWindow)
			log.Info("rate limiting enabled (memory)")
		}
	}

	// ── servicios ──
	authServices := authsvc.NewServices(authsvc.Deps{
		Users:      store.Users(),
		Admins:     store.Admins(),
		Issuer:     issuer,
		Hasher:     hasher,
		Mailer:     mailer,
		TOTPIssuer: cfg.Email.IssuerName,
	})

	quizCache := memory.New(config.MustDuration(cfg.Cache.QuestionTTL))
	quizService := quizsvc.New(quizsvc.Deps{
		Questions: store.Questions(),
		Attempts:  store.Attempts(),
		Cache:     quizCache,
		CacheTTL:  config.MustDuration(cfg.Cache.QuestionTTL),
	})

	adminService := adminsvc.New(adminsvc.Deps{
		Users:     store.Users(),
		Questions: store.Questions(),
		Attempts:  store.Attempts(),
		QuizCache: quizCache,
	})

	// ── métricas ──
	metricsHandler, err := metrics.Register(metrics.Config{
		Pool: func() *pgxpool.Pool { return store.Pool() },
	})
	if err != nil {
		return err
	}

	// ── middlewares y controllers ──
	session := mw.RequireSession(issuer)
	var loginRate, twoFARate mw.Middleware
	if loginLimiter != nil {
		loginRate = mw.WithRateLimit(loginLimiter, mw.IPRateKey)
	}
	if twoFALimiter != nil {
		twoFARate = mw.WithRateLimit(twoFALimiter, mw.SubjectRateKey)
	}

	handler := router.New(router.Deps{
		Auth:               authctrl.NewController(authServices, session, loginRate, twoFARate),
		Quiz:               quizctrl.NewController(quizService, session),
		Admin:              adminctrl.NewController(adminService, session),
		Health:             healthctrl.NewController(store),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  config.MustDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.MustDuration(cfg.Server.WriteTimeout),
	}, handler)

	return srv.Run(ctx)
}
