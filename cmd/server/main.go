// Command server runs the recruitment and records portal.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	accounthandler "pfaportal/internal/account/handler"
	accountservice "pfaportal/internal/account/service"
	accountstore "pfaportal/internal/account/store"
	applicationhandler "pfaportal/internal/application/handler"
	applicationservice "pfaportal/internal/application/service"
	applicationstore "pfaportal/internal/application/store"
	bulletinhandler "pfaportal/internal/bulletin/handler"
	bulletinservice "pfaportal/internal/bulletin/service"
	bulletinstore "pfaportal/internal/bulletin/store"
	crimereporthandler "pfaportal/internal/crimereport/handler"
	crimereportservice "pfaportal/internal/crimereport/service"
	crimereportstore "pfaportal/internal/crimereport/store"
	"pfaportal/internal/jwttoken"
	"pfaportal/internal/platform/config"
	"pfaportal/internal/platform/database"
	"pfaportal/internal/platform/httpserver"
	"pfaportal/internal/platform/logger"
	"pfaportal/internal/platform/metrics"
	platformredis "pfaportal/internal/platform/redis"
	"pfaportal/internal/ratelimit"
	httptransport "pfaportal/internal/transport/http"
	audit "pfaportal/pkg/platform/audit"
	auditpublisher "pfaportal/pkg/platform/audit/publisher"
	auditmemory "pfaportal/pkg/platform/audit/store/memory"
	auditpostgres "pfaportal/pkg/platform/audit/store/postgres"
)

const (
	jwtIssuer   = "pfaportal"
	jwtAudience = "pfaportal-staff"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to open database", "error", err.Error())
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Error("failed to ensure schema", "error", err.Error())
			os.Exit(1)
		}
	} else {
		log.Warn("no DATABASE_URL configured, using in-memory stores")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	m := metrics.New()

	var auditStore audit.Store
	if db != nil {
		auditStore = auditpostgres.New(db)
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}
	auditor := auditpublisher.NewPublisher(auditStore,
		auditpublisher.WithLogger(log),
		auditpublisher.WithAsyncBuffer(128),
	)
	defer auditor.Close()

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, jwtIssuer, jwtAudience)

	var (
		applicationStore applicationservice.Store
		crimeReportStore crimereportservice.Store
		bulletinStore    bulletinservice.Store
		accountStore     accountservice.Store
	)
	if db != nil {
		applicationStore = applicationstore.NewPostgres(db)
		crimeReportStore = crimereportstore.NewPostgres(db)
		bulletinStore = bulletinstore.NewPostgres(db)
		accountStore = accountstore.NewPostgres(db)
	} else {
		applicationStore = applicationstore.NewInMemory()
		crimeReportStore = crimereportstore.NewInMemory()
		bulletinStore = bulletinstore.NewInMemory()
		accountStore = accountstore.NewInMemory()
	}

	applicationSvc := applicationservice.New(applicationStore, log,
		applicationservice.WithMetrics(m),
		applicationservice.WithAuditor(auditor),
	)
	crimeReportSvc := crimereportservice.New(crimeReportStore, log,
		crimereportservice.WithMetrics(m),
		crimereportservice.WithAuditor(auditor),
	)
	bulletinSvc := bulletinservice.New(bulletinStore, log,
		bulletinservice.WithMetrics(m),
		bulletinservice.WithAuditor(auditor),
	)
	accountSvc := accountservice.New(accountStore, jwtService, cfg.TokenTTL, log,
		accountservice.WithMetrics(m),
		accountservice.WithAuditor(auditor),
	)
	if err := accountSvc.EnsureSeed(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Error("failed to seed staff account", "error", err.Error())
		os.Exit(1)
	}

	var limiter ratelimit.Checker
	if redisClient != nil {
		limiter = ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit.Window, map[ratelimit.Class]int{
			ratelimit.ClassIntake: cfg.RateLimit.IntakeLimit,
			ratelimit.ClassLogin:  cfg.RateLimit.LoginLimit,
		})
	}
	limitMW := ratelimit.New(limiter, log,
		ratelimit.WithDisabled(cfg.RateLimit.Disabled || limiter == nil),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Metrics:      m,
		Tokens:       jwttoken.NewJWTServiceAdapter(jwtService),
		RateLimit:    limitMW,
		Applications: applicationhandler.New(applicationSvc, log),
		CrimeReports: crimereporthandler.New(crimeReportSvc, log),
		Bulletins:    bulletinhandler.New(bulletinSvc, log),
		Accounts:     accounthandler.New(accountSvc, log),
		Health: func() map[string]string {
			deps := map[string]string{"database": "disabled", "redis": "disabled"}
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if db != nil {
				deps["database"] = "ok"
				if err := db.PingContext(checkCtx); err != nil {
					deps["database"] = "unreachable"
				}
			}
			if redisClient != nil {
				deps["redis"] = "ok"
				if err := redisClient.Health(checkCtx); err != nil {
					deps["redis"] = "unreachable"
				}
			}
			return deps
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting portal", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("portal stopped")
}
