package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"covira/internal/audit"
	auditmetrics "covira/internal/audit/metrics"
	"covira/internal/company"
	companyhandler "covira/internal/company/handler"
	"covira/internal/enrollment"
	enrollmenthandler "covira/internal/enrollment/handler"
	enrollmentmetrics "covira/internal/enrollment/metrics"
	"covira/internal/identity"
	"covira/internal/platform/config"
	"covira/internal/platform/formtoken"
	"covira/internal/platform/httpserver"
	"covira/internal/platform/kafka"
	"covira/internal/platform/logger"
	platformredis "covira/internal/platform/redis"
	"covira/internal/quote"
	quotehandler "covira/internal/quote/handler"
	quotemetrics "covira/internal/quote/metrics"
	"covira/internal/rating"
	transporthttp "covira/internal/transport/http"
)

const auditDrainInterval = 2 * time.Second

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := rating.Load(cfg.Rating.TablePath)
	if err != nil {
		log.Error("failed to load rating table", "error", err)
		os.Exit(1)
	}

	// Postgres is optional; without a DSN the process runs on in-memory
	// stores.
	var db *sql.DB
	if cfg.Postgres.DSN != "" {
		db, err = sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	producer, err := kafka.NewProducer(ctx, cfg.Kafka)
	if err != nil {
		log.Error("failed to create kafka producer", "error", err)
		os.Exit(1)
	}
	if producer != nil {
		defer producer.Close()
	}

	auditMetrics := auditmetrics.New()
	quoteMetrics := quotemetrics.New()
	stepMetrics := enrollmentmetrics.New()

	var (
		auditStore   audit.Store
		auditOutbox  *audit.PostgresStore
		appStore     enrollment.Store
		companyStore company.Store
		formTokens   formtoken.Store
	)
	if db != nil {
		pgAudit := audit.NewPostgresStore(db)
		auditStore = pgAudit
		auditOutbox = pgAudit
		appStore = enrollment.NewPostgresStore(db)
		companyStore = company.NewPostgresStore(db)
	} else {
		auditStore = audit.NewInMemoryStore()
		appStore = enrollment.NewInMemoryStore()
		companyStore = company.NewInMemoryStore()
	}
	if redisClient != nil {
		formTokens = formtoken.NewRedisStore(redisClient.Client, cfg.FormToken.TTL)
	} else {
		formTokens = formtoken.NewMemoryStore(cfg.FormToken.TTL)
	}

	recorder := audit.NewRecorder(auditStore, log, auditMetrics)
	quoteService := quote.NewService(table, quote.DefaultCatalog(), log, quoteMetrics)
	enrollmentService := enrollment.NewService(appStore, companyStore, recorder, log, stepMetrics)
	companyService := company.NewService(companyStore, enrollmentService, log)
	jwtService := identity.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer)

	router := transporthttp.NewRouter(transporthttp.Deps{
		Logger:         log,
		TokenValidator: jwtService,
		FormTokens:     formTokens,
		Quotes:         quotehandler.New(quoteService, log),
		Enrollment:     enrollmenthandler.New(enrollmentService, log),
		Companies:      companyhandler.New(companyService, log),
		HealthCheck: func() error {
			if db != nil {
				if err := db.Ping(); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(context.Background())
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting covira server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if auditOutbox != nil && producer != nil {
		worker := audit.NewWorker(auditOutbox, producer, log, auditMetrics)
		g.Go(func() error {
			err := worker.Run(gctx, auditDrainInterval)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
