package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitcoach/internal/coach"
	"github.com/2beens/fitcoach/internal/coach/store"
	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/db"
	"github.com/2beens/fitcoach/internal/middleware"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// documents of inactive users expire from redis after this long
const redisDocumentTTL = 180 * 24 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config       *config.Config
	dbPool       *pgxpool.Pool
	redisClient  *redis.Client
	sqliteStore  *store.SQLiteStore
	cachedStore  *store.CachedStore
	coachService *coach.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	s := &Server{
		config: cfg,
	}

	var collectors []prometheus.Collector
	if cfg.StoreBackend == config.StoreBackendPostgres {
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		s.dbPool = dbPool
		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	s.promRegistry = metrics.SetupPrometheus(collectors...)
	s.metricsManager = metrics.NewManager("fitcoach", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	// redis is optional unless it is the document store; without it the user lock
	// is in-process and check-ins are not rate limited
	if cfg.RedisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			if cfg.StoreBackend == config.StoreBackendRedis {
				_ = rdb.Close()
				return nil, fmt.Errorf("ping redis: %w", err)
			}
			log.Errorf("--> failed to ping redis, continuing without it: %s", err)
			_ = rdb.Close()
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
			s.redisClient = rdb
		}
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitcoach-backend", s.redisClient)
	if err != nil {
		s.closeStores()
		return nil, err
	}
	s.otelShutdown = otelShutdown

	docStore, err := s.documentStore(ctx)
	if err != nil {
		s.closeStores()
		return nil, err
	}

	var locker coach.Locker
	if s.redisClient != nil {
		locker = coach.NewRedisLocker(s.redisClient, cfg.LockTTL())
	} else {
		locker = coach.NewKeyedMutex()
	}

	if cfg.DocumentCacheMB > 0 {
		if s.redisClient != nil {
			log.Warnf("document cache disabled, it is not shared between instances using the redis lock")
		} else {
			s.cachedStore = store.NewCachedStore(docStore, cfg.DocumentCacheMB)
			docStore = s.cachedStore
		}
	}

	loc := cfg.Location()
	s.coachService = coach.NewService(docStore, locker)
	s.coachService.NowFunc = func() time.Time {
		return time.Now().In(loc)
	}

	log.Infof("using [%s] document store, calendar days in [%s]", cfg.StoreBackend, loc)
	return s, nil
}

func (s *Server) documentStore(ctx context.Context) (coach.DocumentStore, error) {
	switch s.config.StoreBackend {
	case config.StoreBackendPostgres:
		psqlStore := store.NewPsqlStore(s.dbPool)
		if err := psqlStore.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure postgres schema: %w", err)
		}
		return psqlStore, nil
	case config.StoreBackendRedis:
		return store.NewRedisStore(s.redisClient, redisDocumentTTL), nil
	case config.StoreBackendSQLite:
		sqliteStore, err := store.OpenSQLiteStore(ctx, s.config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		s.sqliteStore = sqliteStore
		return sqliteStore, nil
	case config.StoreBackendMemory:
		log.Warnln("using in-memory document store, nothing survives a restart")
		return store.NewMemStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend [%s]", s.config.StoreBackend)
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitcoach-router"))

	var checkInMiddleware []mux.MiddlewareFunc
	if s.redisClient != nil && s.config.CheckInRateLimit > 0 {
		reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
		checkInMiddleware = append(checkInMiddleware, middleware.RateLimit(
			reqRateLimiter,
			"checkin",
			s.config.CheckInRateLimit,
			s.metricsManager,
		))
	}

	coachHandler := coach.NewHandler(s.coachService, s.metricsManager)
	coachHandler.SetupRoutes(r, checkInMiddleware...)

	r.HandleFunc("/health", s.handleHealth).Methods("GET").Name("health")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.LimitAndDrainRequest())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()).Err(); err != nil {
			log.Errorf("health: redis ping: %s", err)
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	if s.dbPool != nil {
		if err := s.dbPool.Ping(r.Context()); err != nil {
			log.Errorf("health: db ping: %s", err)
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Errorf("health: write response: %s", err)
	}
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the stores go away
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.cachedStore != nil {
		log.Debugf("document cache hit rate: %.2f", s.cachedStore.HitRate())
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	s.closeStores()

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) closeStores() {
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.sqliteStore != nil {
		if err := s.sqliteStore.Close(); err != nil {
			log.Errorf("failed to close sqlite store: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
