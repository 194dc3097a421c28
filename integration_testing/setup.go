//go:build integration_test || all_tests

package integration_testing

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/2beens/fitcoach/internal"
	"github.com/2beens/fitcoach/internal/config"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverPort        = 9000
	serverHost        = "localhost"
	metricsPort       = "9002"
	checkInRateLimit  = 5
	postgresDBName    = "fitcoach"
	postgresPassword  = "postgres"
	dockerWaitTimeout = time.Minute
)

var (
	serverEndpoint  = fmt.Sprintf("http://%s:%d", serverHost, serverPort)
	metricsEndpoint = fmt.Sprintf("http://%s:%s/metrics", serverHost, metricsPort)
)

type Suite struct {
	DB         *sql.DB
	dockerPool *dockertest.Pool
	server     *internal.Server
	teardown   []func()
}

func newSuite(ctx context.Context) (_ *Suite) {
	var err error
	suite := &Suite{
		teardown: make([]func(), 0),
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	suite.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}
	suite.dockerPool.MaxWait = dockerWaitTimeout

	// uses pool to try to connect to Docker
	if err = suite.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	redisPort, err := suite.redisSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}

	pgPort, err := suite.postgresSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}

	cfg, err := getTestConfig(redisPort, pgPort)
	if err != nil {
		suite.cleanup()
		log.Fatalf("test config: %s", err)
	}

	suite.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			PostgresPassword:        postgresPassword,
			RedisPassword:           "",
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		suite.cleanup()
		log.Fatalf("new server: %s", err)
	}

	suite.server.Serve(cfg.Host, cfg.Port)

	if err := suite.dockerPool.Retry(func() error {
		resp, err := http.Get(serverEndpoint + "/health")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("health status %d", resp.StatusCode)
		}
		return nil
	}); err != nil {
		suite.cleanup()
		log.Fatalf("server not healthy: %s", err)
	}

	return suite
}

func (s *Suite) cleanup() {
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	if s.DB != nil {
		s.DB.Close()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func getTestConfig(redisPort, postgresPort string) (*config.Config, error) {
	t := &config.Toml{
		Development: &config.Config{
			Host:                  serverHost,
			Port:                  serverPort,
			LogLevel:              "info",
			LogToStdout:           true,
			StoreBackend:          config.StoreBackendPostgres,
			PostgresHost:          "localhost",
			PostgresPort:          postgresPort,
			PostgresDBName:        postgresDBName,
			RedisHost:             "localhost",
			RedisPort:             redisPort,
			LockTTLSeconds:        5,
			CheckInRateLimit:      checkInRateLimit,
			PrometheusMetricsHost: serverHost,
			PrometheusMetricsPort: metricsPort,
			Timezone:              "UTC",
		},
	}
	return t.Load("development")
}

func (s *Suite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Name:       "fitcoach-redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		redisResource.Close()
	})

	redisPort := redisResource.GetPort("6379/tcp")
	return redisPort, nil
}

// postgresSetup starts an empty database, the server creates its own schema.
func (s *Suite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=" + postgresPassword,
			"POSTGRES_DB=" + postgresDBName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		pgResource.Close()
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres:%s@localhost:%s/%s?sslmode=disable", postgresPassword, pgPort, postgresDBName)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return "", fmt.Errorf("open db conn: %s", err)
	}
	s.DB = db

	if err := s.dockerPool.Retry(db.Ping); err != nil {
		return "", fmt.Errorf("ping db: %s", err)
	}

	return pgPort, nil
}
