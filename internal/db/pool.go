package db

import (
	"context"
	"fmt"
	"net"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewDBPoolParams struct {
	DBHost         string
	DBPort         string
	DBName         string
	DBUser         string
	DBPassword     string
	MaxConns       int32
	TracingEnabled bool
}

func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(ConnString(params))
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if params.MaxConns > 0 {
		poolConfig.MaxConns = params.MaxConns
	}
	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

func ConnString(params NewDBPoolParams) string {
	user := params.DBUser
	if user == "" {
		user = "postgres"
	}
	if params.DBPassword != "" {
		user += ":" + params.DBPassword
	}
	return fmt.Sprintf(
		"postgres://%s@%s/%s?sslmode=disable",
		user, net.JoinHostPort(params.DBHost, params.DBPort), params.DBName,
	)
}
