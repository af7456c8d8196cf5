package postgres

import (
	"context"
	"io/fs"
	"net"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

type DB struct {
	Host     string `yaml:"host" envconfig:"DB_HOST" default:"localhost"`
	Port     int    `yaml:"port" envconfig:"DB_PORT" default:"5432"`
	Username string `yaml:"user" envconfig:"DB_USER" default:"postgres"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD" json:"-"`
	NameDB   string `yaml:"dbname" envconfig:"DB_NAME" default:"books"`
	SSLMode  string `yaml:"sslmode" envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `yaml:"maxConns" envconfig:"DB_MAX_CONNS" default:"10"`
}

func (cfg *DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     cfg.NameDB,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// NewPostgresDB opens a pool and applies the migrations found at the root of migrationFS.
func NewPostgresDB(ctx context.Context, cfg *DB, migrationFS fs.FS) (*pgxpool.Pool, error) {
	return Connect(ctx, cfg.DSN(), cfg.MaxConns, migrationFS)
}

func Connect(ctx context.Context, dsn string, maxConns int32, migrationFS fs.FS) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool.ParseConfig")
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool.NewWithConfig")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping")
	}
	if migrationFS != nil {
		if err := migrate(pool, migrationFS); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return pool, nil
}

func migrate(pool *pgxpool.Pool, migrationFS fs.FS) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationFS)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "goose.SetDialect")
	}
	if err := goose.Up(db, "."); err != nil {
		return errors.Wrap(err, "goose.Up")
	}
	return nil
}

// ExecScript runs the sql file name from fsys as one simple-protocol batch,
// so the file may hold several statements.
func ExecScript(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, name string) error {
	script, err := fs.ReadFile(fsys, name)
	if err != nil {
		return errors.Wrap(err, "read script")
	}
	if _, err := pool.Exec(ctx, string(script)); err != nil {
		return errors.Wrapf(err, "exec %s", name)
	}
	return nil
}
