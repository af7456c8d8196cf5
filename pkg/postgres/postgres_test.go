package postgres_test

import (
	"testing"

	"github.com/gunnhildr/library-api/pkg/postgres"
	"github.com/stretchr/testify/require"
)

func TestDB_DSN(t *testing.T) {
	cfg := postgres.DB{
		Host:     "db",
		Port:     5433,
		Username: "books",
		Password: "p@ss",
		NameDB:   "library",
		SSLMode:  "disable",
	}
	require.Equal(t, "postgres://books:p%40ss@db:5433/library?sslmode=disable", cfg.DSN())
}
