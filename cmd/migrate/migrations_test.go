package main

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoMigrationsDir is db/migrations, two levels above this file.
func repoMigrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations")
}

// upSection returns the statements between the Up and Down directives.
func upSection(t *testing.T, dir string) string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var up strings.Builder
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)

		s := string(b)
		require.Contains(t, s, "-- +goose Up", e.Name())
		require.Contains(t, s, "-- +goose Down", e.Name())
		_, rest, _ := strings.Cut(s, "-- +goose Up")
		body, _, _ := strings.Cut(rest, "-- +goose Down")
		up.WriteString(body)
	}
	return up.String()
}

func TestCollectMigrations_Sequential(t *testing.T) {
	migrations, err := goose.CollectMigrations(repoMigrationsDir(t), 0, goose.MaxVersion)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i, m := range migrations {
		assert.Equal(t, int64(i+1), m.Version, m.Source)
	}
}

func TestMigrations_CatalogTables(t *testing.T) {
	up := upSection(t, repoMigrationsDir(t))

	for _, table := range []string{"authors", "genres", "publishers", "books", "authors_books", "books_genres"} {
		assert.Regexp(t, regexp.MustCompile(`CREATE TABLE `+table+` \(`), up, table)
	}
	for _, table := range []string{"authors", "genres", "publishers", "books"} {
		assert.Regexp(t, regexp.MustCompile(`(?s)CREATE TABLE `+table+` \(\s*id BIGSERIAL PRIMARY KEY`), up,
			"%s needs a BIGSERIAL id for explicit-id upserts", table)
	}
}

func TestMigrations_DeleteRules(t *testing.T) {
	up := upSection(t, repoMigrationsDir(t))

	tests := []struct {
		name string
		rule string
	}{
		{"referenced publisher is kept", `CONSTRAINT books_publisher_id_fkey REFERENCES publishers \(id\) ON DELETE RESTRICT`},
		{"author delete drops join rows", `CONSTRAINT authors_books_author_id_fkey REFERENCES authors \(id\) ON DELETE CASCADE`},
		{"book delete drops author rows", `(?s)CREATE TABLE authors_books \(\s*book_id BIGINT NOT NULL REFERENCES books \(id\) ON DELETE CASCADE`},
		{"book delete drops genre rows", `(?s)CREATE TABLE books_genres \(\s*book_id BIGINT NOT NULL REFERENCES books \(id\) ON DELETE CASCADE`},
		{"genre delete drops join rows", `genre_id BIGINT NOT NULL REFERENCES genres \(id\) ON DELETE CASCADE`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Regexp(t, regexp.MustCompile(tt.rule), up)
		})
	}
}
