package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"catalogapi/internal/book"
	"catalogapi/internal/config"
	"catalogapi/internal/platform/logging"
	"catalogapi/internal/platform/postgres"
	"catalogapi/internal/resource"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
)

var (
	authorNames    = []string{"George Orwell", "Aldous Huxley", "Ray Bradbury", "Ursula K. Le Guin", "Margaret Atwood", "Isaac Asimov", "Mary Shelley", "H. G. Wells"}
	genreNames     = []string{"Fiction", "Science Fiction", "Dystopia", "Satire", "History", "Philosophy", "Romance", "Mystery"}
	publisherNames = []string{"Penguin", "HarperCollins", "Secker and Warburg", "Chatto and Windus", "Gollancz", "Vintage"}
	titleWords     = []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
)

func main() {
	count := flag.Int("books", 50, "Number of books to generate")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.Init(os.Stderr, cfg.LogLevel)

	ctx := context.Background()
	pool, err := postgres.Open(ctx, cfg.DatabaseDSN, cfg.DBTimeout)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := seed(ctx, logger, pool, cfg, *count); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, logger *slog.Logger, pool *pgxpool.Pool, cfg config.Config, count int) error {
	authors, err := createRecords(ctx, resource.NewPostgresRepo(pool, resource.Authors, cfg.DBTimeout), authorNames)
	if err != nil {
		return err
	}
	genres, err := createRecords(ctx, resource.NewPostgresRepo(pool, resource.Genres, cfg.DBTimeout), genreNames)
	if err != nil {
		return err
	}
	publishers, err := createRecords(ctx, resource.NewPostgresRepo(pool, resource.Publishers, cfg.DBTimeout), publisherNames)
	if err != nil {
		return err
	}
	logger.Info("seeded records", "authors", len(authors), "genres", len(genres), "publishers", len(publishers))

	books := book.NewPostgresRepo(pool, cfg.DBTimeout)
	for i := 0; i < count; i++ {
		b := randomBook(i, authors, publishers)
		if err := books.Create(ctx, &b); err != nil {
			return fmt.Errorf("create book %q: %w", b.Title, err)
		}
		if err := tagGenres(ctx, pool, b.ID, lo.Samples(genres, 1+rand.Intn(2))); err != nil {
			return err
		}
		if (i+1)%10 == 0 {
			logger.Info("seeding books", "done", i+1, "total", count)
		}
	}

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM books").Scan(&total); err != nil {
		return err
	}
	logger.Info("seed complete", "books_inserted", count, "books_total", total)
	return nil
}

func createRecords(ctx context.Context, repo *resource.PostgresRepo, names []string) ([]resource.Record, error) {
	out := make([]resource.Record, 0, len(names))
	for _, name := range names {
		rec := resource.Record{Name: name}
		if err := repo.Create(ctx, &rec); err != nil {
			return nil, fmt.Errorf("create %q: %w", name, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func randomBook(i int, authors, publishers []resource.Record) book.Book {
	ids := func(recs []resource.Record) []int64 {
		return lo.Map(recs, func(r resource.Record, _ int) int64 { return r.ID })
	}
	return book.Book{
		Title:       fmt.Sprintf("Book Title %d - %s", i+1, lo.Sample(titleWords)),
		Pages:       100 + rand.Intn(800),
		PublisherID: lo.Sample(publishers).ID,
		AuthorsIDs:  ids(lo.Samples(authors, 1+rand.Intn(3))),
	}
}

// tagGenres writes genre rows directly; the API exposes them read-only.
func tagGenres(ctx context.Context, pool *pgxpool.Pool, bookID int64, genres []resource.Record) error {
	ins := postgres.Builder.Insert("books_genres").Columns("book_id", "genre_id")
	for _, g := range genres {
		ins = ins.Values(bookID, g.ID)
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("tag book %d: %w", bookID, err)
	}
	return nil
}
