package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gunnhildr/library-api/books/internal/errs"
	"github.com/gunnhildr/library-api/books/internal/model"
	"github.com/gunnhildr/library-api/books/migrations"
	"github.com/gunnhildr/library-api/pkg/postgres"
)

const dsnEnv = "BOOKS_TEST_DB_DSN"

func newTestRepo(t *testing.T) *repository {
	t.Helper()
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s is not set", dsnEnv)
	}
	ctx := context.Background()
	pool, err := postgres.Connect(ctx, dsn, 4, migrations.MigrationFiles)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "truncate books restart identity")
	require.NoError(t, err)

	repo, err := NewRepository(pool, zap.NewNop())
	require.NoError(t, err)
	return repo
}

func seed(t *testing.T, r *repository, books ...model.BookCreate) []model.Book {
	t.Helper()
	created := make([]model.Book, 0, len(books))
	for _, b := range books {
		book, err := r.CreateBook(context.Background(), b)
		require.NoError(t, err)
		created = append(created, book)
	}
	return created
}

func fiftyShades() []model.BookCreate {
	return []model.BookCreate{
		{Title: "Fifty Shades of Grey", Author: "E.L. James", PublicationYear: 2011, Genre: "18+"},
		{Title: "Fifty Shades Darker", Author: "E.L. James", PublicationYear: 2012, Genre: "18+"},
		{Title: "Fifty Shades Freed", Author: "E.L. James", PublicationYear: 2012, Genre: "drama"},
	}
}

func TestNewRepository_NilPool(t *testing.T) {
	_, err := NewRepository(nil, zap.NewNop())
	require.Error(t, err)
}

func TestRepository_CreateAndGet(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created := seed(t, r, fiftyShades()[0])[0]
	require.Equal(t, 1, created.ID)
	require.Equal(t, "Fifty Shades of Grey", created.Title)

	got, err := r.GetBook(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	_, err = r.GetBook(ctx, 100)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRepository_UpdateBook(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seed(t, r, fiftyShades()[0])[0]

	book.Title = "NEW"
	affected, err := r.UpdateBook(ctx, book)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	book.ID = 100
	affected, err = r.UpdateBook(ctx, book)
	require.NoError(t, err)
	require.Equal(t, int64(0), affected)
}

func TestRepository_ListGenreGroups(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	groups, err := r.ListGenreGroups(ctx)
	require.NoError(t, err)
	require.Empty(t, groups)

	seed(t, r, fiftyShades()...)
	groups, err = r.ListGenreGroups(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.GenreGroup{
		{
			Genre: "18+",
			Count: 2,
			Books: []model.Book{
				{ID: 1, Title: model.CensoredTitle, Author: "E.L. James", PublicationYear: 2011, Genre: "18+"},
				{ID: 2, Title: model.CensoredTitle, Author: "E.L. James", PublicationYear: 2012, Genre: "18+"},
			},
		},
		{
			Genre: "drama",
			Count: 1,
			Books: []model.Book{
				{ID: 3, Title: "Fifty Shades Freed", Author: "E.L. James", PublicationYear: 2012, Genre: "drama"},
			},
		},
	}, groups)
}

func TestRepository_CountByGenre(t *testing.T) {
	r := newTestRepo(t)
	seed(t, r, fiftyShades()...)

	count, err := r.CountByGenre(context.Background(), "18+")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	count, err = r.CountByGenre(context.Background(), "poetry")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestRepository_SearchBooks(t *testing.T) {
	r := newTestRepo(t)
	seed(t, r, fiftyShades()...)
	seed(t, r, model.BookCreate{Title: "War and Peace", Author: "Leo Tolstoy", PublicationYear: 1869, Genre: "novel"})

	tests := []struct {
		name   string
		filter model.SearchFilter
		ids    []int
	}{
		{name: "title, adult excluded", filter: model.SearchFilter{Title: "fifty"}, ids: []int{3}},
		{name: "author only", filter: model.SearchFilter{Author: "TOLSTOY"}, ids: []int{4}},
		{name: "title and author", filter: model.SearchFilter{Title: "peace", Author: "leo"}, ids: []int{4}},
		{name: "title and author mismatch", filter: model.SearchFilter{Title: "peace", Author: "james"}, ids: []int{}},
		{name: "like wildcards are literal", filter: model.SearchFilter{Title: "%"}, ids: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := r.SearchBooks(context.Background(), tt.filter)
			require.NoError(t, err)
			ids := make([]int, 0, len(books))
			for _, b := range books {
				ids = append(ids, b.ID)
			}
			require.Equal(t, tt.ids, ids)
		})
	}
}

func TestRepository_UpdateBooks(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	books := seed(t, r, fiftyShades()...)

	books[0].Title = "NEW"
	books[1].Author = "NEW"
	require.NoError(t, r.UpdateBooks(ctx, books[:2]))

	got, err := r.GetBooksByIDs(ctx, []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, books[:2], got)

	// a book removed between the existence check and the update rolls the batch back
	require.NoError(t, r.DeleteBook(ctx, books[2].ID))
	books[0].Title = "NEWER"
	err = r.UpdateBooks(ctx, []model.Book{books[0], books[2]})
	require.ErrorIs(t, err, errs.ErrNotFound)

	got0, err := r.GetBook(ctx, books[0].ID)
	require.NoError(t, err)
	require.Equal(t, "NEW", got0.Title)
}

func TestRepository_DeleteBook(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seed(t, r, fiftyShades()...)

	require.NoError(t, r.DeleteBook(ctx, 1))
	require.ErrorIs(t, r.DeleteBook(ctx, 1), errs.ErrNotFound)

	left, err := r.GetBooksByIDs(ctx, []int{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, left, 2)
}
