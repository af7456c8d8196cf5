package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gunnhildr/library-api/books/internal/errs"
	"github.com/gunnhildr/library-api/books/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateBook(ctx context.Context, book model.BookCreate) (model.Book, error)
	UpdateBook(ctx context.Context, book model.Book) (int64, error)
	UpdateBooks(ctx context.Context, books []model.Book) error
	GetBook(ctx context.Context, id int) (model.Book, error)
	GetBooksByIDs(ctx context.Context, ids []int) ([]model.Book, error)
	ListGenreGroups(ctx context.Context) ([]model.GenreGroup, error)
	CountByGenre(ctx context.Context, genre string) (int, error)
	SearchBooks(ctx context.Context, filter model.SearchFilter) ([]model.Book, error)
	DeleteBook(ctx context.Context, id int) error
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	if db == nil {
		return nil, errors.New("nil db pool")
	}
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName = `books`
)

var (
	qb          = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	bookColumns = []string{"id", "title", "author", "publication_year", "genre"}
)

func (r *repository) CreateBook(ctx context.Context, book model.BookCreate) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "publication_year", "genre").
		Values(book.Title, book.Author, book.PublicationYear, book.Genre).
		Suffix("returning id, title, author, publication_year, genre").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	created, err := r.collectOne(ctx, r.db, query, args)
	if err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}
	return created, nil
}

func (r *repository) UpdateBook(ctx context.Context, book model.Book) (int64, error) {
	return r.updateBook(ctx, r.db, book)
}

// UpdateBooks overwrites every book in one serializable transaction.
// A book that no longer exists rolls the whole batch back with errs.ErrNotFound.
func (r *repository) UpdateBooks(ctx context.Context, books []model.Book) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, book := range books {
		affected, err := r.updateBook(ctx, tx, book)
		if err != nil {
			return conflictOr(err)
		}
		if affected == 0 {
			return errors.Wrapf(errs.ErrNotFound, "book %d", book.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return conflictOr(err)
	}
	return nil
}

func (r *repository) updateBook(ctx context.Context, q querier, book model.Book) (int64, error) {
	query, args, err := qb.Update(booksTableName).
		SetMap(map[string]any{
			"title":            book.Title,
			"author":           book.Author,
			"publication_year": book.PublicationYear,
			"genre":            book.Genre,
		}).
		Where(sq.Eq{"id": book.ID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	book, err := r.collectOne(ctx, r.db, query, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) GetBooksByIDs(ctx context.Context, ids []int) ([]model.Book, error) {
	if len(ids) == 0 {
		return []model.Book{}, nil
	}
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": ids}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, query, args)
}

func (r *repository) ListGenreGroups(ctx context.Context) ([]model.GenreGroup, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("genre", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	books, err := r.collect(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return model.GroupByGenre(books), nil
}

func (r *repository) CountByGenre(ctx context.Context, genre string) (int, error) {
	query, args, err := qb.Select("count(*)").
		From(booksTableName).
		Where(sq.Eq{"genre": genre}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) SearchBooks(ctx context.Context, filter model.SearchFilter) ([]model.Book, error) {
	q := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.NotLike{"genre": "%" + model.AdultGenre + "%"})

	if filter.Title != "" {
		q = q.Where(sq.Expr("strpos(lower(title), lower(?)) > 0", filter.Title))
	}
	if filter.Author != "" {
		q = q.Where(sq.Expr("strpos(lower(author), lower(?)) > 0", filter.Author))
	}

	query, args, err := q.OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("SearchBooks", zap.String("query", query), zap.Any("args", args))

	return r.collect(ctx, query, args)
}

func (r *repository) DeleteBook(ctx context.Context, id int) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) collect(ctx context.Context, query string, args []any) ([]model.Book, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

func (r *repository) collectOne(ctx context.Context, q querier, query string, args []any) (model.Book, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, err
	}
	defer rows.Close()

	return pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
}

func conflictOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.SerializationFailure {
		return errors.Wrap(errs.ErrConflict, pgErr.Message)
	}
	return err
}
