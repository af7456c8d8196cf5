package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gunnhildr/library-api/books/internal/errs"
	"github.com/gunnhildr/library-api/books/internal/model"
	booksRepo "github.com/gunnhildr/library-api/books/internal/repository"
)

const (
	reasonForbiddenGenre = "Books with genre %s cannot be added."
	reasonNoBooks        = "No books in the library. Sorry!"
	reasonNotAllFound    = "Not all books found. Update is allowed only for existing books."
	reasonConflict       = "Books were modified concurrently. Retry the update."
	reasonBookNotFound   = "Book with ID %d not found."
	// misspelling is part of the public contract
	reasonLastInGenre  = "Cannnot delete the last book from the genre %s."
	reasonSearchParams = "At least one of parameters title or author is required."
	reasonNoMatches    = "Books not found."
)

type Service struct {
	log  *zap.Logger
	repo booksRepo.Repository
}

func NewService(repo booksRepo.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("service"),
		repo: repo,
	}
}

func (s *Service) CreateBook(ctx context.Context, book model.BookCreate) (model.Book, error) {
	s.log.Info("creating a book", zap.Any("book", book))

	if model.IsForbiddenGenre(book.Genre) {
		return model.Book{}, errs.Reasonf(errs.ErrValidation, reasonForbiddenGenre, book.Genre)
	}
	created, err := s.repo.CreateBook(ctx, book)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "repo.CreateBook")
	}
	return created, nil
}

func (s *Service) ListGenreGroups(ctx context.Context) ([]model.GenreGroup, error) {
	groups, err := s.repo.ListGenreGroups(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "repo.ListGenreGroups")
	}
	s.log.Info("found genres with books", zap.Int("genres", len(groups)))

	if len(groups) == 0 {
		return nil, errs.Reasonf(errs.ErrNotFound, reasonNoBooks)
	}
	return groups, nil
}

// UpdateBooks rejects the whole batch unless every requested book is found,
// then overwrites all fields of each book and returns the stored result ordered by id.
func (s *Service) UpdateBooks(ctx context.Context, books []model.Book) ([]model.Book, error) {
	ids := uniqueIDs(books)
	s.log.Info("updating books", zap.Ints("ids", ids))
	if len(ids) == 0 {
		return []model.Book{}, nil
	}

	found, err := s.repo.GetBooksByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "repo.GetBooksByIDs")
	}
	// a repeated id is found once, so it fails the check like a missing one
	if len(found) < len(books) {
		return nil, errs.Reasonf(errs.ErrNotFound, reasonNotAllFound)
	}

	if err := s.repo.UpdateBooks(ctx, books); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			s.log.Warn("book deleted during update", zap.Error(err))
			return nil, errs.Reasonf(errs.ErrNotFound, reasonNotAllFound)
		case errors.Is(err, errs.ErrConflict):
			return nil, errs.Reasonf(errs.ErrConflict, reasonConflict)
		}
		return nil, errors.Wrap(err, "repo.UpdateBooks")
	}

	updated, err := s.repo.GetBooksByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "repo.GetBooksByIDs")
	}
	return updated, nil
}

func (s *Service) DeleteBook(ctx context.Context, id int) error {
	s.log.Info("deleting the book", zap.Int("id", id))

	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.Reasonf(errs.ErrNotFound, reasonBookNotFound, id)
		}
		return errors.Wrap(err, "repo.GetBook")
	}

	count, err := s.repo.CountByGenre(ctx, book.Genre)
	if err != nil {
		return errors.Wrap(err, "repo.CountByGenre")
	}
	if count <= 1 {
		return errs.Reasonf(errs.ErrLastInGenre, reasonLastInGenre, book.Genre)
	}

	if err := s.repo.DeleteBook(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.Reasonf(errs.ErrNotFound, reasonBookNotFound, id)
		}
		return errors.Wrap(err, "repo.DeleteBook")
	}
	return nil
}

func (s *Service) SearchBooks(ctx context.Context, filter model.SearchFilter) ([]model.Book, error) {
	s.log.Info("searching for books",
		zap.String("title", filter.Title),
		zap.String("author", filter.Author))

	if filter.Empty() {
		return nil, errs.Reasonf(errs.ErrValidation, reasonSearchParams)
	}
	books, err := s.repo.SearchBooks(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "repo.SearchBooks")
	}
	if len(books) == 0 {
		return nil, errs.Reasonf(errs.ErrNotFound, reasonNoMatches)
	}
	return books, nil
}

func uniqueIDs(books []model.Book) []int {
	seen := make(map[int]struct{}, len(books))
	ids := make([]int, 0, len(books))
	for _, b := range books {
		if _, ok := seen[b.ID]; ok {
			continue
		}
		seen[b.ID] = struct{}{}
		ids = append(ids, b.ID)
	}
	return ids
}
