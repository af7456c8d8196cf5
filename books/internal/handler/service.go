package handler

import (
	"context"

	"github.com/gunnhildr/library-api/books/internal/model"
	"github.com/gunnhildr/library-api/books/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	CreateBook(ctx context.Context, book model.BookCreate) (model.Book, error)
	ListGenreGroups(ctx context.Context) ([]model.GenreGroup, error)
	UpdateBooks(ctx context.Context, books []model.Book) ([]model.Book, error)
	DeleteBook(ctx context.Context, id int) error
	SearchBooks(ctx context.Context, filter model.SearchFilter) ([]model.Book, error)
}

var _ BookService = (*service.Service)(nil)
