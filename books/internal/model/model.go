package model

import "strings"

const (
	// CensoredTitle replaces the title of books in the AdultGenre.
	CensoredTitle = "CENSORED"
	AdultGenre    = "18+"
	// HorrorGenre is matched case-insensitively and cannot be created.
	HorrorGenre = "horror"
)

type BookCreate struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear int    `json:"publication_year"`
	Genre           string `json:"genre"`
}

type Book struct {
	ID              int    `json:"id" db:"id"`
	Title           string `json:"title" db:"title"`
	Author          string `json:"author" db:"author"`
	PublicationYear int    `json:"publication_year" db:"publication_year"`
	Genre           string `json:"genre" db:"genre"`
}

// BookCreateRequest is the body of a create request.
// PublicationYear is a pointer so that an absent year fails validation while 0 does not.
type BookCreateRequest struct {
	Title           string `json:"title" validate:"required"`
	Author          string `json:"author" validate:"required"`
	PublicationYear *int   `json:"publication_year" validate:"required"`
	Genre           string `json:"genre" validate:"required"`
}

func (r BookCreateRequest) BookCreate() BookCreate {
	return BookCreate{
		Title:           r.Title,
		Author:          r.Author,
		PublicationYear: *r.PublicationYear,
		Genre:           r.Genre,
	}
}

// BookUpdateRequest is one element of a bulk update body.
type BookUpdateRequest struct {
	ID              int    `json:"id" validate:"required"`
	Title           string `json:"title" validate:"required"`
	Author          string `json:"author" validate:"required"`
	PublicationYear *int   `json:"publication_year" validate:"required"`
	Genre           string `json:"genre" validate:"required"`
}

func (r BookUpdateRequest) Book() Book {
	return Book{
		ID:              r.ID,
		Title:           r.Title,
		Author:          r.Author,
		PublicationYear: *r.PublicationYear,
		Genre:           r.Genre,
	}
}

type GenreGroup struct {
	Books []Book `json:"books"`
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

type SearchFilter struct {
	Title  string
	Author string
}

func (f SearchFilter) Empty() bool {
	return f.Title == "" && f.Author == ""
}

type ErrorResponse struct {
	Reason string `json:"reason"`
}

func IsForbiddenGenre(genre string) bool {
	return strings.EqualFold(genre, HorrorGenre)
}

// Censored returns a copy of b with the title masked for the adult genre.
func Censored(b Book) Book {
	if b.Genre == AdultGenre {
		b.Title = CensoredTitle
	}
	return b
}

// GroupByGenre expects books ordered by genre and keeps that order.
func GroupByGenre(books []Book) []GenreGroup {
	groups := make([]GenreGroup, 0)
	index := make(map[string]int)
	for _, b := range books {
		i, ok := index[b.Genre]
		if !ok {
			i = len(groups)
			index[b.Genre] = i
			groups = append(groups, GenreGroup{Genre: b.Genre, Books: make([]Book, 0, 1)})
		}
		groups[i].Books = append(groups[i].Books, Censored(b))
		groups[i].Count++
	}
	return groups
}
