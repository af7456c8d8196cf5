package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/gunnhildr/library-api/books/internal/errs"
	"github.com/gunnhildr/library-api/books/internal/model"
	"github.com/gunnhildr/library-api/pkg/jsonx"
	md "github.com/gunnhildr/library-api/pkg/middleware"
	"github.com/gunnhildr/library-api/pkg/paginate"
	"github.com/gunnhildr/library-api/pkg/validate"
	_ "github.com/gunnhildr/library-api/swagger"
)

type Handler struct {
	bookSvc BookService
	log     *zap.Logger
}

func New(bookSvc BookService, log *zap.Logger) *Handler {
	h := &Handler{
		bookSvc: bookSvc,
		log:     log.Named("handler"),
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.HTTPErrorHandler = h.errorHandler
	e.JSONSerializer = jsonx.Serializer{}
	e.Validator = validate.NewCustomValidator()

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		md.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/books", h.CreateBook)
	api.GET("/books", h.ListBooks)
	api.PUT("/books", h.UpdateBooks)
	api.GET("/books/search", h.SearchBooks)
	api.DELETE("/books/:id", h.DeleteBook)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// CreateBook godoc
// @Summary  Add a new book. Books of the genre horror cannot be added.
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    book body     model.BookCreateRequest true "book"
// @Success  201  {object} model.Book
// @Failure  400  {object} model.ErrorResponse
// @Router   /books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.BookCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.bookSvc.CreateBook(c.Request().Context(), req.BookCreate())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

// ListBooks godoc
// @Summary  List all books grouped by genre, titles of 18+ books are censored.
// @Tags     books
// @Produce  json
// @Param    page query    int false "page number" default(1)
// @Param    size query    int false "page size"   default(50)
// @Success  200  {object} paginate.Page[model.GenreGroup]
// @Failure  404  {object} model.ErrorResponse
// @Router   /books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	params, err := pageParams(c)
	if err != nil {
		return err
	}

	groups, err := h.bookSvc.ListGenreGroups(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, paginate.Paginate(groups, params))
}

// UpdateBooks godoc
// @Summary  Update several books at once. Every book must exist.
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    books body     []model.BookUpdateRequest true "books"
// @Success  200   {array}  model.Book
// @Failure  400   {object} model.ErrorResponse
// @Failure  404   {object} model.ErrorResponse
// @Failure  409   {object} model.ErrorResponse
// @Router   /books [put]
func (h *Handler) UpdateBooks(c echo.Context) error {
	var req []model.BookUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	// an empty body or null leaves req nil, [] is a valid empty batch
	if req == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "request body is required")
	}
	update := make([]model.Book, 0, len(req))
	for i := range req {
		if err := c.Validate(req[i]); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		update = append(update, req[i].Book())
	}

	books, err := h.bookSvc.UpdateBooks(c.Request().Context(), update)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// DeleteBook godoc
// @Summary  Delete a book. The last book of a genre cannot be deleted.
// @Tags     books
// @Param    id  path     int true "book id"
// @Success  200
// @Failure  404 {object} model.ErrorResponse
// @Failure  422 {object} model.ErrorResponse
// @Router   /books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}

	if err := h.bookSvc.DeleteBook(c.Request().Context(), id); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

// SearchBooks godoc
// @Summary  Search books by title and/or author, case insensitive and partial. 18+ books are never found.
// @Tags     books
// @Produce  json
// @Param    title  query    string false "part of the title"
// @Param    author query    string false "part of the author"
// @Param    page   query    int    false "page number" default(1)
// @Param    size   query    int    false "page size"   default(50)
// @Success  200    {object} paginate.Page[model.Book]
// @Failure  400    {object} model.ErrorResponse
// @Failure  404    {object} model.ErrorResponse
// @Router   /books/search [get]
func (h *Handler) SearchBooks(c echo.Context) error {
	params, err := pageParams(c)
	if err != nil {
		return err
	}
	filter := model.SearchFilter{
		Title:  c.QueryParam("title"),
		Author: c.QueryParam("author"),
	}

	books, err := h.bookSvc.SearchBooks(c.Request().Context(), filter)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, paginate.Paginate(books, params))
}

func pageParams(c echo.Context) (paginate.Params, error) {
	var err error
	params := paginate.DefaultParams()
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if params.Page, err = strconv.Atoi(pageParam); err != nil {
			return params, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if params.Size, err = strconv.Atoi(sizeParam); err != nil {
			return params, echo.NewHTTPError(http.StatusBadRequest, "size is invalid")
		}
	}
	if err = c.Validate(params); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return params, echo.NewHTTPError(http.StatusBadRequest, strings.ToLower(verrs[0].Field())+" is invalid")
		}
		return params, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return params, nil
}

func badRequest(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

func (h *Handler) httpError(err error) error {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrLastInGenre):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
}
