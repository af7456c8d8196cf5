package jsonx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gunnhildr/library-api/pkg/jsonx"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type book struct {
	ID    int    `json:"id"`
	Genre string `json:"genre"`
}

func TestSerializer(t *testing.T) {
	e := echo.New()
	e.JSONSerializer = jsonx.Serializer{}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":3,"genre":"18+"}`))
	w := httptest.NewRecorder()
	c := e.NewContext(r, w)

	var b book
	require.NoError(t, c.Echo().JSONSerializer.Deserialize(c, &b))
	require.Equal(t, book{ID: 3, Genre: "18+"}, b)

	require.NoError(t, c.JSON(http.StatusOK, b))
	require.Equal(t, "{\"id\":3,\"genre\":\"18+\"}\n", w.Body.String())
}

func TestSerializer_InvalidBody(t *testing.T) {
	e := echo.New()
	e.JSONSerializer = jsonx.Serializer{}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":`))
	c := e.NewContext(r, httptest.NewRecorder())

	var b book
	err := c.Echo().JSONSerializer.Deserialize(c, &b)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusBadRequest, he.Code)
}
