package jsonx

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Serializer is an echo.JSONSerializer backed by json-iterator.
type Serializer struct{}

var _ echo.JSONSerializer = Serializer{}

func (Serializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (Serializer) Deserialize(c echo.Context, i interface{}) error {
	err := json.NewDecoder(c.Request().Body).Decode(i)
	if err == nil {
		return nil
	}
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err)).
		SetInternal(errors.WithStack(err))
}
