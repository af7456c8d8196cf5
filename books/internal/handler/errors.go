package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gunnhildr/library-api/books/internal/model"
)

// errorHandler renders every error as {"reason": "..."}.
func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	if he.Code >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("URI", c.Request().RequestURI),
			zap.Error(err))
		he = echo.NewHTTPError(he.Code)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, model.ErrorResponse{Reason: fmt.Sprint(he.Message)})
	}
	if err != nil {
		h.log.Error("write error response", zap.Error(err))
	}
}
