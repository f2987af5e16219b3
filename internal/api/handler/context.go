package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

var errInvalidPayload = echo.NewHTTPError(http.StatusBadRequest, "invalid payload")

// pathID parses the :id route parameter. Non-numeric or non-positive ids are
// rejected with 400 before any service call.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

var errInvalidPage = echo.NewHTTPError(http.StatusBadRequest, "invalid page")

// bindQuery binds list query parameters and checks their validate tags.
// Only pagina is numeric, so any bind failure is a bad page.
func bindQuery(c echo.Context, q any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, q); err != nil {
		return errInvalidPage
	}
	return c.Validate(q)
}
