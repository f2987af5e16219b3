package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// LowercasePath folds the request path to lower case so routes match
// regardless of casing (/Veiculos/1 reaches /veiculos/:id). Register with
// Echo#Pre so it runs before routing.
func LowercasePath() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := c.Request().URL
			u.Path = strings.ToLower(u.Path)
			if u.RawPath != "" {
				u.RawPath = strings.ToLower(u.RawPath)
			}
			return next(c)
		}
	}
}
