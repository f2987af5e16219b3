package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const welcomeMessage = "Bem vindo a API de veículos - Minimal API"

// Home handles GET /.
//
// @Summary      API information
// @Tags         home
// @Produce      json
// @Success      200  {object}  homeResponse
// @Router       / [get]
func Home(c echo.Context) error {
	return c.JSON(http.StatusOK, homeResponse{Message: welcomeMessage, Doc: "/swagger/index.html"})
}
