package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// respondError and respondMessage keep every handler's JSON envelope to
// the same two single-key shapes.

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyMessage: message})
}

// handleHTTPError flattens an *echo.HTTPError (from bindStrictJSON and
// friends) into the error envelope so clients never see two formats.
func handleHTTPError(c echo.Context, err error) error {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	msg, _ := he.Message.(string)
	if msg == "" {
		msg = http.StatusText(he.Code)
	}

	return respondError(c, he.Code, msg)
}
