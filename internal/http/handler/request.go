package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const contentTypeJSON = "application/json"

// maxStrictBodyBytes bounds JSON request bodies. The server-wide body
// limit is sized for multipart uploads, so JSON endpoints enforce their
// own much smaller cap.
const maxStrictBodyBytes int64 = 1 << 20

// bindStrictJSON decodes the request body into dst, rejecting wrong
// content types, unknown fields, and trailing data after the document.
func bindStrictJSON(c echo.Context, dst interface{}) error {
	contentType := strings.ToLower(c.Request().Header.Get(echo.HeaderContentType))
	if !strings.HasPrefix(contentType, contentTypeJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	decoder := json.NewDecoder(io.LimitReader(c.Request().Body, maxStrictBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	return nil
}
