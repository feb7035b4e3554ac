package handler

import (
	"encoding/json"
	"omigec/cmd/internal/utils/apierror"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// pathID reads a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, apierror.ErrorResponse) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		return 0, apierror.NewMissingParamError(name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.NewInvalidParamTypeError(name, "int")
	}
	return id, nil
}

// formPayload decodes the 'json_payload' field of a multipart request.
func formPayload(c echo.Context, dst any) apierror.ErrorResponse {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return apierror.InvalidMediaTypeError
	}

	payload := strings.TrimSpace(c.FormValue("json_payload"))
	if payload == "" {
		return apierror.FormJSONRequiredError
	}

	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return apierror.MalformedBodyError
	}
	return nil
}
