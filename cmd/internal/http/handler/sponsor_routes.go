package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"
	"strings"

	"github.com/labstack/echo/v4"
)

type SponsorService interface {
	ListActive() ([]*contract.SponsorResponse, apierror.ErrorResponse)
	Create(ctx context.Context, actor *entity.User, req *contract.SponsorRequest, logo *multipart.FileHeader) (*contract.SponsorResponse, apierror.ErrorResponse)
	Update(actor *entity.User, id int64, req *contract.UpdateSponsorRequest) (*contract.SponsorResponse, apierror.ErrorResponse)
	Delete(ctx context.Context, actor *entity.User, id int64) apierror.ErrorResponse
}

type DefaultSponsorRoute struct {
	SponsorService SponsorService
}

func NewSponsorDefault(sponsorService SponsorService) *DefaultSponsorRoute {
	return &DefaultSponsorRoute{SponsorService: sponsorService}
}

func (s *DefaultSponsorRoute) ListActive(c echo.Context) error {
	sponsors, apierr := s.SponsorService.ListActive()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"sponsors": sponsors})
}

// Create accepts plain JSON, or a multipart form with 'json_payload' and
// an optional 'logo' file.
func (s *DefaultSponsorRoute) Create(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.SponsorRequest
	var logo *multipart.FileHeader
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(contentType, echo.MIMEApplicationJSON):
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
		}
	case strings.HasPrefix(contentType, echo.MIMEMultipartForm):
		if apierr := formPayload(c, &req); apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}

		fileHeader, err := c.FormFile("logo")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
		}
		logo = fileHeader
	default:
		return c.JSON(http.StatusUnsupportedMediaType, apierror.InvalidMediaTypeError)
	}

	sponsor, apierr := s.SponsorService.Create(c.Request().Context(), user, &req, logo)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, sponsor)
}

func (s *DefaultSponsorRoute) Update(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateSponsorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	sponsor, apierr := s.SponsorService.Update(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, sponsor)
}

func (s *DefaultSponsorRoute) Delete(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr := s.SponsorService.Delete(c.Request().Context(), user, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
