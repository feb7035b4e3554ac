package handler

import (
	"context"
	"errors"
	"net/http"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/service"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type RegistrationService interface {
	RegisterEngineer(ctx context.Context, req *contract.EngineerRegistrationRequest, docs service.Documents) (*contract.RegistrationResponse, apierror.ErrorResponse)
	RegisterEntreprise(ctx context.Context, req *contract.EntrepriseRegistrationRequest) (*contract.RegistrationResponse, apierror.ErrorResponse)
	ResubmitDocuments(ctx context.Context, actor *entity.User, docs service.Documents) (*contract.ProfileResponse, apierror.ErrorResponse)
}

type DefaultRegistrationRoute struct {
	RegistrationService RegistrationService
}

func NewRegistrationDefault(registrationService RegistrationService) *DefaultRegistrationRoute {
	return &DefaultRegistrationRoute{RegistrationService: registrationService}
}

// RegisterEngineer expects a multipart form with the JSON body in
// 'json_payload' and one file field per document kind.
func (r *DefaultRegistrationRoute) RegisterEngineer(c echo.Context) error {
	var req contract.EngineerRegistrationRequest
	if apierr := formPayload(c, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	docs, apierr := formDocuments(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := r.RegistrationService.RegisterEngineer(c.Request().Context(), &req, docs)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (r *DefaultRegistrationRoute) RegisterEntreprise(c echo.Context) error {
	var req contract.EntrepriseRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := r.RegistrationService.RegisterEntreprise(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

// ResubmitDocuments replaces the files sent, the others are kept.
func (r *DefaultRegistrationRoute) ResubmitDocuments(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	docs, apierr := formDocuments(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	profile, apierr := r.RegistrationService.ResubmitDocuments(c.Request().Context(), user, docs)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, profile)
}

// formDocuments collects the document fields present in the form.
// Missing ones are left for the service to report.
func formDocuments(c echo.Context) (service.Documents, apierror.ErrorResponse) {
	docs := service.Documents{}
	for _, kind := range entity.DocumentKinds {
		fileHeader, err := c.FormFile(string(kind))
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}

		if errors.Is(err, http.ErrNotMultipart) {
			return nil, apierror.InvalidMediaTypeError
		}

		if err != nil {
			return nil, apierror.MalformedBodyError
		}
		docs[kind] = fileHeader
	}
	return docs, nil
}
