package handler

import (
	"context"
	"net/http"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ProfileService interface {
	GetMine(actor *entity.User) (*contract.ProfileResponse, apierror.ErrorResponse)
	UpdateMine(ctx context.Context, actor *entity.User, req *contract.UpdateProfileRequest) (*contract.ProfileResponse, apierror.ErrorResponse)
	SearchDirectory(ctx context.Context, query *contract.DirectoryQuery) (*contract.DirectoryResponse, apierror.ErrorResponse)
	GetPublicProfile(id int64) (*contract.PublicProfileResponse, apierror.ErrorResponse)
}

type DefaultProfileRoute struct {
	ProfileService ProfileService
}

func NewProfileDefault(profileService ProfileService) *DefaultProfileRoute {
	return &DefaultProfileRoute{ProfileService: profileService}
}

func (p *DefaultProfileRoute) GetMine(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	profile, apierr := p.ProfileService.GetMine(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, profile)
}

func (p *DefaultProfileRoute) UpdateMine(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	profile, apierr := p.ProfileService.UpdateMine(c.Request().Context(), user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, profile)
}

func (p *DefaultProfileRoute) SearchDirectory(c echo.Context) error {
	var query contract.DirectoryQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	page, apierr := p.ProfileService.SearchDirectory(c.Request().Context(), &query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, page)
}

func (p *DefaultProfileRoute) GetPublicProfile(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	profile, apierr := p.ProfileService.GetPublicProfile(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, profile)
}
