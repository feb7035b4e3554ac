package handler

import (
	"net/http"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ApplicationService interface {
	Apply(actor *entity.User, jobID int64, req *contract.ApplicationRequest) (*contract.ApplicationResponse, apierror.ErrorResponse)
	ListMyApplications(actor *entity.User) ([]*contract.ApplicationResponse, apierror.ErrorResponse)
	ListJobApplications(actor *entity.User, jobID int64) ([]*contract.ApplicationResponse, apierror.ErrorResponse)
	DecideApplication(actor *entity.User, id int64, req *contract.ApplicationDecisionRequest) (*contract.ApplicationResponse, apierror.ErrorResponse)
}

type DefaultApplicationRoute struct {
	ApplicationService ApplicationService
}

func NewApplicationDefault(applicationService ApplicationService) *DefaultApplicationRoute {
	return &DefaultApplicationRoute{ApplicationService: applicationService}
}

func (a *DefaultApplicationRoute) Apply(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	jobID, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.ApplicationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	app, apierr := a.ApplicationService.Apply(user, jobID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, app)
}

func (a *DefaultApplicationRoute) ListMine(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	apps, apierr := a.ApplicationService.ListMyApplications(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"applications": apps})
}

func (a *DefaultApplicationRoute) ListForJob(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	jobID, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	apps, apierr := a.ApplicationService.ListJobApplications(user, jobID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"applications": apps})
}

func (a *DefaultApplicationRoute) Decide(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.ApplicationDecisionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	app, apierr := a.ApplicationService.DecideApplication(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, app)
}
