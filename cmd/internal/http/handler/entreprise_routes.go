package handler

import (
	"net/http"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type EntrepriseService interface {
	GetMine(actor *entity.User) (*contract.EntrepriseResponse, apierror.ErrorResponse)
	UpdateMine(actor *entity.User, req *contract.UpdateEntrepriseRequest) (*contract.EntrepriseResponse, apierror.ErrorResponse)
	ListEntreprises(actor *entity.User, query *contract.AdminListQuery) (*contract.EntrepriseListResponse, apierror.ErrorResponse)
	ValidateEntreprise(actor *entity.User, id int64) (*contract.EntrepriseResponse, apierror.ErrorResponse)
	SuspendEntreprise(actor *entity.User, id int64, req *contract.StatusReasonRequest) (*contract.EntrepriseResponse, apierror.ErrorResponse)
	RejectEntreprise(actor *entity.User, id int64, req *contract.StatusReasonRequest) (*contract.EntrepriseResponse, apierror.ErrorResponse)
}

type DefaultEntrepriseRoute struct {
	EntrepriseService EntrepriseService
}

func NewEntrepriseDefault(entrepriseService EntrepriseService) *DefaultEntrepriseRoute {
	return &DefaultEntrepriseRoute{EntrepriseService: entrepriseService}
}

func (e *DefaultEntrepriseRoute) GetMine(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	ent, apierr := e.EntrepriseService.GetMine(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, ent)
}

func (e *DefaultEntrepriseRoute) UpdateMine(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.UpdateEntrepriseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	ent, apierr := e.EntrepriseService.UpdateMine(user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, ent)
}

func (e *DefaultEntrepriseRoute) ListEntreprises(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var query contract.AdminListQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	list, apierr := e.EntrepriseService.ListEntreprises(user, &query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, list)
}

func (e *DefaultEntrepriseRoute) ValidateEntreprise(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	ent, apierr := e.EntrepriseService.ValidateEntreprise(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, ent)
}

func (e *DefaultEntrepriseRoute) SuspendEntreprise(c echo.Context) error {
	return e.withReason(c, e.EntrepriseService.SuspendEntreprise)
}

func (e *DefaultEntrepriseRoute) RejectEntreprise(c echo.Context) error {
	return e.withReason(c, e.EntrepriseService.RejectEntreprise)
}

type reasonAction func(actor *entity.User, id int64, req *contract.StatusReasonRequest) (*contract.EntrepriseResponse, apierror.ErrorResponse)

func (e *DefaultEntrepriseRoute) withReason(c echo.Context, action reasonAction) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.StatusReasonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	ent, apierr := action(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, ent)
}
