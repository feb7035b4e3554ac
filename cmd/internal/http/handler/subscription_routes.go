package handler

import (
	"net/http"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type SubscriptionService interface {
	ListPlans() []*contract.PlanResponse
	CreateSubscriptionRequest(actor *entity.User, req *contract.SubscriptionRequest) (*contract.SubscriptionResponse, apierror.ErrorResponse)
	GetStatus(actor *entity.User) (*contract.SubscriptionStatusResponse, apierror.ErrorResponse)
	ActivateSubscription(actor *entity.User, id int64, req *contract.ActivateSubscriptionRequest) (*contract.SubscriptionResponse, apierror.ErrorResponse)
	RejectSubscription(actor *entity.User, id int64, req *contract.AdminNotesRequest) (*contract.SubscriptionResponse, apierror.ErrorResponse)
	DeactivateSubscription(actor *entity.User, id int64) (*contract.SubscriptionResponse, apierror.ErrorResponse)
	ListSubscriptions(actor *entity.User, query *contract.AdminListQuery) (*contract.SubscriptionListResponse, apierror.ErrorResponse)
}

type DefaultSubscriptionRoute struct {
	SubscriptionService SubscriptionService
}

func NewSubscriptionDefault(subscriptionService SubscriptionService) *DefaultSubscriptionRoute {
	return &DefaultSubscriptionRoute{SubscriptionService: subscriptionService}
}

func (s *DefaultSubscriptionRoute) ListPlans(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"plans": s.SubscriptionService.ListPlans()})
}

func (s *DefaultSubscriptionRoute) RequestSubscription(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.SubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	sub, apierr := s.SubscriptionService.CreateSubscriptionRequest(user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, sub)
}

func (s *DefaultSubscriptionRoute) GetStatus(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	status, apierr := s.SubscriptionService.GetStatus(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, status)
}

func (s *DefaultSubscriptionRoute) ListSubscriptions(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var query contract.AdminListQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	list, apierr := s.SubscriptionService.ListSubscriptions(user, &query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *DefaultSubscriptionRoute) Activate(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.ActivateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	sub, apierr := s.SubscriptionService.ActivateSubscription(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, sub)
}

func (s *DefaultSubscriptionRoute) Reject(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.AdminNotesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	sub, apierr := s.SubscriptionService.RejectSubscription(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, sub)
}

func (s *DefaultSubscriptionRoute) Deactivate(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	sub, apierr := s.SubscriptionService.DeactivateSubscription(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, sub)
}
