package handler

import (
	"net/http"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type JobService interface {
	CreateJob(actor *entity.User, req *contract.JobRequest) (*contract.JobResponse, apierror.ErrorResponse)
	UpdateJob(actor *entity.User, id int64, req *contract.UpdateJobRequest) (*contract.JobResponse, apierror.ErrorResponse)
	DeleteJob(actor *entity.User, id int64) apierror.ErrorResponse
	GetActiveJobs(query *contract.JobQuery) (*contract.JobListResponse, apierror.ErrorResponse)
	GetEntrepriseJobs(actor *entity.User) ([]*contract.JobResponse, apierror.ErrorResponse)
	GetJobByID(id int64) (*contract.JobResponse, apierror.ErrorResponse)
}

type DefaultJobRoute struct {
	JobService JobService
}

func NewJobDefault(jobService JobService) *DefaultJobRoute {
	return &DefaultJobRoute{JobService: jobService}
}

func (j *DefaultJobRoute) GetJobs(c echo.Context) error {
	var query contract.JobQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	jobs, apierr := j.JobService.GetActiveJobs(&query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, jobs)
}

func (j *DefaultJobRoute) GetJob(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	job, apierr := j.JobService.GetJobByID(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, job)
}

func (j *DefaultJobRoute) GetMyJobs(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	jobs, apierr := j.JobService.GetEntrepriseJobs(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"jobs": jobs})
}

func (j *DefaultJobRoute) CreateJob(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.JobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	job, apierr := j.JobService.CreateJob(user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, job)
}

func (j *DefaultJobRoute) UpdateJob(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateJobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	job, apierr := j.JobService.UpdateJob(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, job)
}

func (j *DefaultJobRoute) DeleteJob(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr := j.JobService.DeleteJob(user, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
