package service

import (
	"errors"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/domain/policy"
	"omigec/cmd/internal/domain/sqlite/repository"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type JobRepository interface {
	FindByID(id int64) (*entity.JobOffer, error)
	CountActive(entrepriseID int64) (int64, error)
	CreateWithinQuota(job *entity.JobOffer, maxOffers int) error
	Save(job *entity.JobOffer) error
	FindActive(f repository.JobFilter) ([]*entity.JobOffer, int64, error)
	FindByEntreprise(entrepriseID int64) ([]*entity.JobOffer, error)
	IncrementViews(id int64) error
}

type JobService struct {
	JobRepo         JobRepository
	EntrepriseRepo  EntrepriseRepository
	Subscriptions   *SubscriptionService
	OwnershipPolicy *policy.OwnershipPolicy
	Validate        *validator.Validate

	now func() int64
}

func NewJobService(
	jobRepo JobRepository,
	entrepriseRepo EntrepriseRepository,
	subscriptions *SubscriptionService,
	ownershipPolicy *policy.OwnershipPolicy,
	validate *validator.Validate,
) *JobService {
	return &JobService{
		JobRepo:         jobRepo,
		EntrepriseRepo:  entrepriseRepo,
		Subscriptions:   subscriptions,
		OwnershipPolicy: ownershipPolicy,
		Validate:        validate,
		now:             utils.NowUTC,
	}
}

// CreateJob publishes an offer if the entreprise's subscription allows it.
// The quota is checked again inside the insert transaction.
func (j *JobService) CreateJob(actor *entity.User, req *contract.JobRequest) (*contract.JobResponse, apierror.ErrorResponse) {
	ent, apierr := entrepriseOf(j.EntrepriseRepo, actor)
	if apierr != nil {
		return nil, apierr
	}

	if ent.Status != entity.EntrepriseStatusValid {
		return nil, apierror.EntrepriseNotValidatedError
	}

	check, apierr := j.Subscriptions.CanPublishOffer(ent.ID)
	if apierr != nil {
		return nil, apierr
	}

	if !check.Allowed {
		return nil, check.Reason
	}

	utils.Sanitize(req)
	if err := j.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	now := j.now()
	deadline, apierr := parseDeadline(req.Deadline, now)
	if apierr != nil {
		return nil, apierr
	}

	job := &entity.JobOffer{
		EntrepriseID: ent.ID,
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Domains:      entity.JoinDomains(req.Domains),
		ContractType: entity.ContractType(req.ContractType),
		Location:     req.Location,
		SalaryRange:  req.SalaryRange,
		Deadline:     deadline,
		IsActive:     true,
		ViewsCount:   0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := j.JobRepo.CreateWithinQuota(job, check.Plan.MaxOffers)
	if errors.Is(err, repository.ErrQuotaExceeded) {
		return nil, apierror.QuotaExceededError
	}

	if err != nil {
		log.Errorf("failed to create job for entreprise %d: %v", ent.ID, err)
		return nil, apierror.InternalServerError
	}

	job.Entreprise = *ent
	return toJobResponse(job), nil
}

func (j *JobService) UpdateJob(actor *entity.User, id int64, req *contract.UpdateJobRequest) (*contract.JobResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := j.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	job, apierr := j.fetchOwned(actor, id)
	if apierr != nil {
		return nil, apierr
	}

	now := j.now()
	cs := &changeSet{}
	cs.setString(req.Title, &job.Title)
	cs.setString(req.Description, &job.Description)
	cs.setString(req.Requirements, &job.Requirements)
	cs.setString(req.Location, &job.Location)
	cs.setString(req.SalaryRange, &job.SalaryRange)
	cs.setDomains(req.Domains, &job.Domains)

	if req.ContractType != nil && entity.ContractType(*req.ContractType) != job.ContractType {
		job.ContractType = entity.ContractType(*req.ContractType)
		cs.dirty = true
	}

	if req.Deadline != nil {
		deadline, apierr := parseDeadline(*req.Deadline, now)
		if apierr != nil {
			return nil, apierr
		}

		if deadline != job.Deadline {
			job.Deadline = deadline
			cs.dirty = true
		}
	}

	if cs.dirty {
		job.UpdatedAt = now
		if err := j.JobRepo.Save(job); err != nil {
			log.Errorf("failed to update job %d: %v", job.ID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toJobResponse(job), nil
}

// DeleteJob closes the offer. Rows are never removed, applications keep
// pointing at them.
func (j *JobService) DeleteJob(actor *entity.User, id int64) apierror.ErrorResponse {
	job, apierr := j.fetchOwned(actor, id)
	if apierr != nil {
		return apierr
	}

	if !job.IsActive {
		return nil
	}

	job.IsActive = false
	job.UpdatedAt = j.now()
	if err := j.JobRepo.Save(job); err != nil {
		log.Errorf("failed to close job %d: %v", job.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (j *JobService) GetActiveJobs(query *contract.JobQuery) (*contract.JobListResponse, apierror.ErrorResponse) {
	utils.Sanitize(query)
	if err := j.Validate.Struct(query); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	limit, offset := pageOf(query.Limit, query.Offset)
	jobs, total, err := j.JobRepo.FindActive(repository.JobFilter{
		Domains: query.Domains,
		Search:  query.Search,
		Today:   utils.StartOfDay(j.now()),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		log.Errorf("failed to list active jobs: %v", err)
		return nil, apierror.InternalServerError
	}

	return &contract.JobListResponse{
		Jobs:   toJobResponses(jobs),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (j *JobService) GetEntrepriseJobs(actor *entity.User) ([]*contract.JobResponse, apierror.ErrorResponse) {
	ent, apierr := entrepriseOf(j.EntrepriseRepo, actor)
	if apierr != nil {
		return nil, apierr
	}

	jobs, err := j.JobRepo.FindByEntreprise(ent.ID)
	if err != nil {
		log.Errorf("failed to list jobs of entreprise %d: %v", ent.ID, err)
		return nil, apierror.InternalServerError
	}
	return toJobResponses(jobs), nil
}

// GetJobByID returns a publicly visible offer and counts the view.
func (j *JobService) GetJobByID(id int64) (*contract.JobResponse, apierror.ErrorResponse) {
	job, err := j.JobRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch job %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if job == nil || !job.IsActive || job.Entreprise.Status != entity.EntrepriseStatusValid {
		return nil, apierror.NotFoundError
	}

	if err := j.JobRepo.IncrementViews(job.ID); err != nil {
		log.Warnf("failed to count view of job %d: %v", job.ID, err)
	} else {
		job.ViewsCount++
	}
	return toJobResponse(job), nil
}

func (j *JobService) fetchOwned(actor *entity.User, id int64) (*entity.JobOffer, apierror.ErrorResponse) {
	ent, apierr := entrepriseOf(j.EntrepriseRepo, actor)
	if apierr != nil {
		return nil, apierr
	}

	job, err := j.JobRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch job %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if apierr := j.OwnershipPolicy.CanManageJob(ent, job); apierr != nil {
		return nil, apierr
	}
	return job, nil
}

// parseDeadline accepts a date strictly after 'now'. Dates are midnight
// UTC, so today is already too late.
func parseDeadline(date string, now int64) (int64, apierror.ErrorResponse) {
	deadline, err := utils.ParseDate(date)
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError("deadline", utils.DateLayout)
	}

	if deadline <= now {
		return 0, apierror.DeadlineInPastError
	}
	return deadline, nil
}
