package service

import (
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/domain/policy"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type ApplicationRepository interface {
	FindByID(id int64) (*entity.Application, error)
	Exists(engineerID, jobID int64) (bool, error)
	Save(app *entity.Application) error
	FindByEngineer(engineerID int64) ([]*entity.Application, error)
	FindByJob(jobID int64) ([]*entity.Application, error)
}

type ApplicationService struct {
	AppRepo         ApplicationRepository
	JobRepo         JobRepository
	ProfileRepo     ProfileRepository
	EntrepriseRepo  EntrepriseRepository
	OwnershipPolicy *policy.OwnershipPolicy
	Validate        *validator.Validate

	now func() int64
}

func NewApplicationService(
	appRepo ApplicationRepository,
	jobRepo JobRepository,
	profileRepo ProfileRepository,
	entrepriseRepo EntrepriseRepository,
	ownershipPolicy *policy.OwnershipPolicy,
	validate *validator.Validate,
) *ApplicationService {
	return &ApplicationService{
		AppRepo:         appRepo,
		JobRepo:         jobRepo,
		ProfileRepo:     profileRepo,
		EntrepriseRepo:  entrepriseRepo,
		OwnershipPolicy: ownershipPolicy,
		Validate:        validate,
		now:             utils.NowUTC,
	}
}

// Apply registers a validated engineer's application to an open offer.
func (a *ApplicationService) Apply(actor *entity.User, jobID int64, req *contract.ApplicationRequest) (*contract.ApplicationResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	profile, apierr := profileOf(a.ProfileRepo, actor)
	if apierr != nil {
		return nil, apierr
	}

	if profile.Status != entity.ProfileStatusValidated {
		return nil, apierror.ProfileNotValidatedError
	}

	job, err := a.JobRepo.FindByID(jobID)
	if err != nil {
		log.Errorf("failed to fetch job %d: %v", jobID, err)
		return nil, apierror.InternalServerError
	}

	if job == nil || job.Entreprise.Status != entity.EntrepriseStatusValid {
		return nil, apierror.NotFoundError
	}

	now := a.now()
	if !job.IsActive || job.Deadline < utils.StartOfDay(now) {
		return nil, apierror.JobClosedError
	}

	exists, err := a.AppRepo.Exists(profile.ID, job.ID)
	if err != nil {
		log.Errorf("failed to check application of profile %d to job %d: %v", profile.ID, job.ID, err)
		return nil, apierror.InternalServerError
	}

	if exists {
		return nil, apierror.AlreadyAppliedError
	}

	app := &entity.Application{
		EngineerID:  profile.ID,
		JobID:       job.ID,
		Status:      entity.ApplicationPending,
		CoverLetter: req.CoverLetter,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := a.AppRepo.Save(app); err != nil {
		// Lost a race against a double submit, the unique index caught it
		if again, _ := a.AppRepo.Exists(profile.ID, job.ID); again {
			return nil, apierror.AlreadyAppliedError
		}
		log.Errorf("failed to save application of profile %d to job %d: %v", profile.ID, job.ID, err)
		return nil, apierror.InternalServerError
	}

	app.Job = *job
	return toApplicationResponse(app), nil
}

func (a *ApplicationService) ListMyApplications(actor *entity.User) ([]*contract.ApplicationResponse, apierror.ErrorResponse) {
	profile, apierr := profileOf(a.ProfileRepo, actor)
	if apierr != nil {
		return nil, apierr
	}

	apps, err := a.AppRepo.FindByEngineer(profile.ID)
	if err != nil {
		log.Errorf("failed to list applications of profile %d: %v", profile.ID, err)
		return nil, apierror.InternalServerError
	}
	return toApplicationResponses(apps), nil
}

func (a *ApplicationService) ListJobApplications(actor *entity.User, jobID int64) ([]*contract.ApplicationResponse, apierror.ErrorResponse) {
	ent, apierr := entrepriseOf(a.EntrepriseRepo, actor)
	if apierr != nil {
		return nil, apierr
	}

	job, err := a.JobRepo.FindByID(jobID)
	if err != nil {
		log.Errorf("failed to fetch job %d: %v", jobID, err)
		return nil, apierror.InternalServerError
	}

	if apierr := a.OwnershipPolicy.CanManageJob(ent, job); apierr != nil {
		return nil, apierr
	}

	apps, err := a.AppRepo.FindByJob(job.ID)
	if err != nil {
		log.Errorf("failed to list applications of job %d: %v", job.ID, err)
		return nil, apierror.InternalServerError
	}
	return toApplicationResponses(apps), nil
}

func (a *ApplicationService) DecideApplication(actor *entity.User, id int64, req *contract.ApplicationDecisionRequest) (*contract.ApplicationResponse, apierror.ErrorResponse) {
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	ent, apierr := entrepriseOf(a.EntrepriseRepo, actor)
	if apierr != nil {
		return nil, apierr
	}

	app, err := a.AppRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch application %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if apierr := a.OwnershipPolicy.CanDecideApplication(ent, app); apierr != nil {
		return nil, apierr
	}

	target := entity.ApplicationRejected
	if *req.Accept {
		target = entity.ApplicationAccepted
	}

	if !entity.CanTransition(app.Status, target) {
		return nil, apierror.InvalidTransition
	}

	app.Status = target
	app.UpdatedAt = a.now()
	if err := a.AppRepo.Save(app); err != nil {
		log.Errorf("failed to decide application %d: %v", app.ID, err)
		return nil, apierror.InternalServerError
	}
	return toApplicationResponse(app), nil
}

func toApplicationResponses(apps []*entity.Application) []*contract.ApplicationResponse {
	resp := make([]*contract.ApplicationResponse, len(apps))
	for i, app := range apps {
		resp[i] = toApplicationResponse(app)
	}
	return resp
}
