package policy

import (
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils/apierror"
)

// OwnershipPolicy decides who may touch entreprise and engineer resources.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// CanManageJob checks that 'job' belongs to 'ent'.
func (p *OwnershipPolicy) CanManageJob(ent *entity.Entreprise, job *entity.JobOffer) apierror.ErrorResponse {
	if job == nil {
		return apierror.NotFoundError
	}

	if ent == nil || job.EntrepriseID != ent.ID {
		return apierror.NotOwnerError
	}
	return nil
}

// CanDecideApplication checks the application targets one of the
// entreprise's offers. The application must carry its Job.
func (p *OwnershipPolicy) CanDecideApplication(ent *entity.Entreprise, app *entity.Application) apierror.ErrorResponse {
	if app == nil {
		return apierror.NotFoundError
	}
	return p.CanManageJob(ent, &app.Job)
}

// CanReadDocument allows the profile owner and admins entitled to review
// engineers.
func (p *OwnershipPolicy) CanReadDocument(actor *entity.User, profile *entity.Profile) apierror.ErrorResponse {
	if profile == nil {
		return apierror.NotFoundError
	}

	if profile.UserID == actor.ID {
		return nil
	}

	if actor.IsAdmin() && actor.Permissions.HasEffective(verifyEngineer) {
		return nil
	}
	return apierror.NotOwnerError
}

// CanRespondReference only lets the designated parrain answer.
func (p *OwnershipPolicy) CanRespondReference(sponsor *entity.Profile, ref *entity.Reference) apierror.ErrorResponse {
	if ref == nil {
		return apierror.NotFoundError
	}

	if sponsor == nil || ref.SponsorID != sponsor.ID {
		return apierror.NotOwnerError
	}
	return nil
}
