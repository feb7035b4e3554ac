package policy

import (
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils/apierror"
)

const (
	admin          = entity.PermissionAdministrator
	verifyEngineer = entity.PermissionVerifyEngineers
	mngEntreprises = entity.PermissionManageEntreprises
	mngSubs        = entity.PermissionManageSubscriptions
	mngSponsors    = entity.PermissionManageSponsors
)

// AdminPolicy encapsulates the back-office rules.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
type AdminPolicy struct{}

func NewAdminPolicy() *AdminPolicy {
	return &AdminPolicy{}
}

func (p *AdminPolicy) CanVerifyEngineers(actor *entity.User) apierror.ErrorResponse {
	return requireAdmin(actor, verifyEngineer)
}

func (p *AdminPolicy) CanManageEntreprises(actor *entity.User) apierror.ErrorResponse {
	return requireAdmin(actor, mngEntreprises)
}

func (p *AdminPolicy) CanManageSubscriptions(actor *entity.User) apierror.ErrorResponse {
	return requireAdmin(actor, mngSubs)
}

func (p *AdminPolicy) CanManageSponsors(actor *entity.User) apierror.ErrorResponse {
	return requireAdmin(actor, mngSponsors)
}

// requireAdmin checks the role first: a permission bit on a non-admin
// account is ignored.
func requireAdmin(actor *entity.User, perm entity.Permission) apierror.ErrorResponse {
	if actor == nil {
		return apierror.UnauthorizedError
	}

	if !actor.IsAdmin() {
		return apierror.WrongRoleError
	}

	if !actor.Permissions.HasEffective(perm) {
		return permError(perm)
	}
	return nil
}

func permError(perm entity.Permission) *apierror.APIError {
	return apierror.NewPermissionError(int64(perm))
}
