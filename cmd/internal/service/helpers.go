package service

import (
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

type EntrepriseRepository interface {
	FindByID(id int64) (*entity.Entreprise, error)
	FindByUserID(userID int64) (*entity.Entreprise, error)
	ExistsByNIF(nif string) (bool, error)
	FindByStatus(status entity.EntrepriseStatus, limit, offset int) ([]*entity.Entreprise, int64, error)
	Save(ent *entity.Entreprise) error
}

type ProfileRepository interface {
	FindByID(id int64) (*entity.Profile, error)
	FindByUserID(userID int64) (*entity.Profile, error)
	ExistsByNNI(nni string) (bool, error)
	Save(profile *entity.Profile) error
	Search(query, domain string, limit, offset int) ([]*entity.Profile, int64, error)
	FindByStatus(status entity.ProfileStatus, limit, offset int) ([]*entity.Profile, int64, error)
}

type PaymentRepository interface {
	FindCotisation(profileID int64) (*entity.Payment, error)
	FindBySubscription(subscriptionID int64) (*entity.Payment, error)
	Save(payment *entity.Payment) error
}

// entrepriseOf resolves the entreprise account behind 'actor'.
func entrepriseOf(repo EntrepriseRepository, actor *entity.User) (*entity.Entreprise, apierror.ErrorResponse) {
	if actor.Role != entity.RoleEntreprise {
		return nil, apierror.WrongRoleError
	}

	ent, err := repo.FindByUserID(actor.ID)
	if err != nil {
		log.Errorf("failed to fetch entreprise of user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	if ent == nil {
		// Account without its entreprise row, registration went wrong
		log.Warnf("user %d has the entreprise role but no entreprise", actor.ID)
		return nil, apierror.NotFoundError
	}
	return ent, nil
}

// profileOf resolves the engineer profile behind 'actor'.
func profileOf(repo ProfileRepository, actor *entity.User) (*entity.Profile, apierror.ErrorResponse) {
	if actor.Role != entity.RoleEngineer {
		return nil, apierror.WrongRoleError
	}

	profile, err := repo.FindByUserID(actor.ID)
	if err != nil {
		log.Errorf("failed to fetch profile of user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	if profile == nil {
		log.Warnf("user %d has the engineer role but no profile", actor.ID)
		return nil, apierror.NotFoundError
	}
	return profile, nil
}

// pageOf applies the default and maximum page sizes.
func pageOf(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = contract.DefaultPageSize
	}

	if limit > contract.MaxPageSize {
		limit = contract.MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
