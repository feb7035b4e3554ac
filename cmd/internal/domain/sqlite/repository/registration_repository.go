package repository

import (
	"omigec/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

// DefaultRegistrationRepository writes every row of a new account in one
// transaction, so a failed registration never leaves a half-created member.
type DefaultRegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *DefaultRegistrationRepository {
	return &DefaultRegistrationRepository{db: db}
}

// CreateEngineer inserts the user, then the profile, then its pending
// verification, reference and cotisation payment. The child rows get their
// foreign keys from the freshly inserted parents. 'ref' is nil when the
// applicant named no parrain.
func (r *DefaultRegistrationRepository) CreateEngineer(user *entity.User, profile *entity.Profile, ver *entity.Verification, ref *entity.Reference, payment *entity.Payment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		ver.ProfileID = profile.ID
		if err := tx.Create(ver).Error; err != nil {
			return err
		}

		if ref != nil {
			ref.ProfileID = profile.ID
			if err := tx.Omit("Profile").Create(ref).Error; err != nil {
				return err
			}
		}

		payment.PayerID = profile.ID
		return tx.Create(payment).Error
	})
}

func (r *DefaultRegistrationRepository) CreateEntreprise(user *entity.User, ent *entity.Entreprise) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		ent.UserID = user.ID
		return tx.Create(ent).Error
	})
}
