package repository

import (
	"errors"
	"omigec/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultVerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *DefaultVerificationRepository {
	return &DefaultVerificationRepository{db: db}
}

// LatestVerification returns the most recent document review of the profile.
func (v *DefaultVerificationRepository) LatestVerification(profileID int64) (*entity.Verification, error) {
	var ver entity.Verification
	err := v.db.
		Where("profile_id = ?", profileID).
		Order("id DESC").
		First(&ver).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &ver, nil
}

func (v *DefaultVerificationRepository) LatestReference(profileID int64) (*entity.Reference, error) {
	var ref entity.Reference
	err := v.db.
		Where("profile_id = ?", profileID).
		Order("id DESC").
		First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (v *DefaultVerificationRepository) FindReference(id int64) (*entity.Reference, error) {
	var ref entity.Reference
	err := v.db.First(&ref, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// FindPendingBySponsor lists the references a parrain still has to answer,
// with the applicant's profile.
func (v *DefaultVerificationRepository) FindPendingBySponsor(sponsorID int64) ([]*entity.Reference, error) {
	var refs []*entity.Reference
	err := v.db.
		Preload("Profile").
		Where("sponsor_id = ? AND status = ?", sponsorID, entity.ReviewPending).
		Order("created_at ASC").
		Find(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// SaveReview persists a review outcome: the profile with its derived
// status, and whichever of the verification, reference and payment rows
// changed. Nil rows are skipped.
func (v *DefaultVerificationRepository) SaveReview(profile *entity.Profile, ver *entity.Verification, ref *entity.Reference, payment *entity.Payment) error {
	return v.db.Transaction(func(tx *gorm.DB) error {
		if ver != nil {
			if err := tx.Save(ver).Error; err != nil {
				return err
			}
		}

		if ref != nil {
			if err := tx.Omit("Profile").Save(ref).Error; err != nil {
				return err
			}
		}

		if payment != nil {
			if err := tx.Save(payment).Error; err != nil {
				return err
			}
		}
		return tx.Save(profile).Error
	})
}

// Resubmit stores the new document keys of a rejected profile and opens a
// fresh pending review. A rejected reference is reopened too.
func (v *DefaultVerificationRepository) Resubmit(profile *entity.Profile, ver *entity.Verification) error {
	return v.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(profile).Error; err != nil {
			return err
		}

		if err := tx.Create(ver).Error; err != nil {
			return err
		}

		return tx.Model(&entity.Reference{}).
			Where("profile_id = ? AND status = ?", profile.ID, entity.ReviewRejected).
			Updates(map[string]any{"status": entity.ReviewPending, "responded_at": nil}).Error
	})
}
